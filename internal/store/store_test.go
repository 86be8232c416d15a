/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"testing"

	"github.com/ChenM0M/Vecho/internal/models"
)

func TestAddMediaItemAssignsIdentity(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	in := models.MediaItem{
		ID:     "caller-chosen",
		Type:   models.MediaVideo,
		Name:   "clip.mp4",
		Source: models.NewLocalSource("/tmp/clip.mp4", 1024),
		Notes:  []models.MediaNote{{ID: "stale"}},
	}
	got := s.AddMediaItem(in)

	if got.ID == "caller-chosen" || got.ID == "" {
		t.Fatalf("expected store-assigned id, got %q", got.ID)
	}
	if got.Notes != nil || got.Bookmarks != nil || got.AIChats != nil {
		t.Errorf("owned sub-documents must start empty: %+v", got)
	}
	if got.Status != models.MediaStatusReady {
		t.Errorf("status = %q, want ready", got.Status)
	}
	if len(s.MediaItems()) != 1 {
		t.Fatalf("library size = %d, want 1", len(s.MediaItems()))
	}
	acts := s.Activities()
	if len(acts) != 1 || acts[0].Type != models.ActivityImport {
		t.Errorf("expected import activity, got %+v", acts)
	}
}

func TestDeleteMediaItemScrubsReferences(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "a", Type: models.MediaAudio})
	other := s.AddMediaItem(models.MediaItem{Name: "b", Type: models.MediaAudio})
	col := s.AddCollection("Research", "", "")
	s.AddMediaToCollection(col.ID, item.ID)
	s.AddMediaToCollection(col.ID, other.ID)
	s.SetActiveMediaItem(item.ID)

	if !s.DeleteMediaItem(item.ID) {
		t.Fatal("delete returned false")
	}

	if _, ok := s.MediaItem(item.ID); ok {
		t.Error("item still in library")
	}
	cols := s.Collections()
	if len(cols[0].MediaIDs) != 1 || cols[0].MediaIDs[0] != other.ID {
		t.Errorf("collection membership not scrubbed: %v", cols[0].MediaIDs)
	}
	if s.ActiveMediaItem() != nil {
		t.Error("active pointer not cleared")
	}
	trash := s.DeletedItems()
	if len(trash) != 1 || trash[0].Type != models.DeletedMedia || trash[0].OriginalID != item.ID {
		t.Fatalf("trash entry wrong: %+v", trash)
	}
	if trash[0].Data.Media == nil || trash[0].Data.Media.ID != item.ID {
		t.Error("trash snapshot missing")
	}
}

func TestCollectionSnapshotStableAcrossDelete(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	first := s.AddMediaItem(models.MediaItem{Name: "a", Type: models.MediaAudio})
	second := s.AddMediaItem(models.MediaItem{Name: "b", Type: models.MediaAudio})
	col := s.AddCollection("Research", "", "")
	s.AddMediaToCollection(col.ID, first.ID)
	s.AddMediaToCollection(col.ID, second.ID)

	snap := s.Collections()
	doc := s.ExportDocument()

	if !s.DeleteMediaItem(first.ID) {
		t.Fatal("delete returned false")
	}

	// Snapshots taken before the delete keep the old membership.
	if got := snap[0].MediaIDs; len(got) != 2 || got[0] != first.ID || got[1] != second.ID {
		t.Fatalf("earlier snapshot mutated by delete: %v", got)
	}
	if got := doc.Data.Collections[0].MediaIDs; len(got) != 2 || got[0] != first.ID {
		t.Fatalf("exported document mutated by delete: %v", got)
	}
}

func TestDiscardMediaItemSkipsTrash(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "scratch", Type: models.MediaVideo})
	if !s.DiscardMediaItem(item.ID) {
		t.Fatal("discard returned false")
	}
	if len(s.DeletedItems()) != 0 {
		t.Error("discard must not create a trash entry")
	}
	if len(s.MediaItems()) != 0 {
		t.Error("item still in library")
	}
}

func TestRestoreFromTrashVerbatim(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "keep", Type: models.MediaVideo})
	s.AddBookmark(item.ID, 12.5, "intro", models.BookmarkGreen)
	before, _ := s.MediaItem(item.ID)

	s.DeleteMediaItem(item.ID)
	trashID := s.DeletedItems()[0].ID
	if !s.RestoreFromTrash(trashID) {
		t.Fatal("restore returned false")
	}

	after, ok := s.MediaItem(item.ID)
	if !ok {
		t.Fatal("item not restored")
	}
	if after.ID != before.ID || after.Name != before.Name || len(after.Bookmarks) != 1 {
		t.Errorf("restore not verbatim: %+v", after)
	}
	if len(s.DeletedItems()) != 0 {
		t.Error("trash entry not consumed")
	}
}

func TestEmptyTrash(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	a := s.AddMediaItem(models.MediaItem{Name: "a"})
	b := s.AddMediaItem(models.MediaItem{Name: "b"})
	s.DeleteMediaItem(a.ID)
	s.DeleteMediaItem(b.ID)

	if n := s.EmptyTrash(); n != 2 {
		t.Fatalf("emptied %d, want 2", n)
	}
	if len(s.DeletedItems()) != 0 {
		t.Error("trash not empty")
	}
}

func TestNoteLifecycle(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "talk", Type: models.MediaAudio})
	ts := 42.0
	note := s.AddNote(item.ID, "first pass", &ts)
	if note == nil {
		t.Fatal("AddNote returned nil")
	}
	if note.MediaID != item.ID {
		t.Errorf("note.MediaID = %q", note.MediaID)
	}

	if !s.UpdateNote(item.ID, note.ID, "second pass") {
		t.Fatal("UpdateNote returned false")
	}
	got, _ := s.MediaItem(item.ID)
	if got.Notes[0].Content != "second pass" {
		t.Errorf("content = %q", got.Notes[0].Content)
	}

	if !s.DeleteNote(item.ID, note.ID) {
		t.Fatal("DeleteNote returned false")
	}
	got, _ = s.MediaItem(item.ID)
	if len(got.Notes) != 0 {
		t.Error("note not deleted")
	}
	if s.AddNote("missing", "x", nil) != nil {
		t.Error("AddNote on unknown media must return nil")
	}
}

func TestBookmarksStaySorted(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "vid", Type: models.MediaVideo})
	s.AddBookmark(item.ID, 90, "end", models.BookmarkRed)
	s.AddBookmark(item.ID, 10, "start", "")
	s.AddBookmark(item.ID, 50, "middle", models.BookmarkBlue)

	got, _ := s.MediaItem(item.ID)
	if len(got.Bookmarks) != 3 {
		t.Fatalf("bookmark count = %d", len(got.Bookmarks))
	}
	for i, want := range []float64{10, 50, 90} {
		if got.Bookmarks[i].Timestamp != want {
			t.Errorf("bookmarks[%d].Timestamp = %v, want %v", i, got.Bookmarks[i].Timestamp, want)
		}
	}
	if got.Bookmarks[0].Color != models.BookmarkYellow {
		t.Errorf("default color = %q, want yellow", got.Bookmarks[0].Color)
	}
}

func TestConversationLifecycle(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "lecture", Type: models.MediaVideo})
	conv := s.StartConversation(item.ID, "Key takeaways")
	if conv == nil {
		t.Fatal("StartConversation returned nil")
	}
	msg := s.AppendChatMessage(item.ID, conv.ID, models.RoleUser, "what are the main points?", nil)
	if msg == nil {
		t.Fatal("AppendChatMessage returned nil")
	}
	if s.AppendChatMessage(item.ID, "missing", models.RoleUser, "x", nil) != nil {
		t.Error("append to unknown conversation must return nil")
	}

	got, _ := s.MediaItem(item.ID)
	if len(got.AIChats) != 1 || len(got.AIChats[0].Messages) != 1 {
		t.Fatalf("chat shape wrong: %+v", got.AIChats)
	}

	if !s.RenameConversation(item.ID, conv.ID, "Summary") {
		t.Fatal("rename failed")
	}
	if !s.DeleteConversation(item.ID, conv.ID) {
		t.Fatal("delete failed")
	}
	got, _ = s.MediaItem(item.ID)
	if len(got.AIChats) != 0 {
		t.Error("conversation not deleted")
	}
}

func TestNotesAndBookmarksRecordActivity(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "talk", Type: models.MediaAudio})
	s.AddNote(item.ID, "first pass", nil)
	s.AddBookmark(item.ID, 12, "intro", "")

	acts := s.Activities()
	if len(acts) != 3 {
		t.Fatalf("activity count = %d, want 3: %+v", len(acts), acts)
	}
	// Newest first: bookmark, note, then the import from AddMediaItem.
	if acts[0].Type != models.ActivityBookmark || acts[1].Type != models.ActivityNote {
		t.Errorf("activity types = %q, %q", acts[0].Type, acts[1].Type)
	}
	if acts[0].Desc != "talk" || acts[1].Desc != "talk" {
		t.Errorf("activity descs = %q, %q, want item name", acts[0].Desc, acts[1].Desc)
	}
}

func TestActivityFeedBounded(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	for i := 0; i < activityLimit+20; i++ {
		s.AddActivity(models.ActivityOther, "tick", "")
	}
	acts := s.Activities()
	if len(acts) != activityLimit {
		t.Fatalf("feed length = %d, want %d", len(acts), activityLimit)
	}
}

func TestWorkflowLifecycle(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	w := s.AddWorkflow(models.Workflow{Name: "Pipeline", Desc: "d"})
	if w.Status != models.WorkflowDraft {
		t.Errorf("default status = %q, want draft", w.Status)
	}
	if !s.UpdateWorkflow(w.ID, func(wf *models.Workflow) { wf.Runs++ }) {
		t.Fatal("update failed")
	}
	if !s.DeleteWorkflow(w.ID) {
		t.Fatal("delete failed")
	}
	trash := s.DeletedItems()
	if len(trash) != 1 || trash[0].Type != models.DeletedWorkflow {
		t.Fatalf("trash entry wrong: %+v", trash)
	}
	if !s.RestoreFromTrash(trash[0].ID) {
		t.Fatal("restore failed")
	}
	wfs := s.Workflows()
	if len(wfs) != 1 || wfs[0].Runs != 1 {
		t.Errorf("restored workflow wrong: %+v", wfs)
	}
}
