/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"fmt"
	"sort"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/models"
)

// AddMediaItem adopts a caller-built item into the library. Identity and
// owned sub-documents are assigned here regardless of what the caller
// set: new items always start with a fresh id, empty notes, bookmarks
// and conversations, and a zero play count.
func (s *Store) AddMediaItem(item models.MediaItem) models.MediaItem {
	now := s.now()
	item.ID = s.newID("media")
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Notes = nil
	item.Bookmarks = nil
	item.AIChats = nil
	item.PlayCount = 0
	if item.Status == "" {
		item.Status = models.MediaStatusReady
	}

	s.mu.Lock()
	s.mediaItems = append(s.mediaItems, item)
	s.prependActivityLocked(models.ActivityItem{
		ID:      s.newID("act"),
		Type:    models.ActivityImport,
		Title:   "Media added",
		Desc:    item.Name,
		Time:    now,
		MediaID: item.ID,
		Status:  "success",
	})
	s.mu.Unlock()

	s.publish(events.EventMediaUpdated, item.ID)
	s.publish(events.EventActivityAdded, nil)
	s.requestSave()
	return item
}

// UpdateMediaItem applies mutate to the named item and touches its
// UpdatedAt. Returns false when the id is unknown, in which case nothing
// is published or saved.
func (s *Store) UpdateMediaItem(id string, mutate func(*models.MediaItem)) bool {
	s.mu.Lock()
	idx := s.mediaIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	item := s.mediaItems[idx]
	mutate(&item)
	item.ID = id
	item.UpdatedAt = s.now()
	s.mediaItems[idx] = item
	s.mu.Unlock()

	s.publish(events.EventMediaUpdated, id)
	s.requestSave()
	return true
}

// RecordPlayback bumps the play count and remembers the position.
func (s *Store) RecordPlayback(id string, position float64) bool {
	return s.UpdateMediaItem(id, func(m *models.MediaItem) {
		m.PlayCount++
		m.LastPosition = position
		now := s.now()
		m.LastPlayedAt = &now
	})
}

// DeleteMediaItem moves an item to the trash and scrubs every reference
// to it: membership in all collections and, if it was active, the
// active pointer. The trash snapshot is taken before any scrubbing.
func (s *Store) DeleteMediaItem(id string) bool {
	s.mu.Lock()
	idx := s.mediaIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	item := s.mediaItems[idx]
	s.deletedItems = append(s.deletedItems, models.DeletedItem{
		ID:         s.newID("trash"),
		OriginalID: item.ID,
		Type:       models.DeletedMedia,
		Name:       item.Name,
		Preview:    item.Thumbnail,
		DeletedAt:  s.now(),
		Data:       models.DeletedPayload{Media: &item},
	})
	s.removeMediaLocked(idx, id)
	s.mu.Unlock()

	s.publish(events.EventMediaUpdated, id)
	s.publish(events.EventCollectionsUpdated, nil)
	s.publish(events.EventTrashUpdated, nil)
	s.requestSave()
	return true
}

// DiscardMediaItem removes an item without a trash snapshot. Same
// reference scrubbing as DeleteMediaItem.
func (s *Store) DiscardMediaItem(id string) bool {
	s.mu.Lock()
	idx := s.mediaIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.removeMediaLocked(idx, id)
	s.mu.Unlock()

	s.publish(events.EventMediaUpdated, id)
	s.publish(events.EventCollectionsUpdated, nil)
	s.requestSave()
	return true
}

func (s *Store) mediaIndexLocked(id string) int {
	for i := range s.mediaItems {
		if s.mediaItems[i].ID == id {
			return i
		}
	}
	return -1
}

// removeMediaLocked drops the item at idx and purges id from every
// collection and the active pointer.
func (s *Store) removeMediaLocked(idx int, id string) {
	s.mediaItems = append(s.mediaItems[:idx], s.mediaItems[idx+1:]...)
	for i := range s.collections {
		s.collections[i].MediaIDs = removeString(s.collections[i].MediaIDs, id)
	}
	if s.activeMediaID == id {
		s.activeMediaID = ""
	}
}

// removeString builds a fresh slice rather than compacting in place:
// exported snapshots share the old backing array.
func removeString(in []string, drop string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

// --- notes --------------------------------------------------------------

// AddNote appends a note to an item. Returns nil when the item is
// unknown.
func (s *Store) AddNote(mediaID string, content string, timestamp *float64) *models.MediaNote {
	now := s.now()
	note := models.MediaNote{
		ID:        s.newID("note"),
		MediaID:   mediaID,
		Content:   content,
		Timestamp: timestamp,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var itemName string
	ok := s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		m.Notes = append(cloneSlice(m.Notes), note)
		itemName = m.Name
	})
	if !ok {
		return nil
	}
	s.AddActivity(models.ActivityNote, "Note added", itemName)
	return &note
}

// UpdateNote rewrites a note's content and touches its UpdatedAt.
func (s *Store) UpdateNote(mediaID, noteID, content string) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		notes := cloneSlice(m.Notes)
		for i := range notes {
			if notes[i].ID == noteID {
				notes[i].Content = content
				notes[i].UpdatedAt = s.now()
				found = true
			}
		}
		m.Notes = notes
	})
	return found
}

// DeleteNote removes a note from an item.
func (s *Store) DeleteNote(mediaID, noteID string) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		notes := make([]models.MediaNote, 0, len(m.Notes))
		for _, n := range m.Notes {
			if n.ID == noteID {
				found = true
				continue
			}
			notes = append(notes, n)
		}
		m.Notes = notes
	})
	return found
}

// --- bookmarks ----------------------------------------------------------

// AddBookmark inserts a bookmark; the list stays ordered by timestamp.
func (s *Store) AddBookmark(mediaID string, timestamp float64, label string, color models.BookmarkColor) *models.Bookmark {
	if color == "" {
		color = models.BookmarkYellow
	}
	bm := models.Bookmark{
		ID:        s.newID("bm"),
		MediaID:   mediaID,
		Timestamp: timestamp,
		Label:     label,
		Color:     color,
		CreatedAt: s.now(),
	}
	var itemName string
	ok := s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		bms := append(cloneSlice(m.Bookmarks), bm)
		sortBookmarks(bms)
		m.Bookmarks = bms
		itemName = m.Name
	})
	if !ok {
		return nil
	}
	s.AddActivity(models.ActivityBookmark, "Bookmark added", itemName)
	return &bm
}

// UpdateBookmark applies mutate to one bookmark and re-sorts, since the
// timestamp may have moved.
func (s *Store) UpdateBookmark(mediaID, bookmarkID string, mutate func(*models.Bookmark)) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		bms := cloneSlice(m.Bookmarks)
		for i := range bms {
			if bms[i].ID == bookmarkID {
				mutate(&bms[i])
				bms[i].ID = bookmarkID
				found = true
			}
		}
		sortBookmarks(bms)
		m.Bookmarks = bms
	})
	return found
}

// DeleteBookmark removes a bookmark from an item.
func (s *Store) DeleteBookmark(mediaID, bookmarkID string) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		bms := make([]models.Bookmark, 0, len(m.Bookmarks))
		for _, b := range m.Bookmarks {
			if b.ID == bookmarkID {
				found = true
				continue
			}
			bms = append(bms, b)
		}
		m.Bookmarks = bms
	})
	return found
}

func sortBookmarks(bms []models.Bookmark) {
	sort.SliceStable(bms, func(i, j int) bool {
		return bms[i].Timestamp < bms[j].Timestamp
	})
}

// --- transcription and summary ------------------------------------------

// SetTranscription attaches a transcription and logs an activity.
func (s *Store) SetTranscription(mediaID string, t models.Transcription) bool {
	t.MediaID = mediaID
	var name string
	ok := s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		m.Transcription = &t
		name = m.Name
	})
	if ok {
		s.AddActivity(models.ActivityTranscription, "Transcription ready",
			fmt.Sprintf("%s (%d segments)", name, len(t.Segments)))
	}
	return ok
}

// SetAISummary attaches an AI summary and logs an activity.
func (s *Store) SetAISummary(mediaID string, summary models.AISummary) bool {
	summary.MediaID = mediaID
	var name string
	ok := s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		m.Summary = &summary
		name = m.Name
	})
	if ok {
		s.AddActivity(models.ActivitySummary, "Summary ready", name)
	}
	return ok
}

// --- AI conversations ---------------------------------------------------

// StartConversation opens a new chat thread on an item.
func (s *Store) StartConversation(mediaID, title string) *models.AIConversation {
	now := s.now()
	conv := models.AIConversation{
		ID:        s.newID("chat"),
		MediaID:   mediaID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ok := s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		m.AIChats = append(cloneSlice(m.AIChats), conv)
	})
	if !ok {
		return nil
	}
	return &conv
}

// AppendChatMessage adds one message to a conversation thread.
func (s *Store) AppendChatMessage(mediaID, conversationID string, role models.MessageRole, content string, referencedSegments []string) *models.AIMessage {
	msg := models.AIMessage{
		ID:                 s.newID("msg"),
		Role:               role,
		Content:            content,
		Timestamp:          s.now(),
		ReferencedSegments: referencedSegments,
	}
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		chats := cloneSlice(m.AIChats)
		for i := range chats {
			if chats[i].ID == conversationID {
				chats[i].Messages = append(cloneSlice(chats[i].Messages), msg)
				chats[i].UpdatedAt = msg.Timestamp
				found = true
			}
		}
		m.AIChats = chats
	})
	if !found {
		return nil
	}
	return &msg
}

// RenameConversation changes a thread title.
func (s *Store) RenameConversation(mediaID, conversationID, title string) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		chats := cloneSlice(m.AIChats)
		for i := range chats {
			if chats[i].ID == conversationID {
				chats[i].Title = title
				chats[i].UpdatedAt = s.now()
				found = true
			}
		}
		m.AIChats = chats
	})
	return found
}

// DeleteConversation drops a thread from an item.
func (s *Store) DeleteConversation(mediaID, conversationID string) bool {
	found := false
	s.UpdateMediaItem(mediaID, func(m *models.MediaItem) {
		chats := make([]models.AIConversation, 0, len(m.AIChats))
		for _, c := range m.AIChats {
			if c.ID == conversationID {
				found = true
				continue
			}
			chats = append(chats, c)
		}
		m.AIChats = chats
	})
	return found
}
