/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"testing"

	"github.com/ChenM0M/Vecho/internal/models"
)

func collectionNames(cols []models.Collection) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func TestAddCollectionAppendsSortOrder(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	a := s.AddCollection("first", "", "")
	b := s.AddCollection("second", "", "")
	if a.SortOrder != 0 || b.SortOrder != 1 {
		t.Errorf("sort orders = %d, %d", a.SortOrder, b.SortOrder)
	}
}

func TestAddMediaToCollectionIdempotent(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	item := s.AddMediaItem(models.MediaItem{Name: "m"})
	col := s.AddCollection("c", "", "")

	if !s.AddMediaToCollection(col.ID, item.ID) {
		t.Fatal("first add failed")
	}
	if !s.AddMediaToCollection(col.ID, item.ID) {
		t.Fatal("repeat add must still report success")
	}
	got := s.Collections()[0]
	if len(got.MediaIDs) != 1 {
		t.Fatalf("membership duplicated: %v", got.MediaIDs)
	}

	if !s.RemoveMediaFromCollection(col.ID, item.ID) {
		t.Fatal("remove failed")
	}
	if s.RemoveMediaFromCollection(col.ID, item.ID) {
		t.Error("removing an absent id must report no change")
	}
}

func TestReorderCollections(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	s.AddCollection("first", "", "")
	s.AddCollection("second", "", "")
	s.AddCollection("third", "", "")

	// Move the head to the back.
	if err := s.ReorderCollections(0, 2); err != nil {
		t.Fatal(err)
	}
	cols := s.Collections()
	sortCollections(cols)
	want := []string{"second", "third", "first"}
	for i, name := range collectionNames(cols) {
		if name != want[i] {
			t.Fatalf("order = %v, want %v", collectionNames(cols), want)
		}
	}
	for i, c := range cols {
		if c.SortOrder != i {
			t.Errorf("SortOrder[%d] = %d, not dense", i, c.SortOrder)
		}
	}
}

func TestReorderCollectionsBounds(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()
	s.AddCollection("only", "", "")

	if err := s.ReorderCollections(0, 5); err == nil {
		t.Error("out-of-range reorder must error")
	}
	if err := s.ReorderCollections(-1, 0); err == nil {
		t.Error("negative index must error")
	}
	if err := s.ReorderCollections(0, 0); err != nil {
		t.Errorf("no-op reorder errored: %v", err)
	}
}

func TestDeleteCollectionRepacksAndTrashes(t *testing.T) {
	s := bootstrapped(Options{})
	defer s.Close()

	s.AddCollection("a", "", "")
	b := s.AddCollection("b", "", "")
	s.AddCollection("c", "", "")

	if !s.DeleteCollection(b.ID) {
		t.Fatal("delete failed")
	}
	cols := s.Collections()
	sortCollections(cols)
	for i, c := range cols {
		if c.SortOrder != i {
			t.Errorf("SortOrder[%d] = %d after delete", i, c.SortOrder)
		}
	}
	trash := s.DeletedItems()
	if len(trash) != 1 || trash[0].Type != models.DeletedFolder {
		t.Fatalf("trash entry wrong: %+v", trash)
	}

	// Restored collections land at the end of the order.
	if !s.RestoreFromTrash(trash[0].ID) {
		t.Fatal("restore failed")
	}
	cols = s.Collections()
	sortCollections(cols)
	if cols[len(cols)-1].Name != "b" {
		t.Errorf("restored collection not at end: %v", collectionNames(cols))
	}
}
