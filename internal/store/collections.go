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

// AddCollection creates a collection at the end of the sort order.
func (s *Store) AddCollection(name, color, icon string) models.Collection {
	s.mu.Lock()
	now := s.now()
	col := models.Collection{
		ID:        s.newID("col"),
		Name:      name,
		Color:     color,
		Icon:      icon,
		SortOrder: len(s.collections),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.collections = append(s.collections, col)
	s.mu.Unlock()

	s.publish(events.EventCollectionsUpdated, nil)
	s.requestSave()
	return col
}

// UpdateCollection applies mutate to the named collection. Identity and
// sort order are owned by the store; mutate cannot change them.
func (s *Store) UpdateCollection(id string, mutate func(*models.Collection)) bool {
	s.mu.Lock()
	idx := s.collectionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	col := s.collections[idx]
	mutate(&col)
	col.ID = id
	col.SortOrder = s.collections[idx].SortOrder
	col.UpdatedAt = s.now()
	s.collections[idx] = col
	s.mu.Unlock()

	s.publish(events.EventCollectionsUpdated, nil)
	s.requestSave()
	return true
}

// DeleteCollection moves a collection to the trash and re-packs the
// remaining sort order. Member items are untouched.
func (s *Store) DeleteCollection(id string) bool {
	s.mu.Lock()
	idx := s.collectionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	col := s.collections[idx]
	s.deletedItems = append(s.deletedItems, models.DeletedItem{
		ID:         s.newID("trash"),
		OriginalID: col.ID,
		Type:       models.DeletedFolder,
		Name:       col.Name,
		DeletedAt:  s.now(),
		Data:       models.DeletedPayload{Folder: &col},
	})
	s.collections = append(s.collections[:idx], s.collections[idx+1:]...)
	repackSortOrder(s.collections)
	s.mu.Unlock()

	s.publish(events.EventCollectionsUpdated, nil)
	s.publish(events.EventTrashUpdated, nil)
	s.requestSave()
	return true
}

// AddMediaToCollection adds a membership edge. Idempotent: an id already
// present is left alone and nothing is published or saved.
func (s *Store) AddMediaToCollection(collectionID, mediaID string) bool {
	s.mu.Lock()
	idx := s.collectionIndexLocked(collectionID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	for _, existing := range s.collections[idx].MediaIDs {
		if existing == mediaID {
			s.mu.Unlock()
			return true
		}
	}
	s.collections[idx].MediaIDs = append(s.collections[idx].MediaIDs, mediaID)
	s.mu.Unlock()

	s.publish(events.EventCollectionsUpdated, nil)
	s.requestSave()
	return true
}

// RemoveMediaFromCollection drops a membership edge if present.
func (s *Store) RemoveMediaFromCollection(collectionID, mediaID string) bool {
	s.mu.Lock()
	idx := s.collectionIndexLocked(collectionID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	before := len(s.collections[idx].MediaIDs)
	s.collections[idx].MediaIDs = removeString(s.collections[idx].MediaIDs, mediaID)
	changed := len(s.collections[idx].MediaIDs) != before
	s.mu.Unlock()

	if changed {
		s.publish(events.EventCollectionsUpdated, nil)
		s.requestSave()
	}
	return changed
}

// ReorderCollections moves the collection at position from (in sort
// order) to position to, then re-packs SortOrder to be dense again.
func (s *Store) ReorderCollections(from, to int) error {
	s.mu.Lock()
	n := len(s.collections)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return fmt.Errorf("reorder out of range: from=%d to=%d len=%d", from, to, n)
	}
	if from == to {
		s.mu.Unlock()
		return nil
	}
	ordered := cloneSlice(s.collections)
	sortCollections(ordered)
	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	reordered := make([]models.Collection, 0, n)
	reordered = append(reordered, ordered[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, ordered[to:]...)
	for i := range reordered {
		reordered[i].SortOrder = i
	}
	s.collections = reordered
	s.mu.Unlock()

	s.publish(events.EventCollectionsUpdated, nil)
	s.requestSave()
	return nil
}

func (s *Store) collectionIndexLocked(id string) int {
	for i := range s.collections {
		if s.collections[i].ID == id {
			return i
		}
	}
	return -1
}

// repackSortOrder sorts by SortOrder (stable, so ties keep their
// relative position) and reassigns dense indices 0..n-1.
func repackSortOrder(cols []models.Collection) {
	sortCollections(cols)
	for i := range cols {
		cols[i].SortOrder = i
	}
}

func sortCollections(cols []models.Collection) {
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].SortOrder < cols[j].SortOrder
	})
}
