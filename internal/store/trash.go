/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/models"
)

// RestoreFromTrash puts a trashed entry back into its table, snapshot
// verbatim. Restored collections land at the end of the sort order.
func (s *Store) RestoreFromTrash(id string) bool {
	s.mu.Lock()
	idx := s.trashIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	entry := s.deletedItems[idx]
	restored := false
	switch entry.Type {
	case models.DeletedMedia:
		if entry.Data.Media != nil {
			s.mediaItems = append(s.mediaItems, *entry.Data.Media)
			restored = true
		}
	case models.DeletedWorkflow:
		if entry.Data.Workflow != nil {
			s.workflows = append(s.workflows, *entry.Data.Workflow)
			restored = true
		}
	case models.DeletedFolder:
		if entry.Data.Folder != nil {
			col := *entry.Data.Folder
			col.SortOrder = len(s.collections)
			s.collections = append(s.collections, col)
			restored = true
		}
	}
	if !restored {
		// Entry with no payload cannot be restored; leave it for
		// permanent deletion.
		s.mu.Unlock()
		return false
	}
	s.deletedItems = append(s.deletedItems[:idx], s.deletedItems[idx+1:]...)
	s.mu.Unlock()

	s.publishForTrashType(entry.Type)
	s.publish(events.EventTrashUpdated, nil)
	s.requestSave()
	return true
}

// PermanentlyDelete drops a trash entry for good.
func (s *Store) PermanentlyDelete(id string) bool {
	s.mu.Lock()
	idx := s.trashIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.deletedItems = append(s.deletedItems[:idx], s.deletedItems[idx+1:]...)
	s.mu.Unlock()

	s.publish(events.EventTrashUpdated, nil)
	s.requestSave()
	return true
}

// EmptyTrash drops every trash entry.
func (s *Store) EmptyTrash() int {
	s.mu.Lock()
	n := len(s.deletedItems)
	s.deletedItems = nil
	s.mu.Unlock()

	if n > 0 {
		s.publish(events.EventTrashUpdated, nil)
		s.requestSave()
	}
	return n
}

func (s *Store) trashIndexLocked(id string) int {
	for i := range s.deletedItems {
		if s.deletedItems[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publishForTrashType(t models.DeletedItemType) {
	switch t {
	case models.DeletedMedia:
		s.publish(events.EventMediaUpdated, nil)
	case models.DeletedWorkflow:
		s.publish(events.EventWorkflowsUpdated, nil)
	case models.DeletedFolder:
		s.publish(events.EventCollectionsUpdated, nil)
	}
}
