/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/models"
)

// AddWorkflow adopts a workflow definition. Identity and timestamps are
// assigned here; node and connection ids inside the definition are the
// caller's business.
func (s *Store) AddWorkflow(w models.Workflow) models.Workflow {
	now := s.now()
	w.ID = s.newID("wf")
	w.CreatedAt = now
	w.Modified = now
	if w.Status == "" {
		w.Status = models.WorkflowDraft
	}

	s.mu.Lock()
	s.workflows = append(s.workflows, w)
	s.mu.Unlock()

	s.publish(events.EventWorkflowsUpdated, nil)
	s.requestSave()
	return w
}

// UpdateWorkflow applies mutate to the named workflow and touches
// UpdatedAt.
func (s *Store) UpdateWorkflow(id string, mutate func(*models.Workflow)) bool {
	s.mu.Lock()
	idx := s.workflowIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	w := s.workflows[idx]
	mutate(&w)
	w.ID = id
	w.Modified = s.now()
	s.workflows[idx] = w
	s.mu.Unlock()

	s.publish(events.EventWorkflowsUpdated, nil)
	s.requestSave()
	return true
}

// DeleteWorkflow moves a workflow to the trash.
func (s *Store) DeleteWorkflow(id string) bool {
	s.mu.Lock()
	idx := s.workflowIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	w := s.workflows[idx]
	s.deletedItems = append(s.deletedItems, models.DeletedItem{
		ID:         s.newID("trash"),
		OriginalID: w.ID,
		Type:       models.DeletedWorkflow,
		Name:       w.Name,
		DeletedAt:  s.now(),
		Data:       models.DeletedPayload{Workflow: &w},
	})
	s.workflows = append(s.workflows[:idx], s.workflows[idx+1:]...)
	s.mu.Unlock()

	s.publish(events.EventWorkflowsUpdated, nil)
	s.publish(events.EventTrashUpdated, nil)
	s.requestSave()
	return true
}

func (s *Store) workflowIndexLocked(id string) int {
	for i := range s.workflows {
		if s.workflows[i].ID == id {
			return i
		}
	}
	return -1
}
