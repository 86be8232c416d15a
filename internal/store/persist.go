/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"
	"time"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/models"
	"github.com/ChenM0M/Vecho/internal/telemetry"
)

// Per-field keys used by the key-value fallback. The worker store gets
// the whole document as one blob instead.
const (
	keyMediaItems   = "mediaItems"
	keyCollections  = "collections"
	keyWorkflows    = "workflows"
	keyDeletedItems = "deletedItems"
	keySettings     = "settings"
	keyUserProfile  = "userProfile"
	keyActivities   = "activities"
)

// ExportDocument snapshots the persistable cells into a versioned
// document. Jobs and UI state never persist.
func (s *Store) ExportDocument() *models.PersistedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.PersistedDocument{
		Version: models.DocumentVersion,
		SavedAt: s.now(),
		Data: models.DocumentData{
			MediaItems:   cloneSlice(s.mediaItems),
			Collections:  cloneSlice(s.collections),
			Workflows:    cloneSlice(s.workflows),
			DeletedItems: cloneSlice(s.deletedItems),
			Settings:     s.settings,
			UserProfile:  s.userProfile,
			Activities:   cloneSlice(s.activities),
		},
	}
}

// requestSave schedules a debounced flush. Calls during the debounce
// window coalesce into one save; calls while a flush is in flight queue
// exactly one follow-up save. Saves requested before bootstrap finishes
// are remembered and flushed once, right after the store becomes ready.
//
// Without the worker store there is nothing worth coalescing: the
// key-value fallback is written synchronously, before the mutator
// returns, so a crash never loses the last change.
func (s *Store) requestSave() {
	s.persistMu.Lock()

	if !s.ready {
		s.pendingBeforeReady = true
		s.persistMu.Unlock()
		return
	}

	if !s.BackendAvailable() {
		s.persistMu.Unlock()
		s.flush()
		return
	}
	defer s.persistMu.Unlock()

	switch s.persist {
	case saveIdle:
		s.persist = saveScheduled
		s.saveTimer = time.AfterFunc(s.debounce, s.onSaveTimer)
	case saveScheduled:
		// Timer already pending; the write it fires will pick up
		// this change too.
	case saveFlushing:
		s.persist = saveFlushingQueued
	case saveFlushingQueued:
	}
}

func (s *Store) onSaveTimer() {
	s.persistMu.Lock()
	if s.persist != saveScheduled {
		s.persistMu.Unlock()
		return
	}
	s.persist = saveFlushing
	s.saveTimer = nil
	s.persistMu.Unlock()

	s.flush()

	s.persistMu.Lock()
	queued := s.persist == saveFlushingQueued
	s.persist = saveIdle
	if queued {
		s.persist = saveScheduled
		s.saveTimer = time.AfterFunc(s.debounce, s.onSaveTimer)
	}
	s.persistMu.Unlock()
}

// SaveNow flushes synchronously, bypassing the debounce. Used at
// shutdown.
func (s *Store) SaveNow() {
	s.persistMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.persist = saveFlushing
	s.persistMu.Unlock()

	s.flush()

	s.persistMu.Lock()
	s.persist = saveIdle
	s.persistMu.Unlock()
}

// flush writes the current document to whichever store this process
// bootstrapped against. Persistence failures are logged and absorbed;
// the in-memory document stays authoritative either way. Flushes are
// serialized: a SaveNow issued while a timer-fired flush is in flight
// waits for it instead of racing it.
func (s *Store) flush() {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	doc := s.ExportDocument()

	if s.BackendAvailable() && s.backend != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := s.backend.SaveState(ctx, doc)
		cancel()
		if err != nil {
			telemetry.SavesTotal.WithLabelValues("worker", "error").Inc()
			s.logger.Error().Err(err).Msg("save to worker store failed")
			return
		}
		telemetry.SavesTotal.WithLabelValues("worker", "ok").Inc()
	} else {
		s.saveLocal(doc)
	}
	s.publish(events.EventDocumentSaved, doc.SavedAt)
}

// saveLocal writes the document field by field into the key-value
// fallback. kv.Store degrades instead of failing, so this cannot error.
func (s *Store) saveLocal(doc *models.PersistedDocument) {
	if s.kv == nil {
		return
	}
	s.kv.Set(keyMediaItems, doc.Data.MediaItems)
	s.kv.Set(keyCollections, doc.Data.Collections)
	s.kv.Set(keyWorkflows, doc.Data.Workflows)
	s.kv.Set(keyDeletedItems, doc.Data.DeletedItems)
	s.kv.Set(keySettings, doc.Data.Settings)
	s.kv.Set(keyUserProfile, doc.Data.UserProfile)
	s.kv.Set(keyActivities, doc.Data.Activities)
	telemetry.SavesTotal.WithLabelValues("local", "ok").Inc()
}

// loadLocal pulls whatever per-field state the key-value fallback holds.
// Reports whether anything at all was found.
func (s *Store) loadLocal() bool {
	if s.kv == nil {
		return false
	}
	found := false

	var media []models.MediaItem
	if s.kv.Get(keyMediaItems, &media) {
		found = true
	}
	var collections []models.Collection
	if s.kv.Get(keyCollections, &collections) {
		found = true
	}
	var workflows []models.Workflow
	if s.kv.Get(keyWorkflows, &workflows) {
		found = true
	}
	var deleted []models.DeletedItem
	if s.kv.Get(keyDeletedItems, &deleted) {
		found = true
	}
	settings := models.DefaultSettings()
	if s.kv.Get(keySettings, &settings) {
		found = true
	}
	profile := defaultProfile()
	if s.kv.Get(keyUserProfile, &profile) {
		found = true
	}
	var activities []models.ActivityItem
	if s.kv.Get(keyActivities, &activities) {
		found = true
	}

	if !found {
		return false
	}

	now := s.now()
	s.mu.Lock()
	s.mediaItems = media
	s.collections = NormalizeCollections(collections, now, s.newID)
	s.workflows = workflows
	s.deletedItems = deleted
	s.settings = NormalizeSettings(settings, s.newID)
	s.userProfile = profile
	s.activities = activities
	if len(s.activities) > activityLimit {
		s.activities = s.activities[:activityLimit]
	}
	s.mu.Unlock()
	return true
}

// adoptDocument replaces the persistable cells with a migrated
// document's contents, normalizing on the way in.
func (s *Store) adoptDocument(doc *models.PersistedDocument) {
	now := s.now()
	s.mu.Lock()
	s.mediaItems = doc.Data.MediaItems
	s.collections = NormalizeCollections(doc.Data.Collections, now, s.newID)
	s.workflows = doc.Data.Workflows
	s.deletedItems = doc.Data.DeletedItems
	s.settings = NormalizeSettings(doc.Data.Settings, s.newID)
	s.userProfile = doc.Data.UserProfile
	s.activities = doc.Data.Activities
	if len(s.activities) > activityLimit {
		s.activities = s.activities[:activityLimit]
	}
	s.mu.Unlock()
}
