/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package store holds the workspace document and every operation that
// mutates it. All reads hand out copies; all writes go through the
// mutators here, which publish change events and schedule a debounced
// save. The store never talks to the network directly: persistence and
// worker commands go through the Backend interface.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/kv"
	"github.com/ChenM0M/Vecho/internal/models"
)

const activityLimit = 100

// Backend is the slice of the worker gateway the store depends on.
type Backend interface {
	Available(ctx context.Context) bool
	LoadState(ctx context.Context) (json.RawMessage, error)
	SaveState(ctx context.Context, doc *models.PersistedDocument) error
	ListenJobProgress(handler func(gateway.JobProgressEvent)) (gateway.Unlisten, error)
}

// Options configures a Store. Zero values fall back to sane defaults so
// tests can construct stores with only the pieces they care about.
type Options struct {
	Logger          zerolog.Logger
	Backend         Backend
	KV              kv.Store
	Bus             *events.Bus
	SaveDebounce    time.Duration
	JobHistoryLimit int
	SeedPreviewData bool

	// Clock and NewID exist for deterministic tests.
	Clock func() time.Time
	NewID func(prefix string) string
}

type saveState int

const (
	saveIdle saveState = iota
	saveScheduled
	saveFlushing
	saveFlushingQueued
)

// Store is the in-memory document plus its persistence machinery.
type Store struct {
	logger  zerolog.Logger
	backend Backend
	kv      kv.Store
	bus     *events.Bus

	debounce    time.Duration
	jobLimit    int
	seedPreview bool

	now   func() time.Time
	newID func(prefix string) string

	mu            sync.Mutex
	mediaItems    []models.MediaItem
	collections   []models.Collection
	workflows     []models.Workflow
	deletedItems  []models.DeletedItem
	settings      models.AppSettings
	userProfile   models.UserProfile
	activities    []models.ActivityItem
	jobs          []models.ProcessingJob
	activeMediaID string

	viewMode    ViewMode
	sortBy      SortBy
	sortOrder   SortOrder
	filter      MediaFilter
	searchQuery string

	bootstrapOnce    sync.Once
	backendAvailable bool
	unlisten         gateway.Unlisten

	persistMu          sync.Mutex
	ready              bool
	pendingBeforeReady bool
	persist            saveState
	saveTimer          *time.Timer

	// flushMu serializes flushes; two saves must never overlap.
	flushMu sync.Mutex
}

// New builds a Store. Bootstrap must be called before the store is used.
func New(opts Options) *Store {
	s := &Store{
		logger:      opts.Logger.With().Str("component", "store").Logger(),
		backend:     opts.Backend,
		kv:          opts.KV,
		bus:         opts.Bus,
		debounce:    opts.SaveDebounce,
		jobLimit:    opts.JobHistoryLimit,
		seedPreview: opts.SeedPreviewData,
		now:         opts.Clock,
		newID:       opts.NewID,
		settings:    models.DefaultSettings(),
		userProfile: defaultProfile(),
		viewMode:    ViewGrid,
		sortBy:      SortByDate,
		sortOrder:   SortDesc,
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.debounce <= 0 {
		s.debounce = 600 * time.Millisecond
	}
	if s.jobLimit <= 0 {
		s.jobLimit = 100
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = models.NewID
	}
	return s
}

func defaultProfile() models.UserProfile {
	return models.UserProfile{
		ID:   "user-local",
		Name: "Local User",
	}
}

// Bus exposes the event bus for subscribers (HTTP SSE, tests).
func (s *Store) Bus() *events.Bus { return s.bus }

// BackendAvailable reports whether the worker process answered the
// bootstrap probe. Stable for the lifetime of the store.
func (s *Store) BackendAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendAvailable
}

// Close cancels the debounce timer and detaches the job listener. It
// does not flush; callers that want a final save run SaveNow first.
func (s *Store) Close() {
	s.persistMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.persistMu.Unlock()
	if s.unlisten != nil {
		s.unlisten()
	}
}

// publish wraps loose values into bus payloads so mutators stay
// one-liners.
func (s *Store) publish(t events.EventType, v any) {
	switch x := v.(type) {
	case nil:
		s.bus.Publish(t, nil)
	case events.Payload:
		s.bus.Publish(t, x)
	case string:
		s.bus.Publish(t, events.Payload{"id": x})
	case bool:
		s.bus.Publish(t, events.Payload{"workerAvailable": x})
	default:
		s.bus.Publish(t, events.Payload{"value": x})
	}
}

// --- snapshot accessors -------------------------------------------------

// MediaItems returns a copy of the media table.
func (s *Store) MediaItems() []models.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.mediaItems)
}

// MediaItem returns a copy of one item by id.
func (s *Store) MediaItem(id string) (models.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mediaItems {
		if s.mediaItems[i].ID == id {
			return s.mediaItems[i], true
		}
	}
	return models.MediaItem{}, false
}

// Collections returns a copy of the collection table.
func (s *Store) Collections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.collections)
}

// Workflows returns a copy of the workflow table.
func (s *Store) Workflows() []models.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.workflows)
}

// DeletedItems returns a copy of the trash.
func (s *Store) DeletedItems() []models.DeletedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.deletedItems)
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UserProfile returns a copy of the profile.
func (s *Store) UserProfile() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userProfile
}

// Activities returns a copy of the activity feed, newest first.
func (s *Store) Activities() []models.ActivityItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.activities)
}

// Jobs returns a copy of the job table, newest first.
func (s *Store) Jobs() []models.ProcessingJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.jobs)
}

// ActiveMediaItem returns the item the active pointer refers to, or nil.
func (s *Store) ActiveMediaItem() *models.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeMediaID == "" {
		return nil
	}
	for i := range s.mediaItems {
		if s.mediaItems[i].ID == s.activeMediaID {
			item := s.mediaItems[i]
			return &item
		}
	}
	return nil
}

// SetActiveMediaItem moves the active pointer. An empty id clears it.
// UI state is not persisted.
func (s *Store) SetActiveMediaItem(id string) {
	s.mu.Lock()
	s.activeMediaID = id
	s.mu.Unlock()
	s.publish(events.EventMediaUpdated, id)
}

// SetUserProfile replaces the profile.
func (s *Store) SetUserProfile(p models.UserProfile) {
	s.mu.Lock()
	s.userProfile = p
	s.mu.Unlock()
	s.publish(events.EventProfileUpdated, nil)
	s.requestSave()
}

// UpdateSettings applies mutate to a copy of the settings and adopts the
// result. The result is not re-normalized: normalization guards stored
// data, not in-process writes.
func (s *Store) UpdateSettings(mutate func(*models.AppSettings)) {
	s.mu.Lock()
	next := s.settings
	mutate(&next)
	s.settings = next
	s.mu.Unlock()
	s.publish(events.EventSettingsUpdated, nil)
	s.requestSave()
}

// SetSettings replaces the settings wholesale. External writes go
// through the same normalization as loaded documents.
func (s *Store) SetSettings(settings models.AppSettings) {
	s.mu.Lock()
	s.settings = NormalizeSettings(settings, s.newID)
	s.mu.Unlock()
	s.publish(events.EventSettingsUpdated, nil)
	s.requestSave()
}

// AddActivity prepends an entry to the activity feed, bounded to the
// most recent 100.
func (s *Store) AddActivity(activityType models.ActivityType, title, desc string) models.ActivityItem {
	s.mu.Lock()
	item := models.ActivityItem{
		ID:    s.newID("act"),
		Type:  activityType,
		Title: title,
		Desc:  desc,
		Time:  s.now(),
	}
	s.prependActivityLocked(item)
	s.mu.Unlock()
	s.publish(events.EventActivityAdded, item)
	s.requestSave()
	return item
}

func (s *Store) prependActivityLocked(item models.ActivityItem) {
	s.activities = append([]models.ActivityItem{item}, s.activities...)
	if len(s.activities) > activityLimit {
		s.activities = s.activities[:activityLimit]
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
