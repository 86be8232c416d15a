/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/models"
)

func TestBootstrapAdoptsWorkerDocument(t *testing.T) {
	backend := &fakeBackend{
		available: true,
		stored: json.RawMessage(`{
			"version": 1,
			"savedAt": "2026-01-01T00:00:00Z",
			"data": {
				"mediaItems": [{"id": "media-w", "type": "video", "name": "from-worker.mp4"}],
				"collections": [],
				"workflows": [],
				"deletedItems": [],
				"settings": {},
				"userProfile": {"id": "u1", "name": "Remote", "email": ""},
				"activities": []
			}
		}`),
	}
	s := newTestStore(Options{Backend: backend, SeedPreviewData: true})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !s.BackendAvailable() {
		t.Fatal("backend should be available")
	}
	if _, ok := s.MediaItem("media-w"); !ok {
		t.Fatalf("worker document not adopted: %+v", s.MediaItems())
	}
	// Adopted settings pass through the normalizer.
	if s.Settings().Transcription.Engine != models.EngineSherpaOnnx {
		t.Errorf("settings not normalized: %+v", s.Settings().Transcription)
	}
	// Preview seeding must not run when a document was adopted.
	if len(s.MediaItems()) != 1 {
		t.Errorf("preview data seeded on top of adopted document")
	}

	// The job listener is attached in worker mode.
	if backend.handler == nil {
		t.Fatal("job progress listener not attached")
	}
	backend.handler(gateway.JobProgressEvent{JobID: "job-1", Status: "running", Progress: 0.5})
	if len(s.Jobs()) != 1 {
		t.Error("job event not reconciled")
	}
}

func TestBootstrapMigratesLegacyLocalData(t *testing.T) {
	kvStore := newFakeKV()
	kvStore.Set(keyMediaItems, []models.MediaItem{{ID: "media-old", Type: models.MediaAudio, Name: "legacy.m4a"}})

	backend := &fakeBackend{available: true} // worker reachable, no document yet
	s := newTestStore(Options{Backend: backend, KV: kvStore})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.MediaItem("media-old"); !ok {
		t.Fatal("legacy local data not adopted")
	}
	// The migration is pushed to the worker store right away.
	if backend.saveCount() != 1 {
		t.Fatalf("migration saves = %d, want 1", backend.saveCount())
	}
	if got := backend.lastSave().Data.MediaItems; len(got) != 1 || got[0].ID != "media-old" {
		t.Errorf("migrated document wrong: %+v", got)
	}
}

func TestBootstrapSeedsPreviewWorkspace(t *testing.T) {
	s := newTestStore(Options{KV: newFakeKV(), SeedPreviewData: true})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	if s.BackendAvailable() {
		t.Fatal("no backend configured")
	}
	if len(s.MediaItems()) == 0 || len(s.Collections()) == 0 || len(s.Workflows()) == 0 {
		t.Fatal("preview workspace not seeded")
	}
	// Deterministic fixture ids.
	if _, ok := s.MediaItem("media-1"); !ok {
		t.Error("fixture ids not stable")
	}
}

func TestBootstrapEmptyWithoutSeeding(t *testing.T) {
	s := newTestStore(Options{KV: newFakeKV(), SeedPreviewData: false})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(s.MediaItems()) != 0 {
		t.Error("workspace should start empty")
	}
	if s.Settings().Appearance.Theme != "light" {
		t.Error("factory settings missing")
	}
}

func TestBootstrapRunsOnce(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := newTestStore(Options{Backend: backend})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.AddMediaItem(models.MediaItem{Name: "kept"})

	// A second bootstrap must not reload and wipe the mutation.
	backend.stored = json.RawMessage(`{"version": 1, "data": {}}`)
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(s.MediaItems()) != 1 {
		t.Error("re-bootstrap replaced live state")
	}
}
