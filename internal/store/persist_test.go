/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"
	"testing"
	"time"

	"github.com/ChenM0M/Vecho/internal/models"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDebounceCoalescesBursts(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := newTestStore(Options{Backend: backend, SaveDebounce: 20 * time.Millisecond})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		s.AddMediaItem(models.MediaItem{Name: "burst"})
	}

	waitFor(t, "debounced save", func() bool { return backend.saveCount() >= 1 })
	// Linger past another debounce window: no further saves without
	// further mutations.
	time.Sleep(60 * time.Millisecond)
	if got := backend.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}
	doc := backend.lastSave()
	if len(doc.Data.MediaItems) != 5 {
		t.Errorf("last save holds %d items, want 5", len(doc.Data.MediaItems))
	}
	if doc.Version != models.DocumentVersion {
		t.Errorf("saved version = %d", doc.Version)
	}
}

func TestSaveDuringFlightQueuesExactlyOne(t *testing.T) {
	backend := &fakeBackend{
		available:   true,
		saveStarted: make(chan struct{}),
		saveRelease: make(chan struct{}),
	}
	s := newTestStore(Options{Backend: backend, SaveDebounce: 5 * time.Millisecond})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.AddMediaItem(models.MediaItem{Name: "one"})
	<-backend.saveStarted // flush is now in flight

	// Two mutations while flushing must queue exactly one follow-up.
	s.AddMediaItem(models.MediaItem{Name: "two"})
	s.AddMediaItem(models.MediaItem{Name: "three"})
	backend.saveRelease <- struct{}{}

	<-backend.saveStarted // the queued flush
	backend.saveRelease <- struct{}{}

	waitFor(t, "second save recorded", func() bool { return backend.saveCount() == 2 })
	time.Sleep(40 * time.Millisecond)
	if got := backend.saveCount(); got != 2 {
		t.Fatalf("saves = %d, want 2", got)
	}
	if got := len(backend.lastSave().Data.MediaItems); got != 3 {
		t.Errorf("queued save holds %d items, want 3", got)
	}
}

func TestSaveNowWaitsForInFlightFlush(t *testing.T) {
	backend := &fakeBackend{
		available:   true,
		saveStarted: make(chan struct{}),
		saveRelease: make(chan struct{}),
	}
	s := newTestStore(Options{Backend: backend, SaveDebounce: 5 * time.Millisecond})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.AddMediaItem(models.MediaItem{Name: "one"})
	<-backend.saveStarted // timer flush is now in flight

	done := make(chan struct{})
	go func() {
		s.SaveNow()
		close(done)
	}()

	// SaveNow must wait the in-flight flush out, never run beside it.
	select {
	case <-backend.saveStarted:
		t.Fatal("second save started while the first was in flight")
	case <-done:
		t.Fatal("SaveNow returned while a flush was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	backend.saveRelease <- struct{}{}
	<-backend.saveStarted // SaveNow's own flush
	backend.saveRelease <- struct{}{}
	<-done

	if got := backend.saveCount(); got != 2 {
		t.Fatalf("saves = %d, want 2", got)
	}
}

func TestSaveBeforeReadyDeferred(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := newTestStore(Options{Backend: backend, SaveDebounce: 5 * time.Millisecond})
	defer s.Close()

	// Mutations before bootstrap must not hit the backend.
	s.AddMediaItem(models.MediaItem{Name: "early"})
	time.Sleep(30 * time.Millisecond)
	if backend.saveCount() != 0 {
		t.Fatal("saved before bootstrap")
	}

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "deferred save", func() bool { return backend.saveCount() == 1 })
	if got := len(backend.lastSave().Data.MediaItems); got != 1 {
		t.Errorf("deferred save holds %d items", got)
	}
}

func TestSaveNowBypassesDebounce(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := newTestStore(Options{Backend: backend, SaveDebounce: time.Hour})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.AddMediaItem(models.MediaItem{Name: "urgent"})
	s.SaveNow()
	if backend.saveCount() != 1 {
		t.Fatalf("saves = %d, want 1", backend.saveCount())
	}
}

func TestFallbackSavesSynchronously(t *testing.T) {
	kvStore := newFakeKV()
	s := newTestStore(Options{KV: kvStore, SaveDebounce: time.Hour})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Without the worker store there is no debounce window: the
	// fallback must hold the change by the time the mutator returns.
	s.AddMediaItem(models.MediaItem{Name: "immediate", Type: models.MediaAudio, Source: models.NewLocalSource("/i.m4a", 2)})
	if !kvStore.Has(keyMediaItems) {
		t.Fatal("key-value fallback not written before the mutator returned")
	}
	var media []models.MediaItem
	kvStore.Get(keyMediaItems, &media)
	if len(media) != 1 || media[0].Name != "immediate" {
		t.Fatalf("fallback holds %+v", media)
	}
}

func TestLocalSaveRoundTrip(t *testing.T) {
	kvStore := newFakeKV()
	s := newTestStore(Options{KV: kvStore, SaveDebounce: 5 * time.Millisecond})
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	item := s.AddMediaItem(models.MediaItem{Name: "kept", Type: models.MediaAudio, Source: models.NewLocalSource("/a.m4a", 10)})
	s.AddCollection("saved", "", "")
	s.SaveNow()
	s.Close()

	if !kvStore.Has(keyMediaItems) || !kvStore.Has(keySettings) {
		t.Fatalf("per-field keys missing: %v", kvStore.Keys())
	}

	// A fresh store over the same kv adopts the saved workspace
	// instead of seeding previews.
	s2 := newTestStore(Options{KV: kvStore, SeedPreviewData: true})
	defer s2.Close()
	if err := s2.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, ok := s2.MediaItem(item.ID)
	if !ok || got.Name != "kept" {
		t.Fatalf("media not restored: %+v", s2.MediaItems())
	}
	if len(s2.Collections()) != 1 {
		t.Errorf("collections not restored")
	}
}

func TestJobsNeverPersisted(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := newTestStore(Options{Backend: backend})
	defer s.Close()
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.AddProcessingJob("", "media-1", models.JobExport)
	s.AddMediaItem(models.MediaItem{Name: "m"})
	s.SaveNow()

	raw := backend.lastSave()
	if raw == nil {
		t.Fatal("no save recorded")
	}
	// The document schema has no job field at all; assert the export
	// really is job-free by round-tripping it.
	doc := s.ExportDocument()
	if len(doc.Data.MediaItems) != 1 {
		t.Errorf("export wrong: %+v", doc.Data)
	}
}
