/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/telemetry"
)

// Bootstrap loads the document and attaches the job listener. Safe to
// call more than once: only the first call does anything. The store
// accepts mutations before Bootstrap completes; saves requested in that
// window are deferred and flushed once, right after it.
func (s *Store) Bootstrap(ctx context.Context) error {
	var err error
	s.bootstrapOnce.Do(func() { err = s.bootstrap(ctx) })
	return err
}

func (s *Store) bootstrap(ctx context.Context) error {
	available := s.backend != nil && s.backend.Available(ctx)
	s.mu.Lock()
	s.backendAvailable = available
	s.mu.Unlock()

	if available {
		s.bootstrapFromWorker(ctx)
	} else {
		s.bootstrapLocal()
	}

	// Open the gate, then run the one deferred flush if any mutation
	// raced bootstrap.
	s.persistMu.Lock()
	s.ready = true
	deferred := s.pendingBeforeReady
	s.pendingBeforeReady = false
	s.persistMu.Unlock()
	if deferred {
		s.requestSave()
	}

	s.publish(events.EventDocumentLoaded, available)
	return nil
}

// bootstrapFromWorker loads from the worker store, falling back to a
// one-time adoption of legacy local data when the worker has no
// document yet.
func (s *Store) bootstrapFromWorker(ctx context.Context) {
	raw, err := s.backend.LoadState(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load from worker store failed, starting empty")
	}

	switch {
	case raw != nil:
		doc, merr := MigrateDocument(raw, s.now())
		if merr != nil {
			s.logger.Error().Err(merr).Msg("persisted document unusable, starting empty")
		} else {
			s.adoptDocument(doc)
			telemetry.DocumentLoadsTotal.WithLabelValues("worker").Inc()
		}
	case err == nil:
		// No document yet. Adopt whatever an earlier workerless run
		// left in the local fallback, and hand it to the worker store
		// so the next load finds it there.
		if s.loadLocal() {
			telemetry.DocumentLoadsTotal.WithLabelValues("migrated").Inc()
			s.logger.Info().Msg("migrated legacy local data to worker store")
			if serr := s.backend.SaveState(ctx, s.ExportDocument()); serr != nil {
				s.logger.Error().Err(serr).Msg("initial save of migrated data failed")
			}
		} else {
			telemetry.DocumentLoadsTotal.WithLabelValues("empty").Inc()
		}
	}

	unlisten, lerr := s.backend.ListenJobProgress(s.ApplyJobProgress)
	if lerr != nil {
		s.logger.Error().Err(lerr).Msg("job progress subscription failed")
	} else {
		s.unlisten = unlisten
	}
}

// bootstrapLocal runs the workerless path: load the key-value fallback,
// or seed preview data into a completely empty workspace.
func (s *Store) bootstrapLocal() {
	if s.loadLocal() {
		telemetry.DocumentLoadsTotal.WithLabelValues("local").Inc()
		return
	}
	telemetry.DocumentLoadsTotal.WithLabelValues("empty").Inc()
	if s.seedPreview {
		s.seedPreviewData()
		s.logger.Info().Msg("seeded preview workspace")
	}
}
