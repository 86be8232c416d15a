/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the workspace document and worker operations over
// HTTP for the desktop shell and local tooling.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/store"
	"github.com/ChenM0M/Vecho/internal/version"
)

// API exposes HTTP handlers over the store and the worker gateway.
type API struct {
	store  *store.Store
	gw     *gateway.Gateway
	bus    *events.Bus
	logger zerolog.Logger
}

// New creates the API router wrapper.
func New(st *store.Store, gw *gateway.Gateway, bus *events.Bus, logger zerolog.Logger) *API {
	return &API{
		store:  st,
		gw:     gw,
		bus:    bus,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Routes mounts API routes on the provided router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/events", a.handleEvents)

		r.Route("/media", func(r chi.Router) {
			r.Get("/", a.handleMediaList)
			r.Post("/", a.handleMediaCreate)
			r.Get("/library", a.handleLibraryView)
			r.Route("/{mediaID}", func(r chi.Router) {
				r.Get("/", a.handleMediaGet)
				r.Patch("/", a.handleMediaUpdate)
				r.Delete("/", a.handleMediaDelete)
				r.Post("/active", a.handleMediaActivate)
				r.Post("/playback", a.handleMediaPlayback)

				r.Route("/notes", func(r chi.Router) {
					r.Post("/", a.handleNoteCreate)
					r.Patch("/{noteID}", a.handleNoteUpdate)
					r.Delete("/{noteID}", a.handleNoteDelete)
				})
				r.Route("/bookmarks", func(r chi.Router) {
					r.Post("/", a.handleBookmarkCreate)
					r.Patch("/{bookmarkID}", a.handleBookmarkUpdate)
					r.Delete("/{bookmarkID}", a.handleBookmarkDelete)
				})
				r.Route("/chats", func(r chi.Router) {
					r.Post("/", a.handleChatCreate)
					r.Patch("/{chatID}", a.handleChatRename)
					r.Delete("/{chatID}", a.handleChatDelete)
					r.Post("/{chatID}/messages", a.handleChatMessage)
				})

				// Worker-backed operations.
				r.Post("/transcribe", a.handleTranscribe)
				r.Post("/optimize", a.handleOptimizeTranscription)
				r.Post("/summarize", a.handleSummarize)
				r.Post("/export", a.handleExport)
				r.Get("/subtitles", a.handleSubtitlesGet)
				r.Post("/subtitles/ensure", a.handleSubtitlesEnsure)
				r.Post("/subtitles/translate", a.handleSubtitlesTranslate)
				r.Get("/storage", a.handleStorageInfo)
				r.Post("/storage/reveal", a.handleStorageReveal)
				r.Delete("/storage", a.handleStorageDelete)
			})
		})

		r.Post("/import/url", a.handleImportURL)
		r.Post("/import/file", a.handleImportFile)

		r.Route("/upload", func(r chi.Router) {
			r.Post("/", a.handleUploadBegin)
			r.Post("/{uploadID}/chunk", a.handleUploadChunk)
			r.Post("/{uploadID}/finish", a.handleUploadFinish)
		})
		r.Get("/storage/root", a.handleStorageRoot)

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", a.handleCollectionsList)
			r.Post("/", a.handleCollectionCreate)
			r.Post("/reorder", a.handleCollectionsReorder)
			r.Route("/{collectionID}", func(r chi.Router) {
				r.Patch("/", a.handleCollectionUpdate)
				r.Delete("/", a.handleCollectionDelete)
				r.Put("/media/{mediaID}", a.handleCollectionAddMedia)
				r.Delete("/media/{mediaID}", a.handleCollectionRemoveMedia)
			})
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Get("/", a.handleWorkflowsList)
			r.Post("/", a.handleWorkflowCreate)
			r.Patch("/{workflowID}", a.handleWorkflowUpdate)
			r.Delete("/{workflowID}", a.handleWorkflowDelete)
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", a.handleTrashList)
			r.Delete("/", a.handleTrashEmpty)
			r.Post("/{trashID}/restore", a.handleTrashRestore)
			r.Delete("/{trashID}", a.handleTrashDelete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", a.handleSettingsGet)
			r.Put("/", a.handleSettingsPut)
		})
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", a.handleProfileGet)
			r.Put("/", a.handleProfilePut)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", a.handleJobsList)
			r.Delete("/finished", a.handleJobsClearFinished)
		})
		r.Get("/activities", a.handleActivitiesList)
		r.Get("/stats", a.handleStats)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"version":         version.Version,
		"workerAvailable": a.store.BackendAvailable(),
	})
}

// handleEvents streams store change events as server-sent events until
// the client disconnects.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	types := []events.EventType{
		events.EventMediaUpdated,
		events.EventCollectionsUpdated,
		events.EventWorkflowsUpdated,
		events.EventTrashUpdated,
		events.EventSettingsUpdated,
		events.EventProfileUpdated,
		events.EventActivityAdded,
		events.EventJobsUpdated,
		events.EventDocumentLoaded,
		events.EventDocumentSaved,
	}

	type envelope struct {
		typ     events.EventType
		payload events.Payload
	}
	fanIn := make(chan envelope, 32)
	done := r.Context().Done()
	for _, t := range types {
		sub := a.bus.Subscribe(t)
		defer a.bus.Unsubscribe(t, sub)
		go func(t events.EventType, sub events.Subscriber) {
			for {
				select {
				case payload, open := <-sub:
					if !open {
						return
					}
					select {
					case fanIn <- envelope{typ: t, payload: payload}:
					case <-done:
						return
					}
				case <-done:
					return
				}
			}
		}(t, sub)
	}

	for {
		select {
		case <-done:
			return
		case evt := <-fanIn:
			data, err := json.Marshal(evt.payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.typ, data)
			flusher.Flush()
		}
	}
}

// requireWorker gates handlers that only make sense with a live worker.
func (a *API) requireWorker(w http.ResponseWriter) bool {
	if !a.store.BackendAvailable() {
		writeError(w, http.StatusServiceUnavailable, "worker_unavailable")
		return false
	}
	return true
}

// workerError maps gateway failures onto HTTP statuses.
func (a *API) workerError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "worker_unavailable")
		return
	}
	a.logger.Error().Err(err).Msg("worker command failed")
	writeError(w, http.StatusBadGateway, "worker_command_failed")
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
