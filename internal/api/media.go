/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChenM0M/Vecho/internal/models"
	"github.com/ChenM0M/Vecho/internal/store"
)

func (a *API) handleMediaList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.MediaItems())
}

// handleLibraryView returns the filtered, searched, sorted view.
func (a *API) handleLibraryView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.MediaFilter{
		Type:         models.MediaType(q.Get("type")),
		CollectionID: q.Get("collection"),
	}
	if tags, ok := q["tag"]; ok {
		filter.Tags = tags
	}
	if v := q.Get("transcribed"); v != "" {
		b := v == "true"
		filter.HasTranscription = &b
	}
	a.store.SetFilter(filter)
	a.store.SetSearchQuery(q.Get("q"))
	if by := q.Get("sort"); by != "" {
		order := store.SortAsc
		if q.Get("order") == "desc" {
			order = store.SortDesc
		}
		a.store.SetSort(store.SortBy(by), order)
	}
	writeJSON(w, http.StatusOK, a.store.FilteredMediaItems())
}

type mediaCreateRequest struct {
	Type      models.MediaType   `json:"type"`
	Name      string             `json:"name"`
	Source    models.MediaSource `json:"source"`
	Thumbnail string             `json:"thumbnail,omitempty"`
	Duration  float64            `json:"duration,omitempty"`
	Meta      models.MediaMeta   `json:"meta,omitempty"`
	Tags      []string           `json:"tags,omitempty"`
}

func (a *API) handleMediaCreate(w http.ResponseWriter, r *http.Request) {
	var req mediaCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}
	if req.Type != models.MediaVideo && req.Type != models.MediaAudio {
		writeError(w, http.StatusBadRequest, "invalid_type")
		return
	}
	item := a.store.AddMediaItem(models.MediaItem{
		Type:      req.Type,
		Name:      req.Name,
		Source:    req.Source,
		Thumbnail: req.Thumbnail,
		Duration:  req.Duration,
		Meta:      req.Meta,
		Tags:      req.Tags,
	})
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleMediaGet(w http.ResponseWriter, r *http.Request) {
	item, ok := a.store.MediaItem(chi.URLParam(r, "mediaID"))
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type mediaUpdateRequest struct {
	Name      *string  `json:"name,omitempty"`
	Thumbnail *string  `json:"thumbnail,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	FolderID  *string  `json:"folderId,omitempty"`
}

func (a *API) handleMediaUpdate(w http.ResponseWriter, r *http.Request) {
	var req mediaUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	id := chi.URLParam(r, "mediaID")
	ok := a.store.UpdateMediaItem(id, func(m *models.MediaItem) {
		if req.Name != nil {
			m.Name = *req.Name
		}
		if req.Thumbnail != nil {
			m.Thumbnail = *req.Thumbnail
		}
		if req.Tags != nil {
			m.Tags = req.Tags
		}
		if req.FolderID != nil {
			m.FolderID = *req.FolderID
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	item, _ := a.store.MediaItem(id)
	writeJSON(w, http.StatusOK, item)
}

// handleMediaDelete trashes the item; ?discard=true skips the trash.
func (a *API) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "mediaID")
	var ok bool
	if r.URL.Query().Get("discard") == "true" {
		ok = a.store.DiscardMediaItem(id)
	} else {
		ok = a.store.DeleteMediaItem(id)
	}
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMediaActivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "mediaID")
	if _, ok := a.store.MediaItem(id); !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	a.store.SetActiveMediaItem(id)
	w.WriteHeader(http.StatusNoContent)
}

type playbackRequest struct {
	Position float64 `json:"position"`
}

func (a *API) handleMediaPlayback(w http.ResponseWriter, r *http.Request) {
	var req playbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !a.store.RecordPlayback(chi.URLParam(r, "mediaID"), req.Position) {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- notes --------------------------------------------------------------

type noteRequest struct {
	Content   string   `json:"content"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

func (a *API) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	note := a.store.AddNote(chi.URLParam(r, "mediaID"), req.Content, req.Timestamp)
	if note == nil {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (a *API) handleNoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !a.store.UpdateNote(chi.URLParam(r, "mediaID"), chi.URLParam(r, "noteID"), req.Content) {
		writeError(w, http.StatusNotFound, "note_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.DeleteNote(chi.URLParam(r, "mediaID"), chi.URLParam(r, "noteID")) {
		writeError(w, http.StatusNotFound, "note_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- bookmarks ----------------------------------------------------------

type bookmarkRequest struct {
	Timestamp float64              `json:"timestamp"`
	Label     string               `json:"label"`
	Color     models.BookmarkColor `json:"color,omitempty"`
}

func (a *API) handleBookmarkCreate(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	bm := a.store.AddBookmark(chi.URLParam(r, "mediaID"), req.Timestamp, req.Label, req.Color)
	if bm == nil {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	writeJSON(w, http.StatusCreated, bm)
}

func (a *API) handleBookmarkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	ok := a.store.UpdateBookmark(chi.URLParam(r, "mediaID"), chi.URLParam(r, "bookmarkID"), func(b *models.Bookmark) {
		b.Timestamp = req.Timestamp
		b.Label = req.Label
		if req.Color != "" {
			b.Color = req.Color
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "bookmark_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleBookmarkDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.DeleteBookmark(chi.URLParam(r, "mediaID"), chi.URLParam(r, "bookmarkID")) {
		writeError(w, http.StatusNotFound, "bookmark_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- conversations ------------------------------------------------------

type chatCreateRequest struct {
	Title string `json:"title"`
}

func (a *API) handleChatCreate(w http.ResponseWriter, r *http.Request) {
	var req chatCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Title == "" {
		req.Title = "New conversation"
	}
	conv := a.store.StartConversation(chi.URLParam(r, "mediaID"), req.Title)
	if conv == nil {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (a *API) handleChatRename(w http.ResponseWriter, r *http.Request) {
	var req chatCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !a.store.RenameConversation(chi.URLParam(r, "mediaID"), chi.URLParam(r, "chatID"), req.Title) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleChatDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.DeleteConversation(chi.URLParam(r, "mediaID"), chi.URLParam(r, "chatID")) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
