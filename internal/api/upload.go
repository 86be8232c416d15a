/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/ChenM0M/Vecho/internal/models"
)

// Local-file ingestion. Large files stream to the worker in chunks
// through an upload session; files already on disk are staged into the
// managed data root in one call.

type uploadBeginRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime,omitempty"`
}

func (a *API) handleUploadBegin(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	var req uploadBeginRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Size <= 0 {
		writeError(w, http.StatusBadRequest, "name_and_size_required")
		return
	}

	res, err := a.gw.UploadBegin(r.Context(), "", req.Name, req.Size, req.Mime)
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type uploadChunkRequest struct {
	Offset int64  `json:"offset"`
	Data   []byte `json:"data"`
}

func (a *API) handleUploadChunk(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	uploadID := chi.URLParam(r, "uploadID")
	var req uploadChunkRequest
	if err := decodeJSON(r, &req); err != nil || len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "chunk_required")
		return
	}

	res, err := a.gw.UploadChunk(r.Context(), uploadID, req.Offset, req.Data)
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type uploadFinishRequest struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Size int64  `json:"size,omitempty"`
}

func (a *API) handleUploadFinish(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	uploadID := chi.URLParam(r, "uploadID")
	var req uploadFinishRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}
	}

	res, err := a.gw.UploadFinish(r.Context(), uploadID)
	if err != nil {
		a.workerError(w, err)
		return
	}

	name := req.Name
	if name == "" {
		name = filepath.Base(res.StoredPath)
	}
	item := models.MediaItem{
		Type:      mediaTypeOrVideo(req.Type),
		Name:      name,
		Source:    models.NewLocalSource(res.StoredPath, req.Size),
		Thumbnail: res.Thumbnail,
		Duration:  res.Duration,
	}
	if res.Meta != nil {
		item.Meta = *res.Meta
	}
	added := a.store.AddMediaItem(item)
	writeJSON(w, http.StatusCreated, added)
}

type importFileRequest struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

func (a *API) handleImportFile(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	var req importFileRequest
	if err := decodeJSON(r, &req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "path_required")
		return
	}

	name := req.Name
	if name == "" {
		name = filepath.Base(req.Path)
	}
	added := a.store.AddMediaItem(models.MediaItem{
		Type:   mediaTypeOrVideo(req.Type),
		Name:   name,
		Source: models.NewLocalSource(req.Path, 0),
		Status: models.MediaStatusImporting,
	})

	res, err := a.gw.StageExternalFile(r.Context(), added.ID, req.Path)
	if err != nil {
		// Staging failed, so the item never got managed files.
		a.store.DiscardMediaItem(added.ID)
		a.workerError(w, err)
		return
	}
	a.store.UpdateMediaItem(added.ID, func(m *models.MediaItem) {
		m.Source = models.NewLocalSource(res.StoredPath, res.FileSize)
		m.Status = models.MediaStatusReady
	})
	item, _ := a.store.MediaItem(added.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleStorageRoot(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	root, err := a.gw.DataRoot(r.Context())
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": root})
}

func mediaTypeOrVideo(t string) models.MediaType {
	if models.MediaType(t) == models.MediaAudio {
		return models.MediaAudio
	}
	return models.MediaVideo
}
