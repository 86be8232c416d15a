/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChenM0M/Vecho/internal/models"
)

// --- collections --------------------------------------------------------

func (a *API) handleCollectionsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Collections())
}

type collectionRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (a *API) handleCollectionCreate(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}
	writeJSON(w, http.StatusCreated, a.store.AddCollection(req.Name, req.Color, req.Icon))
}

func (a *API) handleCollectionUpdate(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	ok := a.store.UpdateCollection(chi.URLParam(r, "collectionID"), func(c *models.Collection) {
		if req.Name != "" {
			c.Name = req.Name
		}
		if req.Color != "" {
			c.Color = req.Color
		}
		if req.Icon != "" {
			c.Icon = req.Icon
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "collection_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCollectionDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.DeleteCollection(chi.URLParam(r, "collectionID")) {
		writeError(w, http.StatusNotFound, "collection_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (a *API) handleCollectionsReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := a.store.ReorderCollections(req.From, req.To); err != nil {
		writeError(w, http.StatusBadRequest, "reorder_out_of_range")
		return
	}
	writeJSON(w, http.StatusOK, a.store.Collections())
}

func (a *API) handleCollectionAddMedia(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")
	if _, ok := a.store.MediaItem(mediaID); !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	if !a.store.AddMediaToCollection(chi.URLParam(r, "collectionID"), mediaID) {
		writeError(w, http.StatusNotFound, "collection_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCollectionRemoveMedia(w http.ResponseWriter, r *http.Request) {
	a.store.RemoveMediaFromCollection(chi.URLParam(r, "collectionID"), chi.URLParam(r, "mediaID"))
	w.WriteHeader(http.StatusNoContent)
}

// --- workflows ----------------------------------------------------------

func (a *API) handleWorkflowsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Workflows())
}

type workflowRequest struct {
	Name        string                      `json:"name"`
	Desc        string                      `json:"desc,omitempty"`
	Status      models.WorkflowStatus       `json:"status,omitempty"`
	Nodes       []models.WorkflowNode       `json:"nodes,omitempty"`
	Connections []models.WorkflowConnection `json:"connections,omitempty"`
}

func (a *API) handleWorkflowCreate(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}
	wf := a.store.AddWorkflow(models.Workflow{
		Name:        req.Name,
		Desc:        req.Desc,
		Status:      req.Status,
		Nodes:       req.Nodes,
		Connections: req.Connections,
	})
	writeJSON(w, http.StatusCreated, wf)
}

func (a *API) handleWorkflowUpdate(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	ok := a.store.UpdateWorkflow(chi.URLParam(r, "workflowID"), func(wf *models.Workflow) {
		if req.Name != "" {
			wf.Name = req.Name
		}
		if req.Desc != "" {
			wf.Desc = req.Desc
		}
		if req.Status != "" {
			wf.Status = req.Status
		}
		if req.Nodes != nil {
			wf.Nodes = req.Nodes
		}
		if req.Connections != nil {
			wf.Connections = req.Connections
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "workflow_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleWorkflowDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.DeleteWorkflow(chi.URLParam(r, "workflowID")) {
		writeError(w, http.StatusNotFound, "workflow_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- trash --------------------------------------------------------------

func (a *API) handleTrashList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.DeletedItems())
}

func (a *API) handleTrashRestore(w http.ResponseWriter, r *http.Request) {
	if !a.store.RestoreFromTrash(chi.URLParam(r, "trashID")) {
		writeError(w, http.StatusNotFound, "trash_entry_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTrashDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.PermanentlyDelete(chi.URLParam(r, "trashID")) {
		writeError(w, http.StatusNotFound, "trash_entry_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTrashEmpty(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"removed": a.store.EmptyTrash()})
}

// --- settings and profile ----------------------------------------------

func (a *API) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Settings())
}

func (a *API) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var settings models.AppSettings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	a.store.SetSettings(settings)
	writeJSON(w, http.StatusOK, a.store.Settings())
}

func (a *API) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.UserProfile())
}

func (a *API) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	a.store.SetUserProfile(profile)
	writeJSON(w, http.StatusOK, a.store.UserProfile())
}

// --- jobs, activities, stats --------------------------------------------

func (a *API) handleJobsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Jobs())
}

func (a *API) handleJobsClearFinished(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"removed": a.store.ClearFinishedJobs()})
}

func (a *API) handleActivitiesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Activities())
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Stats())
}
