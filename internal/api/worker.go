/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/models"
)

// Handlers in this file proxy worker commands and fold the results back
// into the document store.

type importURLRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
}

func (a *API) handleImportURL(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	var req importURLRequest
	if err := decodeJSON(r, &req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url_required")
		return
	}

	res, err := a.gw.ImportURL(r.Context(), req.URL, "", req.Quality)
	if err != nil {
		a.workerError(w, err)
		return
	}

	name := res.Title
	if name == "" {
		name = req.URL
	}
	source := models.NewOnlineSource(models.PlatformOther, req.URL)
	source.Online.OriginalTitle = res.Title
	source.Online.Uploader = res.Uploader
	source.Online.UploadDate = res.UploadDate
	if res.StoredPath != "" {
		source.Online.CachedPath = res.StoredPath
		source.Online.FileSize = res.FileSize
	}
	item := models.MediaItem{
		Type:      models.MediaVideo,
		Name:      name,
		Source:    source,
		Thumbnail: res.Thumbnail,
		Duration:  res.Duration,
	}
	if res.Meta != nil {
		item.Meta = *res.Meta
	}
	added := a.store.AddMediaItem(item)
	if res.JobID != "" {
		a.store.AddProcessingJob(res.JobID, added.ID, models.JobDownload)
	}
	writeJSON(w, http.StatusCreated, added)
}

func (a *API) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	id := chi.URLParam(r, "mediaID")
	if _, ok := a.store.MediaItem(id); !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}

	res, err := a.gw.TranscribeMedia(r.Context(), id, a.store.Settings().Transcription)
	if err != nil {
		a.workerError(w, err)
		return
	}
	a.store.SetTranscription(id, res.Transcription)
	item, _ := a.store.MediaItem(id)
	writeJSON(w, http.StatusOK, item.Transcription)
}

type optimizeRequest struct {
	Glossary string `json:"glossary,omitempty"`
}

func (a *API) handleOptimizeTranscription(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	id := chi.URLParam(r, "mediaID")
	item, ok := a.store.MediaItem(id)
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	if item.Transcription == nil {
		writeError(w, http.StatusConflict, "no_transcription")
		return
	}
	var req optimizeRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}
	}

	res, err := a.gw.OptimizeTranscription(r.Context(), id, a.store.Settings().AI, req.Glossary)
	if err != nil {
		a.workerError(w, err)
		return
	}
	a.store.SetTranscription(id, res.Transcription)
	writeJSON(w, http.StatusOK, res.Transcription)
}

type summarizeRequest struct {
	PromptID string `json:"promptId,omitempty"`
}

func (a *API) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	id := chi.URLParam(r, "mediaID")
	if _, ok := a.store.MediaItem(id); !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	var req summarizeRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}
	}

	ai := a.store.Settings().AI
	promptID := req.PromptID
	if promptID == "" {
		promptID = ai.DefaultSummaryPromptID
	}
	var template string
	for _, p := range ai.SummaryPrompts {
		if p.ID == promptID {
			template = p.Template
			break
		}
	}

	res, err := a.gw.SummarizeMedia(r.Context(), id, ai, gateway.SummarizeMediaOptions{
		PromptID:       promptID,
		PromptTemplate: template,
	})
	if err != nil {
		a.workerError(w, err)
		return
	}
	a.store.SetAISummary(id, res.Summary)
	writeJSON(w, http.StatusOK, res.Summary)
}

type chatMessageRequest struct {
	Content              string `json:"content"`
	IncludeTranscription bool   `json:"includeTranscription"`
	IncludeSummary       bool   `json:"includeSummary"`
}

// handleChatMessage appends the user's turn, asks the worker for the
// assistant's reply, and stores both in the conversation thread.
func (a *API) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	mediaID := chi.URLParam(r, "mediaID")
	chatID := chi.URLParam(r, "chatID")
	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content_required")
		return
	}

	item, ok := a.store.MediaItem(mediaID)
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	history := chatHistory(item, chatID)
	if history == nil {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}

	userMsg := a.store.AppendChatMessage(mediaID, chatID, models.RoleUser, req.Content, nil)
	if userMsg == nil {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}

	turns := make([]gateway.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, gateway.ChatMessage{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, gateway.ChatMessage{Role: models.RoleUser, Content: req.Content})

	res, err := a.gw.ChatMedia(r.Context(), mediaID, a.store.Settings().AI, turns, gateway.ChatMediaOptions{
		IncludeTranscription: req.IncludeTranscription,
		IncludeSummary:       req.IncludeSummary,
		UserLang:             a.store.Settings().Appearance.Language,
	})
	if err != nil {
		a.workerError(w, err)
		return
	}
	reply := a.store.AppendChatMessage(mediaID, chatID, models.RoleAssistant, res.Message.Content, res.Message.ReferencedSegments)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":      userMsg,
		"assistant": reply,
	})
}

type exportRequest struct {
	ExportDir string `json:"exportDir,omitempty"`
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	id := chi.URLParam(r, "mediaID")
	item, ok := a.store.MediaItem(id)
	if !ok {
		writeError(w, http.StatusNotFound, "media_not_found")
		return
	}
	var req exportRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}
	}

	res, err := a.gw.ExportMedia(r.Context(), id, req.ExportDir)
	if err != nil {
		a.workerError(w, err)
		return
	}
	if res.JobID != "" {
		a.store.AddProcessingJob(res.JobID, id, models.JobExport)
	}
	a.store.AddActivity(models.ActivityExport, "Export started", item.Name)
	writeJSON(w, http.StatusAccepted, res)
}

// --- subtitles ----------------------------------------------------------

func (a *API) handleSubtitlesGet(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	subs, err := a.gw.LoadSubtitles(r.Context(), chi.URLParam(r, "mediaID"))
	if err != nil {
		a.workerError(w, err)
		return
	}
	if subs == nil {
		writeError(w, http.StatusNotFound, "subtitles_not_found")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (a *API) handleSubtitlesEnsure(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	subs, err := a.gw.EnsureSubtitles(r.Context(), chi.URLParam(r, "mediaID"))
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

type translateSubtitlesRequest struct {
	TargetLang string `json:"targetLang"`
}

func (a *API) handleSubtitlesTranslate(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	var req translateSubtitlesRequest
	if err := decodeJSON(r, &req); err != nil || req.TargetLang == "" {
		writeError(w, http.StatusBadRequest, "target_lang_required")
		return
	}
	subs, err := a.gw.TranslateSubtitles(r.Context(), chi.URLParam(r, "mediaID"), a.store.Settings().AI, req.TargetLang)
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// --- storage ------------------------------------------------------------

func (a *API) handleStorageInfo(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	info, err := a.gw.MediaStorageInfo(r.Context(), chi.URLParam(r, "mediaID"))
	if err != nil {
		a.workerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *API) handleStorageReveal(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	if err := a.gw.RevealMediaDir(r.Context(), chi.URLParam(r, "mediaID")); err != nil {
		a.workerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleStorageDelete(w http.ResponseWriter, r *http.Request) {
	if !a.requireWorker(w) {
		return
	}
	if err := a.gw.DeleteMediaStorage(r.Context(), chi.URLParam(r, "mediaID")); err != nil {
		a.workerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func chatHistory(item models.MediaItem, chatID string) []models.AIMessage {
	for _, c := range item.AIChats {
		if c.ID == chatID {
			if c.Messages == nil {
				return []models.AIMessage{}
			}
			return c.Messages
		}
	}
	return nil
}
