/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package gateway

import (
	"context"
	"encoding/json"

	"github.com/ChenM0M/Vecho/internal/models"
)

// The typed operations below are thin wrappers that all funnel through
// Invoke, mirroring the worker's command surface one to one.

// ImportURLResult is the worker's reply to import_url.
type ImportURLResult struct {
	MediaID    string           `json:"media_id"`
	JobID      string           `json:"job_id"`
	StoredPath string           `json:"stored_path,omitempty"`
	StoredRel  string           `json:"stored_rel,omitempty"`
	FileSize   int64            `json:"file_size,omitempty"`
	Duration   float64          `json:"duration,omitempty"`
	Meta       *models.MediaMeta `json:"meta,omitempty"`
	Thumbnail  string           `json:"thumbnail,omitempty"`
	Title      string           `json:"title,omitempty"`
	Uploader   string           `json:"uploader,omitempty"`
	UploadDate string           `json:"upload_date,omitempty"`
	Warning    string           `json:"warning,omitempty"`
}

// MediaStorageInfoResult describes a media item's managed directory.
type MediaStorageInfoResult struct {
	MediaID  string   `json:"media_id"`
	DataRoot string   `json:"data_root"`
	MediaDir string   `json:"media_dir"`
	Files    []string `json:"files"`
}

// StageExternalFileResult is the worker's reply to stage_external_file.
type StageExternalFileResult struct {
	MediaID    string `json:"media_id"`
	StoredPath string `json:"stored_path"`
	StoredRel  string `json:"stored_rel,omitempty"`
	FileSize   int64  `json:"file_size,omitempty"`
}

// UploadBeginResult opens a chunked upload session.
type UploadBeginResult struct {
	UploadID string `json:"upload_id"`
	MediaID  string `json:"media_id"`
	JobID    string `json:"job_id"`
}

// UploadChunkResult acknowledges received bytes.
type UploadChunkResult struct {
	Received int64 `json:"received"`
}

// UploadFinishResult closes an upload session with detected metadata.
type UploadFinishResult struct {
	MediaID    string           `json:"media_id"`
	StoredPath string           `json:"stored_path"`
	StoredRel  string           `json:"stored_rel,omitempty"`
	Duration   float64          `json:"duration,omitempty"`
	Meta       *models.MediaMeta `json:"meta,omitempty"`
	Thumbnail  string           `json:"thumbnail,omitempty"`
	Warning    string           `json:"warning,omitempty"`
}

// TranscribeMediaResult carries the finished transcription.
type TranscribeMediaResult struct {
	MediaID       string               `json:"media_id"`
	JobID         string               `json:"job_id"`
	Transcription models.Transcription `json:"transcription"`
}

// SummarizeMediaResult carries the finished summary.
type SummarizeMediaResult struct {
	MediaID string           `json:"media_id"`
	JobID   string           `json:"job_id"`
	Summary models.AISummary `json:"summary"`
}

// ChatMediaResult carries the assistant's reply message.
type ChatMediaResult struct {
	Message models.AIMessage `json:"message"`
}

// ExportMediaResult lists the files written by export_media.
type ExportMediaResult struct {
	MediaID   string   `json:"media_id"`
	JobID     string   `json:"job_id"`
	ExportDir string   `json:"export_dir"`
	Files     []string `json:"files"`
}

// SubtitleSegment is one timed span of subtitle text.
type SubtitleSegment struct {
	ID    string  `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SubtitleTrack is one language track of a subtitles file.
type SubtitleTrack struct {
	ID          string            `json:"id"`
	Label       string            `json:"label,omitempty"`
	Language    string            `json:"language,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	GeneratedAt string            `json:"generatedAt,omitempty"`
	Segments    []SubtitleSegment `json:"segments"`
}

// SubtitlesFile is the worker's subtitle document for a media item.
type SubtitlesFile struct {
	Version     int             `json:"version"`
	MediaID     string          `json:"mediaId"`
	GeneratedAt string          `json:"generatedAt,omitempty"`
	Tracks      []SubtitleTrack `json:"tracks"`
}

// JobProgressEvent is the payload of the job_progress event stream.
// Progress arrives as a 0.0-1.0 fraction; the store's reconciler
// converts it to an integer percentage.
type JobProgressEvent struct {
	JobID    string  `json:"job_id"`
	MediaID  string  `json:"media_id"`
	JobType  string  `json:"job_type"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message,omitempty"`
}

// LoadState fetches the persisted document from the worker store. The
// raw payload is returned so the caller can run the migration chain
// before binding it to typed models. A nil result means no document
// has been saved yet.
func (g *Gateway) LoadState(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := g.Invoke(ctx, "load_state", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}

// SaveState persists the document through the worker store.
func (g *Gateway) SaveState(ctx context.Context, doc *models.PersistedDocument) error {
	return g.Invoke(ctx, "save_state", map[string]any{"state": doc}, nil)
}

// ImportURL asks the worker to download and ingest an online media URL.
func (g *Gateway) ImportURL(ctx context.Context, url, mediaID, quality string) (*ImportURLResult, error) {
	var out ImportURLResult
	args := map[string]any{"url": url}
	if mediaID != "" {
		args["mediaId"] = mediaID
	}
	if quality != "" {
		args["quality"] = quality
	}
	if err := g.Invoke(ctx, "import_url", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadBegin opens a chunked upload session for a local file.
func (g *Gateway) UploadBegin(ctx context.Context, mediaID, name string, size int64, mime string) (*UploadBeginResult, error) {
	var out UploadBeginResult
	args := map[string]any{"name": name, "size": size}
	if mediaID != "" {
		args["mediaId"] = mediaID
	}
	if mime != "" {
		args["mime"] = mime
	}
	if err := g.Invoke(ctx, "upload_begin", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadChunk submits bytes at an absolute offset of the upload.
func (g *Gateway) UploadChunk(ctx context.Context, uploadID string, offset int64, chunk []byte) (*UploadChunkResult, error) {
	var out UploadChunkResult
	err := g.Invoke(ctx, "upload_chunk", map[string]any{
		"uploadId": uploadID,
		"offset":   offset,
		"bytes":    chunk,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFinish closes an upload session.
func (g *Gateway) UploadFinish(ctx context.Context, uploadID string) (*UploadFinishResult, error) {
	var out UploadFinishResult
	if err := g.Invoke(ctx, "upload_finish", map[string]any{"uploadId": uploadID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranscribeMedia runs transcription with the given engine config.
func (g *Gateway) TranscribeMedia(ctx context.Context, mediaID string, cfg models.TranscriptionSettings) (*TranscribeMediaResult, error) {
	var out TranscribeMediaResult
	err := g.Invoke(ctx, "transcribe_media", map[string]any{
		"mediaId": mediaID,
		"config":  cfg,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// OptimizeTranscription reworks an existing transcription with the LLM.
func (g *Gateway) OptimizeTranscription(ctx context.Context, mediaID string, ai models.AISettings, glossary string) (*TranscribeMediaResult, error) {
	var out TranscribeMediaResult
	args := map[string]any{"mediaId": mediaID, "ai": ai}
	if glossary != "" {
		args["glossary"] = glossary
	}
	if err := g.Invoke(ctx, "optimize_transcription", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SummarizeMediaOptions selects the prompt for summarize_media.
type SummarizeMediaOptions struct {
	PromptID       string
	PromptTemplate string
}

// SummarizeMedia generates an AI summary.
func (g *Gateway) SummarizeMedia(ctx context.Context, mediaID string, ai models.AISettings, opts SummarizeMediaOptions) (*SummarizeMediaResult, error) {
	var out SummarizeMediaResult
	args := map[string]any{"mediaId": mediaID, "ai": ai}
	if opts.PromptID != "" {
		args["promptId"] = opts.PromptID
	}
	if opts.PromptTemplate != "" {
		args["promptTemplate"] = opts.PromptTemplate
	}
	if err := g.Invoke(ctx, "summarize_media", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatMessage is one prior turn passed to chat_media.
type ChatMessage struct {
	Role    models.MessageRole `json:"role"`
	Content string             `json:"content"`
}

// ChatMediaOptions controls the context given to the model.
type ChatMediaOptions struct {
	IncludeTranscription bool
	IncludeSummary       bool
	UserLang             string
}

// ChatMedia runs one chat turn grounded in a media item.
func (g *Gateway) ChatMedia(ctx context.Context, mediaID string, ai models.AISettings, messages []ChatMessage, opts ChatMediaOptions) (*ChatMediaResult, error) {
	var out ChatMediaResult
	args := map[string]any{
		"mediaId":              mediaID,
		"ai":                   ai,
		"messages":             messages,
		"includeTranscription": opts.IncludeTranscription,
		"includeSummary":       opts.IncludeSummary,
	}
	if opts.UserLang != "" {
		args["userLang"] = opts.UserLang
	}
	if err := g.Invoke(ctx, "chat_media", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportMedia writes a media item and its content to an export dir.
func (g *Gateway) ExportMedia(ctx context.Context, mediaID, exportDir string) (*ExportMediaResult, error) {
	var out ExportMediaResult
	args := map[string]any{"mediaId": mediaID}
	if exportDir != "" {
		args["exportDir"] = exportDir
	}
	if err := g.Invoke(ctx, "export_media", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadSubtitles fetches existing subtitles, nil when none exist.
func (g *Gateway) LoadSubtitles(ctx context.Context, mediaID string) (*SubtitlesFile, error) {
	var raw json.RawMessage
	if err := g.Invoke(ctx, "load_subtitles", map[string]any{"mediaId": mediaID}, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out SubtitlesFile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureSubtitles fetches subtitles, generating them if missing.
func (g *Gateway) EnsureSubtitles(ctx context.Context, mediaID string) (*SubtitlesFile, error) {
	var out SubtitlesFile
	if err := g.Invoke(ctx, "ensure_subtitles", map[string]any{"mediaId": mediaID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranslateSubtitles adds a translated track.
func (g *Gateway) TranslateSubtitles(ctx context.Context, mediaID string, ai models.AISettings, targetLang string) (*SubtitlesFile, error) {
	var out SubtitlesFile
	err := g.Invoke(ctx, "translate_subtitles", map[string]any{
		"mediaId":    mediaID,
		"ai":         ai,
		"targetLang": targetLang,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MediaStorageInfo describes where a media item's files live.
func (g *Gateway) MediaStorageInfo(ctx context.Context, mediaID string) (*MediaStorageInfoResult, error) {
	var out MediaStorageInfoResult
	if err := g.Invoke(ctx, "get_media_storage_info", map[string]any{"mediaId": mediaID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevealMediaDir opens the item's directory in the OS file manager.
func (g *Gateway) RevealMediaDir(ctx context.Context, mediaID string) error {
	return g.Invoke(ctx, "reveal_media_dir", map[string]any{"mediaId": mediaID}, nil)
}

// DeleteMediaStorage removes the item's managed files.
func (g *Gateway) DeleteMediaStorage(ctx context.Context, mediaID string) error {
	return g.Invoke(ctx, "delete_media_storage", map[string]any{"mediaId": mediaID}, nil)
}

// StageExternalFile copies an external path into the managed data root.
func (g *Gateway) StageExternalFile(ctx context.Context, mediaID, absPath string) (*StageExternalFileResult, error) {
	var out StageExternalFileResult
	err := g.Invoke(ctx, "stage_external_file", map[string]any{
		"mediaId": mediaID,
		"absPath": absPath,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DataRoot returns the worker's managed data root, memoized after the
// first successful call.
func (g *Gateway) DataRoot(ctx context.Context) (string, error) {
	g.dataRootOnce.Do(func() {
		g.dataRootErr = g.Invoke(ctx, "get_data_root", nil, &g.dataRoot)
	})
	return g.dataRoot, g.dataRootErr
}

// ListenJobProgress subscribes to the worker's job_progress stream.
func (g *Gateway) ListenJobProgress(handler func(JobProgressEvent)) (Unlisten, error) {
	return g.Listen("job_progress", func(payload json.RawMessage) {
		var evt JobProgressEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			g.logger.Error().Err(err).Msg("malformed job_progress event")
			return
		}
		handler(evt)
	})
}
