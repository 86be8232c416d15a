/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"time"

	"github.com/ChenM0M/Vecho/internal/models"
)

// seedPreviewData fills an empty workspace with a small deterministic
// library so the app is explorable without a worker process. Fixed ids,
// timestamps relative to now.
func (s *Store) seedPreviewData() {
	now := s.now()

	media := []models.MediaItem{
		{
			ID:       "media-1",
			Type:     models.MediaVideo,
			Name:     "Product Deep Dive.mp4",
			Source:   models.NewLocalSource("/preview/product-deep-dive.mp4", 734003200),
			Duration: 1847,
			Tags:     []string{"research", "product"},
			Transcription: &models.Transcription{
				ID:       "tr-1",
				MediaID:  "media-1",
				Language: "en",
				Segments: []models.TranscriptionSegment{
					{ID: "seg-1", Start: 0, End: 6.5, Text: "Welcome back, today we are walking through the architecture."},
					{ID: "seg-2", Start: 6.5, End: 14.2, Text: "The pipeline starts at ingestion and ends at the review queue."},
				},
				WordCount:   21,
				GeneratedAt: now.Add(-46 * time.Hour),
			},
			Notes: []models.MediaNote{
				{ID: "note-1", MediaID: "media-1", Content: "Great overview of the ingestion path.", CreatedAt: now.Add(-45 * time.Hour), UpdatedAt: now.Add(-45 * time.Hour)},
			},
			Bookmarks: []models.Bookmark{
				{ID: "bm-1", MediaID: "media-1", Timestamp: 360, Label: "Architecture diagram", Color: models.BookmarkBlue, CreatedAt: now.Add(-45 * time.Hour)},
			},
			PlayCount: 3,
			CreatedAt: now.Add(-48 * time.Hour),
			UpdatedAt: now.Add(-45 * time.Hour),
			Status:    models.MediaStatusReady,
		},
		{
			ID:        "media-2",
			Type:      models.MediaAudio,
			Name:      "Interview with Dr. Chen.m4a",
			Source:    models.NewLocalSource("/preview/interview-chen.m4a", 94371840),
			Duration:  3512,
			Tags:      []string{"interview"},
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-24 * time.Hour),
			Status:    models.MediaStatusReady,
		},
		{
			ID:        "media-3",
			Type:      models.MediaVideo,
			Name:      "Conference Keynote",
			Source:    models.NewOnlineSource(models.PlatformYouTube, "https://example.com/watch?v=keynote"),
			Duration:  5405,
			Tags:      []string{"conference", "keynote"},
			CreatedAt: now.Add(-6 * time.Hour),
			UpdatedAt: now.Add(-6 * time.Hour),
			Status:    models.MediaStatusReady,
		},
	}

	collections := []models.Collection{
		{ID: "col-1", Name: "Research", Color: "#6366f1", Icon: "flask", MediaIDs: []string{"media-1", "media-2"}, SortOrder: 0, CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour)},
		{ID: "col-2", Name: "Interviews", Color: "#f59e0b", Icon: "mic", MediaIDs: []string{"media-2"}, SortOrder: 1, CreatedAt: now.Add(-30 * time.Hour), UpdatedAt: now.Add(-30 * time.Hour)},
		{ID: "col-3", Name: "Watch Later", Color: "#10b981", Icon: "clock", MediaIDs: []string{"media-3"}, SortOrder: 2, CreatedAt: now.Add(-6 * time.Hour), UpdatedAt: now.Add(-6 * time.Hour)},
	}

	workflows := []models.Workflow{
		{
			ID: "wf-1", Name: "Transcribe & Summarize", Desc: "Run transcription, then generate a summary with chapters.",
			Status: models.WorkflowActive, Runs: 12,
			Modified: now.Add(-20 * time.Hour), CreatedAt: now.Add(-72 * time.Hour),
			Nodes: []models.WorkflowNode{
				{ID: "n1", Type: "input", Label: "Media In", X: 80, Y: 120, Outputs: []string{"n2"}},
				{ID: "n2", Type: "process", Label: "Transcribe", X: 280, Y: 120, Inputs: []string{"n1"}, Outputs: []string{"n3"}},
				{ID: "n3", Type: "output", Label: "Summary", X: 480, Y: 120, Inputs: []string{"n2"}},
			},
			Connections: []models.WorkflowConnection{
				{ID: "c1", From: "n1", To: "n2"},
				{ID: "c2", From: "n2", To: "n3"},
			},
		},
		{
			ID: "wf-2", Name: "Podcast Cleanup", Desc: "Normalize audio and strip silence before transcription.",
			Status: models.WorkflowDraft, Runs: 0,
			Modified: now.Add(-3 * time.Hour), CreatedAt: now.Add(-3 * time.Hour),
			Nodes: []models.WorkflowNode{
				{ID: "n1", Type: "input", Label: "Audio In", X: 80, Y: 120, Outputs: []string{"n2"}},
				{ID: "n2", Type: "process", Label: "Normalize", X: 280, Y: 120, Inputs: []string{"n1"}},
			},
			Connections: []models.WorkflowConnection{
				{ID: "c1", From: "n1", To: "n2"},
			},
		},
	}

	activities := []models.ActivityItem{
		{ID: "act-1", Type: models.ActivityImport, Title: "Media added", Desc: "Conference Keynote", Time: now.Add(-6 * time.Hour), MediaID: "media-3", Status: "success"},
		{ID: "act-2", Type: models.ActivityTranscription, Title: "Transcription ready", Desc: "Product Deep Dive.mp4 (2 segments)", Time: now.Add(-46 * time.Hour), MediaID: "media-1", Status: "success"},
	}

	s.mu.Lock()
	if len(s.mediaItems) == 0 {
		s.mediaItems = media
	}
	if len(s.collections) == 0 {
		s.collections = collections
	}
	if len(s.workflows) == 0 {
		s.workflows = workflows
	}
	if len(s.activities) == 0 {
		s.activities = activities
	}
	s.mu.Unlock()
}
