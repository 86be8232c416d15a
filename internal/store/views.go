/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ChenM0M/Vecho/internal/models"
)

// ViewMode is the library presentation mode. UI state, never persisted.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// SortBy names the library sort key.
type SortBy string

const (
	SortByName     SortBy = "name"
	SortByDate     SortBy = "date"
	SortByDuration SortBy = "duration"
	SortBySize     SortBy = "size"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MediaFilter narrows the library view. Zero values mean "no
// constraint".
type MediaFilter struct {
	Type             models.MediaType
	CollectionID     string
	Tags             []string
	HasTranscription *bool
	HasNotes         *bool
	After            *time.Time
	Before           *time.Time
}

// Stats is a precomputed dashboard summary of the library.
type Stats struct {
	MediaCount       int    `json:"mediaCount"`
	VideoCount       int    `json:"videoCount"`
	AudioCount       int    `json:"audioCount"`
	TotalDuration    string `json:"totalDuration"`
	DurationSeconds  int64  `json:"durationSeconds"`
	NoteCount        int    `json:"noteCount"`
	TranscribedCount int    `json:"transcribedCount"`
	StorageUsed      string `json:"storageUsed"`
	StorageBytes     int64  `json:"storageBytes"`
	CollectionCount  int    `json:"collectionCount"`
	WorkflowCount    int    `json:"workflowCount"`
	TrashCount       int    `json:"trashCount"`
}

// SetViewMode changes the library presentation mode.
func (s *Store) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	s.viewMode = mode
	s.mu.Unlock()
}

// ViewMode returns the current presentation mode.
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetSort changes the library sort key and direction.
func (s *Store) SetSort(by SortBy, order SortOrder) {
	s.mu.Lock()
	s.sortBy = by
	s.sortOrder = order
	s.mu.Unlock()
}

// SetFilter replaces the library filter.
func (s *Store) SetFilter(f MediaFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// SetSearchQuery replaces the free-text search term.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	s.searchQuery = q
	s.mu.Unlock()
}

// FilteredMediaItems returns the library view: the media table run
// through the current filter, search query and sort settings.
func (s *Store) FilteredMediaItems() []models.MediaItem {
	s.mu.Lock()
	items := cloneSlice(s.mediaItems)
	filter := s.filter
	query := strings.ToLower(strings.TrimSpace(s.searchQuery))
	by := s.sortBy
	order := s.sortOrder
	collections := s.collections
	var member map[string]struct{}
	if filter.CollectionID != "" {
		member = map[string]struct{}{}
		for i := range collections {
			if collections[i].ID == filter.CollectionID {
				for _, id := range collections[i].MediaIDs {
					member[id] = struct{}{}
				}
			}
		}
	}
	s.mu.Unlock()

	out := items[:0]
	for _, item := range items {
		if !matchesFilter(item, filter, member) {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	sortMediaItems(out, by, order)
	return out
}

func matchesFilter(item models.MediaItem, f MediaFilter, member map[string]struct{}) bool {
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if member != nil {
		if _, ok := member[item.ID]; !ok {
			return false
		}
	}
	if f.HasTranscription != nil && (item.Transcription != nil) != *f.HasTranscription {
		return false
	}
	if f.HasNotes != nil && (len(item.Notes) > 0) != *f.HasNotes {
		return false
	}
	if f.After != nil && item.CreatedAt.Before(*f.After) {
		return false
	}
	if f.Before != nil && item.CreatedAt.After(*f.Before) {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, have := range item.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesQuery(item models.MediaItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	if item.Transcription != nil {
		for _, seg := range item.Transcription.Segments {
			if strings.Contains(strings.ToLower(seg.Text), query) {
				return true
			}
		}
	}
	return false
}

func sortMediaItems(items []models.MediaItem, by SortBy, order SortOrder) {
	less := func(a, b models.MediaItem) bool {
		switch by {
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByDuration:
			return a.Duration < b.Duration
		case SortBySize:
			return a.FileSize() < b.FileSize()
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order == SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// Stats computes the dashboard summary.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		MediaCount:      len(s.mediaItems),
		CollectionCount: len(s.collections),
		WorkflowCount:   len(s.workflows),
		TrashCount:      len(s.deletedItems),
	}
	var seconds float64
	for i := range s.mediaItems {
		item := &s.mediaItems[i]
		switch item.Type {
		case models.MediaVideo:
			st.VideoCount++
		case models.MediaAudio:
			st.AudioCount++
		}
		seconds += item.Duration
		st.NoteCount += len(item.Notes)
		if item.Transcription != nil {
			st.TranscribedCount++
		}
		st.StorageBytes += item.FileSize()
	}
	st.DurationSeconds = int64(seconds)
	st.TotalDuration = formatDuration(st.DurationSeconds)
	st.StorageUsed = formatStorage(st.StorageBytes)
	return st
}

// formatDuration renders seconds as "3h 24m" / "24m" / "45s".
func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// formatStorage renders bytes with a binary unit, one decimal.
func formatStorage(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
