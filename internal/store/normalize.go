/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"time"

	"github.com/ChenM0M/Vecho/internal/models"
)

// NormalizeSettings repairs a settings object loaded from any persisted
// source: legacy enum spellings are mapped forward, out-of-range values
// are clamped, and missing pieces are filled from the factory defaults.
// Idempotent: normalizing an already-normalized object changes nothing.
func NormalizeSettings(in models.AppSettings, newID func(string) string) models.AppSettings {
	def := models.DefaultSettings()
	out := in

	// Appearance.
	if out.Appearance.Theme != "dark" {
		out.Appearance.Theme = "light"
	}
	if out.Appearance.Language != "zh" {
		out.Appearance.Language = "en"
	}

	// Workspace.
	if out.Workspace.DefaultLocation == "" {
		out.Workspace.DefaultLocation = def.Workspace.DefaultLocation
	}

	// Player caption style.
	cc := &out.Player.CCStyle
	if cc.FontSize < 8 || cc.FontSize > 72 {
		cc.FontSize = def.Player.CCStyle.FontSize
	}
	cc.X = clamp01(cc.X, def.Player.CCStyle.X)
	cc.Y = clamp01(cc.Y, def.Player.CCStyle.Y)
	if cc.Color == "" {
		cc.Color = def.Player.CCStyle.Color
	}
	if cc.BGOpacity < 0 || cc.BGOpacity > 1 {
		cc.BGOpacity = def.Player.CCStyle.BGOpacity
	}

	// Transcription. Older builds stored the engine under different
	// names; map them forward.
	switch string(out.Transcription.Engine) {
	case "local":
		out.Transcription.Engine = models.EngineSherpaOnnx
	case "local_whispercpp":
		out.Transcription.Engine = models.EngineWhisperCpp
	case "cloud":
		out.Transcription.Engine = models.EngineOpenAI
	case string(models.EngineSherpaOnnx), string(models.EngineWhisperCpp), string(models.EngineOpenAI):
	default:
		out.Transcription.Engine = def.Transcription.Engine
	}
	if !validTranscriptionLanguage(out.Transcription.Language) {
		out.Transcription.Language = def.Transcription.Language
	}
	switch out.Transcription.LocalAccelerator {
	case models.AccelAuto, models.AccelCPU, models.AccelCUDA:
	default:
		out.Transcription.LocalAccelerator = def.Transcription.LocalAccelerator
	}
	if out.Transcription.NumThreads < 0 || out.Transcription.NumThreads > 256 {
		out.Transcription.NumThreads = 0
	}
	if out.Transcription.OpenAI.BaseURL == "" {
		out.Transcription.OpenAI.BaseURL = def.Transcription.OpenAI.BaseURL
	}
	if out.Transcription.OpenAI.Model == "" {
		out.Transcription.OpenAI.Model = def.Transcription.OpenAI.Model
	}

	// AI provider. "openai", "local" and "custom" all collapsed into
	// the OpenAI-compatible provider.
	switch string(out.AI.Provider) {
	case "openai", "local", "custom":
		out.AI.Provider = models.ProviderOpenAI
	case string(models.ProviderOpenAI), string(models.ProviderGemini):
	default:
		out.AI.Provider = def.AI.Provider
	}
	if out.AI.OpenAI.BaseURL == "" {
		out.AI.OpenAI.BaseURL = def.AI.OpenAI.BaseURL
	}
	if out.AI.OpenAI.ChatModel == "" {
		out.AI.OpenAI.ChatModel = def.AI.OpenAI.ChatModel
	}
	if out.AI.OpenAI.SummaryModel == "" {
		out.AI.OpenAI.SummaryModel = out.AI.OpenAI.ChatModel
	}
	if out.AI.Gemini.BaseURL == "" {
		out.AI.Gemini.BaseURL = def.AI.Gemini.BaseURL
	}
	if out.AI.Gemini.Model == "" {
		out.AI.Gemini.Model = def.AI.Gemini.Model
	}

	// Summary prompts: drop empty templates, assign missing ids and
	// names, and fall back to the factory list when nothing survives.
	prompts := make([]models.SummaryPrompt, 0, len(out.AI.SummaryPrompts))
	for _, p := range out.AI.SummaryPrompts {
		if p.Template == "" {
			continue
		}
		if p.ID == "" {
			p.ID = newID("sum")
		}
		if p.Name == "" {
			p.Name = "Custom template"
		}
		prompts = append(prompts, p)
	}
	if len(prompts) == 0 {
		prompts = def.AI.SummaryPrompts
	}
	out.AI.SummaryPrompts = prompts

	// The default prompt pointer must refer to a prompt that exists.
	valid := false
	for _, p := range prompts {
		if p.ID == out.AI.DefaultSummaryPromptID {
			valid = true
			break
		}
	}
	if !valid {
		out.AI.DefaultSummaryPromptID = prompts[0].ID
	}

	if out.Plugins.Enabled == nil {
		out.Plugins.Enabled = []string{}
	}
	return out
}

func validTranscriptionLanguage(lang string) bool {
	switch lang {
	case "auto", "en", "zh", "ja", "ko", "yue":
		return true
	}
	return false
}

func clamp01(v, fallback float64) float64 {
	if v < 0 || v > 1 {
		return fallback
	}
	return v
}

// NormalizeCollections repairs a collection list loaded from a
// persisted source: entries get ids and timestamps if missing, media
// id lists are de-duplicated with empty entries dropped, and SortOrder
// is re-packed into a dense 0..N-1 sequence. Idempotent.
func NormalizeCollections(in []models.Collection, now time.Time, newID func(string) string) []models.Collection {
	out := make([]models.Collection, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			c.ID = newID("col")
		}
		if c.Name == "" {
			c.Name = "Collection"
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = c.CreatedAt
		}
		c.MediaIDs = dedupeStrings(c.MediaIDs)
		out = append(out, c)
	}
	repackSortOrder(out)
	return out
}

// dedupeStrings keeps the first occurrence of each non-empty id,
// preserving order.
func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
