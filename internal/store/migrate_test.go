/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"encoding/json"
	"testing"
	"time"
)

var migrateNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestMigrateCurrentVersionPassesThrough(t *testing.T) {
	raw := json.RawMessage(`{
		"version": 1,
		"savedAt": "2026-01-02T03:04:05Z",
		"data": {
			"mediaItems": [{"id": "media-9", "type": "audio", "name": "a.m4a"}],
			"collections": [],
			"workflows": [],
			"deletedItems": [],
			"settings": {},
			"userProfile": {"id": "u", "name": "n", "email": ""},
			"activities": []
		}
	}`)
	doc, err := MigrateDocument(raw, migrateNow)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != 1 {
		t.Errorf("version = %d", doc.Version)
	}
	if len(doc.Data.MediaItems) != 1 || doc.Data.MediaItems[0].ID != "media-9" {
		t.Errorf("data lost: %+v", doc.Data.MediaItems)
	}
}

func TestMigrateUnversionedEnvelope(t *testing.T) {
	// The oldest format: the data map itself, no envelope.
	raw := json.RawMessage(`{
		"mediaItems": [{"id": "media-1", "type": "video", "name": "old.mp4"}],
		"settings": {
			"ai": {
				"apiEndpoint": "https://legacy.example/v1",
				"apiKey": "sk-old",
				"defaultModel": "gpt-3.5-turbo"
			}
		}
	}`)
	doc, err := MigrateDocument(raw, migrateNow)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != 1 {
		t.Fatalf("version = %d", doc.Version)
	}
	if len(doc.Data.MediaItems) != 1 {
		t.Fatalf("media lost: %+v", doc.Data)
	}
	ai := doc.Data.Settings.AI
	if ai.OpenAI.BaseURL != "https://legacy.example/v1" {
		t.Errorf("baseUrl = %q", ai.OpenAI.BaseURL)
	}
	if ai.OpenAI.APIKey != "sk-old" {
		t.Errorf("apiKey = %q", ai.OpenAI.APIKey)
	}
	if ai.OpenAI.ChatModel != "gpt-3.5-turbo" {
		t.Errorf("chatModel = %q", ai.OpenAI.ChatModel)
	}
	// The legacy endpoint also seeded cloud transcription.
	if doc.Data.Settings.Transcription.OpenAI.APIKey != "" {
		// transcription map was absent in the input, so nothing to
		// seed; documents that carried one are covered below.
		t.Errorf("unexpected transcription seed: %+v", doc.Data.Settings.Transcription)
	}
}

func TestMigrateLegacyAIFieldsRespectStructured(t *testing.T) {
	raw := json.RawMessage(`{
		"mediaItems": [],
		"settings": {
			"ai": {
				"apiEndpoint": "https://legacy.example/v1",
				"openai": {"baseUrl": "https://already.example/v1"}
			},
			"transcription": {"openai": {"baseUrl": ""}}
		}
	}`)
	doc, err := MigrateDocument(raw, migrateNow)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Data.Settings.AI.OpenAI.BaseURL; got != "https://already.example/v1" {
		t.Errorf("structured field overwritten: %q", got)
	}
	if got := doc.Data.Settings.Transcription.OpenAI.BaseURL; got != "https://legacy.example/v1" {
		t.Errorf("transcription endpoint not seeded: %q", got)
	}
}

func TestMigrateRejectsNewerVersion(t *testing.T) {
	raw := json.RawMessage(`{"version": 99, "data": {}}`)
	if _, err := MigrateDocument(raw, migrateNow); err == nil {
		t.Fatal("newer version must be rejected")
	}
}

func TestMigrateRejectsGarbage(t *testing.T) {
	if _, err := MigrateDocument(json.RawMessage(`[1,2,3]`), migrateNow); err == nil {
		t.Fatal("non-object payload must be rejected")
	}
	if _, err := MigrateDocument(json.RawMessage(`{"version": 1, "data": "nope"}`), migrateNow); err == nil {
		t.Fatal("malformed data must fail binding")
	}
}
