/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChenM0M/Vecho/internal/models"
)

// migrationStep rewrites a raw document map from one schema version to
// the next. Steps run in order until the document reaches
// models.DocumentVersion.
type migrationStep struct {
	from    int
	migrate func(doc map[string]any, now time.Time)
}

var migrations = []migrationStep{
	{from: 0, migrate: migrateV0},
}

// MigrateDocument takes a raw persisted payload of any known version
// and returns it bound to the current typed document. Payloads newer
// than this build understands are rejected rather than guessed at.
func MigrateDocument(raw json.RawMessage, now time.Time) (*models.PersistedDocument, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal persisted document: %w", err)
	}

	version := docVersion(doc)
	if version > models.DocumentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported %d", version, models.DocumentVersion)
	}
	for _, step := range migrations {
		if version == step.from {
			step.migrate(doc, now)
			version = docVersion(doc)
		}
	}
	if version != models.DocumentVersion {
		return nil, fmt.Errorf("migration chain stopped at version %d", version)
	}

	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("remarshal migrated document: %w", err)
	}
	var out models.PersistedDocument
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("bind migrated document: %w", err)
	}
	return &out, nil
}

func docVersion(doc map[string]any) int {
	v, ok := doc["version"].(float64)
	if !ok {
		return 0
	}
	return int(v)
}

// migrateV0 upgrades the unversioned format: a bare field map with no
// envelope, whose ai settings carried flat apiEndpoint/apiKey/
// defaultModel fields.
func migrateV0(doc map[string]any, now time.Time) {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		// Unversioned documents were the data map itself.
		data = make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "version" || k == "savedAt" {
				continue
			}
			data[k] = v
		}
		for k := range doc {
			delete(doc, k)
		}
		doc["data"] = data
	}
	if settings, ok := data["settings"].(map[string]any); ok {
		migrateLegacySettings(settings)
	}
	doc["version"] = float64(1)
	if _, ok := doc["savedAt"]; !ok {
		doc["savedAt"] = now.UTC().Format(time.RFC3339Nano)
	}
}

// migrateLegacySettings moves the flat ai.apiEndpoint/apiKey/
// defaultModel trio into the structured endpoint objects, filling only
// fields the structured form does not already set.
func migrateLegacySettings(settings map[string]any) {
	ai, ok := settings["ai"].(map[string]any)
	if !ok {
		return
	}
	endpoint, _ := ai["apiEndpoint"].(string)
	apiKey, _ := ai["apiKey"].(string)
	model, _ := ai["defaultModel"].(string)
	delete(ai, "apiEndpoint")
	delete(ai, "apiKey")
	delete(ai, "defaultModel")
	if endpoint == "" && apiKey == "" && model == "" {
		return
	}

	openai, ok := ai["openai"].(map[string]any)
	if !ok {
		openai = map[string]any{}
		ai["openai"] = openai
	}
	setIfMissing(openai, "baseUrl", endpoint)
	setIfMissing(openai, "apiKey", apiKey)
	setIfMissing(openai, "chatModel", model)

	// The legacy endpoint also served cloud transcription.
	if tr, ok := settings["transcription"].(map[string]any); ok {
		tropenai, ok := tr["openai"].(map[string]any)
		if !ok {
			tropenai = map[string]any{}
			tr["openai"] = tropenai
		}
		setIfMissing(tropenai, "baseUrl", endpoint)
		setIfMissing(tropenai, "apiKey", apiKey)
	}
}

func setIfMissing(m map[string]any, key, value string) {
	if value == "" {
		return
	}
	if existing, ok := m[key].(string); ok && existing != "" {
		return
	}
	m[key] = value
}
