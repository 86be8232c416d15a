/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package kv provides the namespaced key-value adapter used to persist
// the document when the worker process is unreachable. It is a
// best-effort fallback: serialization and storage failures are logged
// and degrade to no-ops instead of propagating to callers.
package kv

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ChenM0M/Vecho/internal/config"
)

// Prefix namespaces every key to avoid collisions with unrelated data
// sharing the physical store.
const Prefix = "vecho_"

// Store is the persistent key-value contract. Keys passed in are
// un-prefixed; implementations apply Prefix internally.
type Store interface {
	Set(key string, value any)
	Get(key string, out any) bool
	Remove(key string)
	Has(key string) bool
	Keys() []string
	Clear()
	Close() error
}

// Open creates the configured backend.
func Open(cfg *config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.KVBackend {
	case config.KVSQLite:
		return OpenSQLite(cfg.KVPath, logger)
	case config.KVRedis:
		return OpenRedis(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown kv backend: %s", cfg.KVBackend)
	}
}
