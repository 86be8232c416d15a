/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// KVBackend selects the local key-value fallback store.
type KVBackend string

const (
	KVSQLite KVBackend = "sqlite"
	KVRedis  KVBackend = "redis"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string

	// Worker gateway (NATS request/reply to the media worker process).
	WorkerURL     string
	WorkerTimeout time.Duration

	// Local key-value fallback, used only when the worker is unreachable.
	KVBackend     KVBackend
	KVPath        string // sqlite file
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Document persistence tuning. Neither value is load-bearing for
	// correctness, only for save smoothness and memory bound.
	SaveDebounce    time.Duration
	JobHistoryLimit int

	// Preview mode seeds example data when no persisted state exists.
	SeedPreviewData bool

	DataRoot string

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("VECHO_ENV", "development"),
		HTTPBind:    getEnv("VECHO_HTTP_BIND", "127.0.0.1"),
		HTTPPort:    getEnvInt("VECHO_HTTP_PORT", 8090),
		MetricsBind: getEnv("VECHO_METRICS_BIND", "127.0.0.1:9100"),

		WorkerURL:     getEnv("VECHO_WORKER_URL", "nats://127.0.0.1:4222"),
		WorkerTimeout: time.Duration(getEnvInt("VECHO_WORKER_TIMEOUT_MS", 30000)) * time.Millisecond,

		KVBackend:     KVBackend(getEnv("VECHO_KV_BACKEND", string(KVSQLite))),
		KVPath:        getEnv("VECHO_KV_PATH", "./vecho.db"),
		RedisAddr:     getEnv("VECHO_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("VECHO_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("VECHO_REDIS_DB", 0),

		SaveDebounce:    time.Duration(getEnvInt("VECHO_SAVE_DEBOUNCE_MS", 600)) * time.Millisecond,
		JobHistoryLimit: getEnvInt("VECHO_JOB_HISTORY_LIMIT", 100),

		SeedPreviewData: getEnvBool("VECHO_SEED_PREVIEW_DATA", true),

		DataRoot: getEnv("VECHO_DATA_ROOT", "./data"),
	}

	if cfg.KVBackend != KVSQLite && cfg.KVBackend != KVRedis {
		return nil, fmt.Errorf("unsupported kv backend %q", cfg.KVBackend)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid VECHO_HTTP_PORT %d", cfg.HTTPPort)
	}

	if cfg.SaveDebounce < 0 {
		return nil, fmt.Errorf("VECHO_SAVE_DEBOUNCE_MS must not be negative")
	}

	if cfg.JobHistoryLimit < 1 {
		return nil, fmt.Errorf("VECHO_JOB_HISTORY_LIMIT must be at least 1")
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"VECHO_NATS_URL":    "use VECHO_WORKER_URL",
		"VECHO_SQLITE_PATH": "use VECHO_KV_PATH",
		"VECHO_DEBOUNCE_MS": "use VECHO_SAVE_DEBOUNCE_MS",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "true" || v == "1" || v == "yes" {
			return true
		}
		if v == "false" || v == "0" || v == "no" {
			return false
		}
	}
	return def
}
