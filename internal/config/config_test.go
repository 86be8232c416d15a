package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.KVBackend != KVSQLite {
		t.Errorf("default kv backend = %q, want sqlite", cfg.KVBackend)
	}
	if cfg.SaveDebounce != 600*time.Millisecond {
		t.Errorf("default debounce = %v, want 600ms", cfg.SaveDebounce)
	}
	if cfg.JobHistoryLimit != 100 {
		t.Errorf("default job history limit = %d, want 100", cfg.JobHistoryLimit)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("VECHO_KV_BACKEND", "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported kv backend")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("VECHO_HTTP_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestLegacyEnvWarnings(t *testing.T) {
	t.Setenv("VECHO_NATS_URL", "nats://old:4222")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.LegacyEnvWarnings) == 0 {
		t.Error("expected a legacy env warning for VECHO_NATS_URL")
	}
}
