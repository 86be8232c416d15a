/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package kv

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore persists key-value pairs in Redis. If the connection
// probe fails the store disables itself and every operation becomes a
// logged no-op, mirroring the best-effort contract of the adapter.
type RedisStore struct {
	client   *redis.Client
	logger   zerolog.Logger
	disabled bool
}

// OpenRedis connects to Redis, degrading to a disabled store on failure.
func OpenRedis(cfg RedisConfig, logger zerolog.Logger) *RedisStore {
	log := logger.With().Str("component", "kv.redis").Logger()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, kv store disabled")
		return &RedisStore{logger: log, disabled: true}
	}

	return &RedisStore{client: client, logger: log}
}

// Set stores value under key.
func (s *RedisStore) Set(key string, value any) {
	if s.disabled {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv serialize failed")
		return
	}
	if err := s.client.Set(context.Background(), Prefix+key, data, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv write failed")
	}
}

// Get loads key into out, reporting whether a valid value was found.
func (s *RedisStore) Get(key string, out any) bool {
	if s.disabled {
		return false
	}
	data, err := s.client.Get(context.Background(), Prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Error().Err(err).Str("key", key).Msg("kv read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv deserialize failed")
		return false
	}
	return true
}

// Remove deletes key.
func (s *RedisStore) Remove(key string) {
	if s.disabled {
		return
	}
	if err := s.client.Del(context.Background(), Prefix+key).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv delete failed")
	}
}

// Has reports whether key exists.
func (s *RedisStore) Has(key string) bool {
	if s.disabled {
		return false
	}
	n, err := s.client.Exists(context.Background(), Prefix+key).Result()
	return err == nil && n > 0
}

// Keys lists all stored keys, un-prefixed.
func (s *RedisStore) Keys() []string {
	if s.disabled {
		return nil
	}
	raw, err := s.client.Keys(context.Background(), Prefix+"*").Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("kv keys failed")
		return nil
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, Prefix))
	}
	return keys
}

// Clear removes every namespaced entry.
func (s *RedisStore) Clear() {
	for _, key := range s.Keys() {
		s.Remove(key)
	}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
