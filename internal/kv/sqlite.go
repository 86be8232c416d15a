/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package kv

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Key   string `gorm:"column:k;primaryKey"`
	Value []byte `gorm:"column:v"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore persists key-value pairs in an embedded sqlite database.
type SQLiteStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// OpenSQLite opens (and migrates) the sqlite store at path.
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "kv.sqlite").Logger(),
	}, nil
}

// Set stores value under key. Failures are logged, not returned.
func (s *SQLiteStore) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv serialize failed")
		return
	}
	entry := kvEntry{Key: Prefix + key, Value: data}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v"}),
	}).Create(&entry).Error
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv write failed")
	}
}

// Get loads key into out, reporting whether a valid value was found.
func (s *SQLiteStore) Get(key string, out any) bool {
	var entry kvEntry
	err := s.db.Where("k = ?", Prefix+key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Str("key", key).Msg("kv read failed")
		}
		return false
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv deserialize failed")
		return false
	}
	return true
}

// Remove deletes key.
func (s *SQLiteStore) Remove(key string) {
	if err := s.db.Where("k = ?", Prefix+key).Delete(&kvEntry{}).Error; err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("kv delete failed")
	}
}

// Has reports whether key exists.
func (s *SQLiteStore) Has(key string) bool {
	var count int64
	if err := s.db.Model(&kvEntry{}).Where("k = ?", Prefix+key).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Keys lists all stored keys, un-prefixed.
func (s *SQLiteStore) Keys() []string {
	var raw []string
	if err := s.db.Model(&kvEntry{}).Where("k LIKE ?", Prefix+"%").Pluck("k", &raw).Error; err != nil {
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
func (s *SQLiteStore) Clear() {
	if err := s.db.Where("k LIKE ?", Prefix+"%").Delete(&kvEntry{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("kv clear failed")
	}
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
