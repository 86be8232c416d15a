/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/models"
)

// fakeKV is an in-memory kv.Store double. Values round-trip through
// JSON like the real backends.
type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}}
}

func (f *fakeKV) Set(key string, value any) {
	buf, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.data[key] = buf
	f.mu.Unlock()
}

func (f *fakeKV) Get(key string, out any) bool {
	f.mu.Lock()
	buf, ok := f.data[key]
	f.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(buf, out) == nil
}

func (f *fakeKV) Remove(key string) {
	f.mu.Lock()
	delete(f.data, key)
	f.mu.Unlock()
}

func (f *fakeKV) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeKV) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys
}

func (f *fakeKV) Clear() {
	f.mu.Lock()
	f.data = map[string][]byte{}
	f.mu.Unlock()
}

func (f *fakeKV) Close() error { return nil }

// fakeBackend is a Backend double recording every save.
type fakeBackend struct {
	mu        sync.Mutex
	available bool
	stored    json.RawMessage
	loadErr   error
	saveErr   error
	saves     []*models.PersistedDocument
	handler   func(gateway.JobProgressEvent)

	// saveStarted/saveRelease let tests hold a flush in flight.
	saveStarted chan struct{}
	saveRelease chan struct{}
}

func (f *fakeBackend) Available(ctx context.Context) bool { return f.available }

func (f *fakeBackend) LoadState(ctx context.Context) (json.RawMessage, error) {
	return f.stored, f.loadErr
}

func (f *fakeBackend) SaveState(ctx context.Context, doc *models.PersistedDocument) error {
	if f.saveStarted != nil {
		f.saveStarted <- struct{}{}
		<-f.saveRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, doc)
	return nil
}

func (f *fakeBackend) ListenJobProgress(handler func(gateway.JobProgressEvent)) (gateway.Unlisten, error) {
	f.handler = handler
	return func() {}, nil
}

func (f *fakeBackend) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeBackend) lastSave() *models.PersistedDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

// testIDs hands out deterministic per-prefix ids: media-1, media-2...
func testIDs() func(string) string {
	var mu sync.Mutex
	counts := map[string]int{}
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		counts[prefix]++
		return fmt.Sprintf("%s-%d", prefix, counts[prefix])
	}
}

func testClock(start time.Time) func() time.Time {
	return func() time.Time { return start }
}

func newTestStore(opts Options) *Store {
	opts.Logger = zerolog.Nop()
	if opts.Clock == nil {
		opts.Clock = testClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	}
	if opts.NewID == nil {
		opts.NewID = testIDs()
	}
	if opts.SaveDebounce == 0 {
		opts.SaveDebounce = 10 * time.Millisecond
	}
	return New(opts)
}

// bootstrapped builds a ready store with no backend and no kv: pure
// in-memory, preview seeding off.
func bootstrapped(opts Options) *Store {
	s := newTestStore(opts)
	if err := s.Bootstrap(context.Background()); err != nil {
		panic(err)
	}
	return s
}
