/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// nobodyListening is a url with no NATS server behind it; the connect
// attempt is refused immediately.
const nobodyListening = "nats://127.0.0.1:1"

func TestInvokeFailsFastWhenUnreachable(t *testing.T) {
	g := New(nobodyListening, time.Second, zerolog.Nop())
	defer g.Close()
	ctx := context.Background()

	if g.Available(ctx) {
		t.Fatal("worker reported available with nobody listening")
	}
	if err := g.Invoke(ctx, "get_state", nil, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Invoke error = %v, want ErrUnavailable", err)
	}

	// Typed wrappers carry the sentinel through.
	if _, err := g.ImportURL(ctx, "https://example.com/v", "", ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ImportURL error = %v, want ErrUnavailable", err)
	}
	if _, err := g.UploadBegin(ctx, "", "clip.mp4", 1024, "video/mp4"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("UploadBegin error = %v, want ErrUnavailable", err)
	}
	if _, err := g.Listen("job_progress", func(json.RawMessage) {}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Listen error = %v, want ErrUnavailable", err)
	}
}

func TestAvailableProbesOnce(t *testing.T) {
	g := New(nobodyListening, time.Second, zerolog.Nop())
	defer g.Close()

	if g.Available(context.Background()) {
		t.Fatal("worker reported available with nobody listening")
	}

	// The probe ran; every later call answers from the memoized
	// result, even with an already-cancelled context.
	expired, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Available(expired) {
				t.Error("memoized probe flipped to available")
			}
		}()
	}
	wg.Wait()
	if elapsed := time.Since(start); elapsed > probeTimeout {
		t.Fatalf("memoized calls took %v, probe must not rerun", elapsed)
	}
}
