/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package gateway bridges the core to the external media worker
// process over NATS request/reply, and relays the worker's
// asynchronous events back. When the worker is unreachable every call
// fails fast with ErrUnavailable; the store then falls back to the
// local key-value adapter.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by every gateway operation when the
// worker process is unreachable.
var ErrUnavailable = errors.New("worker backend not available")

const (
	cmdSubjectPrefix = "vecho.worker.cmd."
	evtSubjectPrefix = "vecho.worker.evt."

	probeTimeout = 2 * time.Second
)

// Unlisten cancels an event subscription.
type Unlisten func()

// Gateway is the command/event boundary to the worker process.
type Gateway struct {
	url     string
	timeout time.Duration
	logger  zerolog.Logger

	probeOnce sync.Once
	conn      *nats.Conn
	available bool

	dataRootOnce sync.Once
	dataRoot     string
	dataRootErr  error
}

// New creates a gateway for the worker at url. No connection is made
// until the first Available call.
func New(url string, timeout time.Duration, logger zerolog.Logger) *Gateway {
	return &Gateway{
		url:     url,
		timeout: timeout,
		logger:  logger.With().Str("component", "gateway").Logger(),
	}
}

// Available reports whether the worker process is reachable. The
// runtime probe (connect + ping) runs exactly once per process
// lifetime; the result is memoized for every later call.
func (g *Gateway) Available(ctx context.Context) bool {
	g.probeOnce.Do(func() {
		conn, err := nats.Connect(g.url,
			nats.Timeout(probeTimeout),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			g.logger.Warn().Err(err).Str("url", g.url).Msg("worker unreachable, running in preview mode")
			return
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		if _, err := conn.RequestWithContext(probeCtx, cmdSubjectPrefix+"ping", nil); err != nil {
			g.logger.Warn().Err(err).Msg("worker ping failed, running in preview mode")
			conn.Close()
			return
		}

		g.conn = conn
		g.available = true
		g.logger.Info().Str("url", g.url).Msg("worker backend connected")
	})
	return g.available
}

// invokeEnvelope is the worker's reply frame.
type invokeEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Invoke performs a typed request/reply call against the worker. The
// reply payload is decoded into out when out is non-nil. Calls made
// while the worker is unreachable fail fast with ErrUnavailable.
func (g *Gateway) Invoke(ctx context.Context, command string, args any, out any) error {
	if !g.Available(ctx) {
		return fmt.Errorf("%s: %w", command, ErrUnavailable)
	}

	var payload []byte
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("%s: encode args: %w", command, err)
		}
		payload = data
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	msg, err := g.conn.RequestWithContext(callCtx, cmdSubjectPrefix+command, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	var envelope invokeEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		return fmt.Errorf("%s: decode reply: %w", command, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s: worker error: %s", command, envelope.Error)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", command, err)
		}
	}
	return nil
}

// Listen subscribes to a named worker event stream and returns a
// disposer. NATS delivers messages of one subscription in publish
// order on a single dispatch goroutine, which preserves the per-job
// ordering the reconciler depends on.
func (g *Gateway) Listen(event string, handler func(payload json.RawMessage)) (Unlisten, error) {
	if !g.Available(context.Background()) {
		return nil, fmt.Errorf("listen %s: %w", event, ErrUnavailable)
	}

	sub, err := g.conn.Subscribe(evtSubjectPrefix+event, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", event, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			g.logger.Debug().Err(err).Str("event", event).Msg("unsubscribe failed")
		}
	}, nil
}

// Close drops the worker connection.
func (g *Gateway) Close() {
	if g.conn != nil {
		g.conn.Close()
	}
}
