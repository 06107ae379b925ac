// Package nats publishes resource count snapshots to a NATS subject, one
// [Report] message per snapshot. The sink is fire-and-forget over core NATS:
// it exports observations and neither persists nor aggregates them.
// Subscribers decode messages with [DecodeReport].
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
	natsgo "github.com/nats-io/nats.go"

	"github.com/momentohq/resourcetrack/core/report"
	"github.com/momentohq/resourcetrack/core/snapshot"
)

// ErrSinkClosed is returned when recording on or closing an already closed
// sink.
var ErrSinkClosed = errors.New("nats: sink is closed")

// SinkConfig configures a Sink.
type SinkConfig struct {
	Connect Connector    // Connect creates the underlying NATS connection. If nil, ConnectDefault() is used.
	Subject string       // Subject to publish on (default: "resourcetrack.counts").
	Origin  string       // Origin tags published reports (default: "track-<random>").
	Log     *slog.Logger // Log for diagnostics (optional)
}

// Sink publishes one [Report] per recorded snapshot.
type Sink[C comparable] struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	subject string
	origin  string
	log     *slog.Logger

	closed atomic.Bool
}

var _ report.Sink[string] = (*Sink[string])(nil)

// NewSink connects and returns a ready sink.
func NewSink[C comparable](cfg SinkConfig) (*Sink[C], error) {
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	if cfg.Subject == "" {
		cfg.Subject = "resourcetrack.counts"
	}
	if cfg.Origin == "" {
		cfg.Origin = fmt.Sprintf("track-%s", gonanoid.Must(6))
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Sink[C]{
		nc:      nc,
		closeNc: closeNc,
		subject: cfg.Subject,
		origin:  cfg.Origin,
		log:     log.With(slog.String("sink", "nats"), slog.String("origin", cfg.Origin)),
	}, nil
}

// Subject returns the subject the sink publishes on.
func (s *Sink[C]) Subject() string { return s.subject }

// Record publishes snap as one [Report] message.
func (s *Sink[C]) Record(ctx context.Context, snap snapshot.Snapshot[C]) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(Report[C]{
		Origin: s.origin,
		At:     snap.At,
		Counts: snap.Counts,
	})
	if err != nil {
		return fmt.Errorf("nats: encode report: %w", err)
	}

	if err := s.nc.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("nats: publish report: %w", err)
	}

	s.log.Debug("report published", slog.String("subject", s.subject), slog.Int("categories", snap.Len()))
	return nil
}

// Close drains the connection and gives it back to the connector.
func (s *Sink[C]) Close() error {
	if s.closed.Swap(true) {
		return ErrSinkClosed
	}
	if s.nc != nil {
		s.nc.Drain()
		s.closeNc()
	}
	return nil
}
