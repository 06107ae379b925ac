// Package report periodically snapshots a count source and hands the
// snapshots to a sink: a log line, a message bus, a history journal, or a
// fan-out of several via [MultiSink].
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/momentohq/resourcetrack/core/snapshot"
)

// ErrNoSource is returned by New when no source is configured.
var ErrNoSource = errors.New("report: no source configured")

// Options configures a Reporter.
type Options[C comparable] struct {
	// Source to snapshot. Required.
	Source snapshot.Source[C]
	// Sink receives the snapshots. Defaults to a log sink on Log.
	Sink Sink[C]
	// Interval between reports. Defaults to 10s.
	Interval time.Duration
	// ID tags this reporter's log lines. Defaults to "report-<random>".
	ID string
	// Log is the reporter's logger. Defaults to slog.Default().
	Log *slog.Logger
}

// Reporter takes a snapshot of its source every interval and records it on
// its sink. Sink failures are logged and do not stop the loop; a reporting
// loop must never take the host program down.
type Reporter[C comparable] struct {
	src      snapshot.Source[C]
	sink     Sink[C]
	interval time.Duration
	log      *slog.Logger
}

// New creates a Reporter from opts.
func New[C comparable](opts Options[C]) (*Reporter[C], error) {
	if opts.Source == nil {
		return nil, ErrNoSource
	}

	// === identity and logger ===
	if opts.ID == "" {
		opts.ID = fmt.Sprintf("report-%s", gonanoid.Must(6))
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	log := opts.Log.With(slog.String("reporter", opts.ID))

	// === sink and interval ===
	if opts.Sink == nil {
		opts.Sink = NewLogSink[C](log)
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}

	return &Reporter[C]{
		src:      opts.Source,
		sink:     opts.Sink,
		interval: opts.Interval,
		log:      log,
	}, nil
}

// Run reports every interval until ctx is cancelled, then returns nil.
func (r *Reporter[C]) Run(ctx context.Context) error {
	r.log.Debug("reporter started", slog.Duration("interval", r.interval))

	tmr := time.NewTicker(r.interval)
	defer tmr.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("reporter stopped")
			return nil
		case <-tmr.C:
			if err := r.Flush(ctx); err != nil {
				r.log.Warn("failed to record counts", slog.Any("error", err))
			}
		}
	}
}

// Flush takes one snapshot now and records it, regardless of the interval.
func (r *Reporter[C]) Flush(ctx context.Context) error {
	return r.sink.Record(ctx, snapshot.Take(r.src))
}
