package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/momentohq/resourcetrack/core/snapshot"
)

// Sink receives snapshots from a [Reporter].
type Sink[C comparable] interface {
	Record(ctx context.Context, snap snapshot.Snapshot[C]) error
}

// SinkFunc adapts a function to a [Sink].
type SinkFunc[C comparable] func(ctx context.Context, snap snapshot.Snapshot[C]) error

func (f SinkFunc[C]) Record(ctx context.Context, snap snapshot.Snapshot[C]) error {
	return f(ctx, snap)
}

// MultiSink fans every snapshot out to all given sinks. A failing sink does
// not stop the others; the errors are joined.
func MultiSink[C comparable](sinks ...Sink[C]) Sink[C] {
	return SinkFunc[C](func(ctx context.Context, snap snapshot.Snapshot[C]) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Record(ctx, snap); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// NewLogSink returns a sink that writes one structured log line per
// snapshot, with a counts group holding one attr per category. Categories
// are rendered with fmt.Sprint and sorted, so consecutive lines diff
// cleanly.
func NewLogSink[C comparable](log *slog.Logger) Sink[C] {
	if log == nil {
		log = slog.Default()
	}
	return SinkFunc[C](func(_ context.Context, snap snapshot.Snapshot[C]) error {
		attrs := make([]slog.Attr, 0, len(snap.Counts))
		for _, c := range snap.Counts {
			attrs = append(attrs, slog.Int64(fmt.Sprint(c.Category), c.Count))
		}
		slices.SortFunc(attrs, func(a, b slog.Attr) int {
			return strings.Compare(a.Key, b.Key)
		})

		args := make([]any, 0, len(attrs))
		for _, a := range attrs {
			args = append(args, a)
		}
		log.Info("resource counts", slog.Time("taken_at", snap.At), slog.Group("counts", args...))
		return nil
	})
}
