package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentohq/resourcetrack/adapters/nats"
	"github.com/momentohq/resourcetrack/adapters/sqlite"
	"github.com/momentohq/resourcetrack/core/report"
	"github.com/momentohq/resourcetrack/core/snapshot"
	"github.com/momentohq/resourcetrack/core/track"
)

// The whole pipeline end to end: a registry feeding a periodic reporter that
// fans out to a NATS sink and a sqlite journal, with a plain NATS subscriber
// observing the published reports.
func TestIntegration(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	connect := nats.ReuseConnection(nats.NewTestContainer(t))

	// === resources under observation ===

	reg := track.NewRegistry[string]()
	conns := reg.Category("connections")
	c1 := conns.Track()
	c2 := conns.Track()
	defer c2.Release()
	buf := reg.Category("buffers").TrackSized(4096)
	defer buf.Release()

	// === sinks ===

	sink, err := nats.NewSink[string](nats.SinkConfig{
		Connect: connect,
		Origin:  "it-1",
	})
	require.NoError(t, err)
	defer sink.Close()

	store, err := sqlite.NewStore[string](sqlite.StoreConfig[string]{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	// === subscriber ===

	nc, closeNc, err := connect()
	require.NoError(t, err)
	defer closeNc()

	sub, err := nc.SubscribeSync(sink.Subject())
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	// === reporter ===

	r, err := report.New[string](report.Options[string]{
		Source:   snapshot.NewReader[string](reg, snapshot.WithMaxStaleness(10*time.Millisecond)),
		Sink:     report.MultiSink[string](sink, store),
		Interval: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	waitForConns := func(want int64) nats.Report[string] {
		t.Helper()
		for {
			msg, err := sub.NextMsg(10 * time.Second)
			require.NoError(t, err)
			rep, err := nats.DecodeReport[string](msg.Data)
			require.NoError(t, err)
			for _, c := range rep.Counts {
				if c.Category == "connections" && c.Count == want {
					return rep
				}
			}
		}
	}

	// both handles are live before the first tick
	rep := waitForConns(2)
	require.Equal(t, "it-1", rep.Origin)
	require.False(t, rep.At.IsZero())
	require.Contains(t, rep.Counts, track.CategoryCount[string]{Category: "buffers", Count: 4096})

	// releasing a handle shows up in a later report
	c1.Release()
	waitForConns(1)

	// the journal carries the same observation
	require.Eventually(t, func() bool {
		points, err := store.History(t.Context(), "connections", time.Time{})
		return err == nil && len(points) > 0 && points[len(points)-1].Count == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	points, err := store.History(t.Context(), "connections", time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(2), points[0].Count)
	require.Equal(t, int64(1), points[len(points)-1].Count)

	categories, err := store.Categories(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"buffers", "connections"}, categories)
}
