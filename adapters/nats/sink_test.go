package nats

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentohq/resourcetrack/core/snapshot"
	"github.com/momentohq/resourcetrack/core/track"
)

func TestSink_PublishAndDecode(t *testing.T) {
	connect := NewTestContainer(t)

	subNc, disconnect, err := connect()
	require.NoError(t, err)
	defer disconnect()

	sub, err := subNc.SubscribeSync("resourcetrack.counts")
	require.NoError(t, err)
	require.NoError(t, subNc.Flush())

	sink, err := NewSink[string](SinkConfig{Connect: connect})
	require.NoError(t, err)
	defer sink.Close()

	require.Equal(t, "resourcetrack.counts", sink.Subject())

	reg := track.NewRegistry[string]()
	tracked := reg.Category("conns").TrackSized(3)
	defer tracked.Release()

	require.NoError(t, sink.Record(t.Context(), snapshot.Take[string](reg)))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)

	rep, err := DecodeReport[string](msg.Data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rep.Origin, "track-"), "origin %q", rep.Origin)
	assert.False(t, rep.At.IsZero())
	require.Len(t, rep.Counts, 1)
	assert.Equal(t, track.CategoryCount[string]{Category: "conns", Count: 3}, rep.Counts[0])
}

func TestSink_CustomSubjectAndOrigin(t *testing.T) {
	connect := NewTestContainer(t)

	subNc, disconnect, err := connect()
	require.NoError(t, err)
	defer disconnect()

	sub, err := subNc.SubscribeSync("accounting.live")
	require.NoError(t, err)
	require.NoError(t, subNc.Flush())

	sink, err := NewSink[string](SinkConfig{
		Connect: connect,
		Subject: "accounting.live",
		Origin:  "worker-1",
	})
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(t.Context(), snapshot.Take[string](track.NewRegistry[string]())))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)

	rep, err := DecodeReport[string](msg.Data)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", rep.Origin)
	assert.Empty(t, rep.Counts)
}

func TestSink_Closed(t *testing.T) {
	connect := NewTestContainer(t)

	sink, err := NewSink[string](SinkConfig{Connect: connect})
	require.NoError(t, err)

	require.NoError(t, sink.Close())
	require.ErrorIs(t, sink.Close(), ErrSinkClosed)
	require.ErrorIs(t, sink.Record(t.Context(), snapshot.Snapshot[string]{At: time.Now()}), ErrSinkClosed)
}

func TestSink_ContextCancelled(t *testing.T) {
	connect := NewTestContainer(t)

	sink, err := NewSink[string](SinkConfig{Connect: connect})
	require.NoError(t, err)
	defer sink.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, sink.Record(ctx, snapshot.Snapshot[string]{At: time.Now()}), context.Canceled)
}

func TestDecodeReport_Invalid(t *testing.T) {
	_, err := DecodeReport[string]([]byte("not json"))
	require.Error(t, err)

	// Valid JSON, missing origin.
	_, err = DecodeReport[string]([]byte(`{"at":"2026-01-02T15:04:05Z","counts":[]}`))
	require.ErrorContains(t, err, "origin")
}
