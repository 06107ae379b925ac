package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/momentohq/resourcetrack/core/track"
)

// Report is the wire form of one recorded snapshot, as published by [Sink].
type Report[C comparable] struct {
	// Origin identifies the publishing process.
	Origin string `json:"origin"`
	// At is when the snapshot was taken.
	At time.Time `json:"at"`
	// Counts holds every category and its total at that time.
	Counts []track.CategoryCount[C] `json:"counts"`
}

func (r Report[C]) Validate() error {
	if r.Origin == "" {
		return fmt.Errorf("report origin is empty")
	}
	if r.At.IsZero() {
		return fmt.Errorf("report taken at is zero")
	}
	return nil
}

// DecodeReport parses and validates a published report message. This is the
// subscriber-side counterpart of [Sink.Record].
func DecodeReport[C comparable](data []byte) (Report[C], error) {
	var r Report[C]
	if err := json.Unmarshal(data, &r); err != nil {
		return Report[C]{}, fmt.Errorf("nats: decode report: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Report[C]{}, err
	}
	return r, nil
}
