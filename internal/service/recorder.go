package service

import (
	"context"
	"log/slog"
)

// LookupEvent describes one completed lookup for analytics purposes.
type LookupEvent struct {
	Code      string
	Country   string
	Outcome   string
	Geocoder  string
	LatencyMs int64
}

// Recorder receives lookup events. Persistence of analytics events is
// an external collaborator; the shipped implementations log or drop
// them.
type Recorder interface {
	RecordLookup(ctx context.Context, event LookupEvent)
}

// LogRecorder writes lookup events to the structured log.
type LogRecorder struct {
	log *slog.Logger
}

func NewLogRecorder(log *slog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (lr *LogRecorder) RecordLookup(ctx context.Context, event LookupEvent) {
	lr.log.InfoContext(ctx, "Lookup completed",
		"code", event.Code,
		"country", event.Country,
		"outcome", event.Outcome,
		"geocoder", event.Geocoder,
		"latency_ms", event.LatencyMs,
	)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordLookup(context.Context, LookupEvent) {}
