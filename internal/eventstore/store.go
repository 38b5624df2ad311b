// Package eventstore keeps the build history: every build appends its events to
// SQLite and the history projection summarizes them for `fluxpress history`.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves build events.
type Store interface {
	// Append adds an event and returns it with its assigned ID.
	Append(ctx context.Context, e Event) (Event, error)

	// ByBuild returns all events of one build in append order.
	ByBuild(ctx context.Context, buildID string) ([]Event, error)

	// Range returns events with start <= timestamp <= end in append order.
	Range(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close releases the underlying database.
	Close() error
}
