// Package store holds per-user in-memory state containers modeled as
// explicit finite state machines. Each container owns one collection
// (subscriptions, categories+budgets, notifications), moves through
// uninitialized -> loading -> ready (or loading -> error), and recomputes its
// derived aggregates synchronously on every dispatched action.
//
// Reducers are pure: all I/O lives in the Container orchestration, which
// pushes authoritative snapshots from an injected SnapshotSource. Local
// mutations apply optimistically; the next snapshot push reconciles.
package store

import (
	"time"

	"subtrackt/internal/models"
)

// Status is the lifecycle state of a container.
type Status string

const (
	// StatusUninitialized means no load has been attempted.
	StatusUninitialized Status = "uninitialized"
	// StatusLoading means a load is in flight and no data has arrived yet.
	StatusLoading Status = "loading"
	// StatusReady means data is present (possibly an empty collection).
	StatusReady Status = "ready"
	// StatusError means the last load failed; the collection is reset to
	// empty rather than serving stale data. Consumers must check the status
	// to distinguish "empty after error" from "genuinely no records".
	StatusError Status = "error"
)

// Snapshot is a full point-in-time copy of one user's record collections as
// read from the data source.
type Snapshot struct {
	Subscriptions []models.Subscription
	Categories    []models.Category
	Budgets       []models.Budget
	Notifications []models.Notification
}

// SnapshotSource is the data-source capability injected into containers.
// Implementations read the authoritative record set for one user.
type SnapshotSource interface {
	Snapshot(userID string) (Snapshot, error)
}

// Clock supplies the current time to derived-state recomputation, keeping
// reducers deterministic under test.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time { return time.Now() }
