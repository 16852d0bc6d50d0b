// Package store defines the persistence boundary for quest progress data.
// Progress travels as two independent documents, "current" and "completed",
// each mapping quester → quest → opaque progress blob.
package store

import "context"

// Data is one progress document: quester id → quest name → progress blob.
type Data map[string]map[string]string

// Store is the contract a progress backend must satisfy. Loading before the
// first save returns an empty non-nil Data and a nil error; "no data yet" is
// a normal first-run state. Every I/O or decode failure is returned to the
// caller — a backend must never hand back a default value in place of an
// error. Each save commits its whole category or fails; partial writes are
// not allowed.
type Store interface {
	SaveCurrent(ctx context.Context, data Data) error
	LoadCurrent(ctx context.Context) (Data, error)
	SaveCompleted(ctx context.Context, data Data) error
	LoadCompleted(ctx context.Context) (Data, error)
}
