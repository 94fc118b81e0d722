package contracts

import (
	"context"
)

// SSOT: store interfaces are defined here only; implementations live in
// internal/store.

// OutputStore persists the full output set of a pipeline run.
//
// SaveRun replaces the stored tables for the run's year atomically: either
// every table for the year is replaced or none is. A failed run must leave
// the previously committed output untouched.
type OutputStore interface {
	SaveRun(ctx context.Context, run *RunOutput) error
	LastRun(ctx context.Context, year int) (*RunSummary, error)
}

// FingerprintCache remembers the fingerprint of the last committed run so an
// unchanged rerun can be skipped. Implementations must treat a miss and a
// disabled cache identically.
type FingerprintCache interface {
	LastFingerprint(ctx context.Context, year int) (string, bool, error)
	StoreFingerprint(ctx context.Context, year int, fingerprint string) error
}
