package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Project lifecycle errors.
var (
	ErrNotInitialized     = errors.New("project is not initialized")
	ErrAlreadyInitialized = errors.New("project is already initialized")
)

// Entity operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
	ErrInvalidName = errors.New("invalid name")
	ErrNoPending   = errors.New("no pending child")
)

// State machine errors.
var (
	ErrInvalidState      = errors.New("invalid state value")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Rollup and sync errors.
var (
	// ErrRollupFailed means a completion rollup could not be committed after
	// a retry. The store is guaranteed unchanged; the whole operation may be
	// retried later.
	ErrRollupFailed = errors.New("completion rollup failed")

	// ErrSyncUnavailable means the revision query or the store write failed.
	// The stored hash is unchanged; callers continue on the last-synced hash.
	ErrSyncUnavailable = errors.New("git sync unavailable")
)
