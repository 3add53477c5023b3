package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream clients return
// these (optionally wrapped) so the sync engine can translate them into
// per-entity outcomes without inspecting transport details.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist (locally or upstream)
// - ErrConflict: a unique constraint rejected the write (duplicate external id)
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
