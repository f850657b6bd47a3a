package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Ledger errors
	ErrInvalidXPAmount = errors.New("xp amount must be positive")

	// Encounter errors
	ErrEncounterNotClaimable = errors.New("encounter not found or already claimed")

	// Verification errors
	ErrUnreadableImage = errors.New("image metadata could not be read")

	// Storage errors — recovered locally, never surfaced as blocking failures
	ErrStateCorrupted = errors.New("stored ledger state failed to decode")
)
