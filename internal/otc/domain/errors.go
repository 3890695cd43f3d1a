package domain

import "errors"

// Consume failure modes. ErrCodeMismatch and ErrNotFound stay distinct in the typed
// error model; outer layers render them identically to avoid identity enumeration.
var (
	// ErrNotFound means no pending entry exists for the identity (never issued,
	// already consumed, or reclaimed).
	ErrNotFound = errors.New("otc: no pending code for identity")
	// ErrExpired means the entry existed but its TTL had elapsed; the entry is
	// deleted on this observation and a reissue is allowed immediately.
	ErrExpired = errors.New("otc: code expired")
	// ErrCodeMismatch means the supplied code does not match the pending entry.
	// The entry stays intact; no attempt counter is kept at this layer.
	ErrCodeMismatch = errors.New("otc: code mismatch")
)
