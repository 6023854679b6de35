package engine

import (
	"time"

	"github.com/google/uuid"
)

// TokenSource produces unique tokens for generation staleness checks and
// workout log entry IDs.
//
// Implemented by UUIDv7Source (production) and testutil.FixedTokenSource
// (tests).
type TokenSource interface {
	Token() string
}

// Clock supplies timestamps for workout log entries.
//
// Implemented by SystemClock (production) and testutil.FixedClock (tests).
type Clock interface {
	Now() time.Time
}

// UUIDv7Source generates time-sortable UUIDv7 tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so log entry IDs
// sort by creation time - convenient when eyeballing history rows.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Source struct{}

// Token returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Source) Token() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SystemClock returns wall-clock time.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
