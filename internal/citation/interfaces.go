package citation

import (
	"context"
	"time"
)

// Fetcher retrieves a page body over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Pauser suspends the caller for the politeness delay and reports how long it slept.
type Pauser interface {
	Pause(ctx context.Context) time.Duration
}
