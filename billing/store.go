package billing

import (
	"context"
	"time"
)

// PlanUpdate describes a plan mutation applied by the webhook ingestor.
type PlanUpdate struct {
	Tier         Tier
	Expiry       *time.Time // nil leaves the stored expiry untouched
	ResetCounter bool       // zero the published counter
}

// PlanStore persists plan records. Implementations must treat a missing
// record as the basic tier with a zero counter.
type PlanStore interface {
	// Get loads the record for a user. Absent records return a basic
	// tier default, not an error.
	Get(ctx context.Context, userID string) (PlanRecord, error)

	// Apply upserts the user's plan state.
	Apply(ctx context.Context, userID string, update PlanUpdate) error

	// IncrementPublished atomically bumps the user's published counter.
	IncrementPublished(ctx context.Context, userID string) error
}
