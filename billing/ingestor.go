package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/blogfusion/pkg/logger"
)

// Ingestor consumes verified billing webhooks and applies plan changes.
//
// Malformed or unresolvable events are acknowledged after logging: the
// provider retries on non-2xx responses, and retrying an event we can
// never resolve would loop forever. Signature failures are the one
// exception and surface as errors.
type Ingestor struct {
	provider Provider
	store    PlanStore
	log      *slog.Logger
	now      func() time.Time
}

// IngestorOption configures the Ingestor.
type IngestorOption func(*Ingestor)

// WithIngestorClock overrides the time source. Useful in tests.
func WithIngestorClock(now func() time.Time) IngestorOption {
	return func(i *Ingestor) {
		i.now = now
	}
}

// NewIngestor creates a webhook ingestor.
func NewIngestor(provider Provider, store PlanStore, log *slog.Logger, opts ...IngestorOption) *Ingestor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ing := &Ingestor{
		provider: provider,
		store:    store,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest verifies and applies a webhook payload. Verification runs
// before anything else; a signature failure returns an error with no
// state change. All other outcomes return nil so the provider marks
// the delivery as received.
func (i *Ingestor) Ingest(ctx context.Context, payload []byte, signature string) error {
	event, err := i.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		i.log.WarnContext(ctx, "webhook rejected", logger.Error(err))
		return err
	}

	switch event.Type {
	case EventCheckoutCompleted, EventSubscriptionUpdated:
		i.applyPlanChange(ctx, event)
	default:
		i.log.DebugContext(ctx, "webhook event ignored",
			logger.Event(event.ProviderEvent),
		)
	}
	return nil
}

func (i *Ingestor) applyPlanChange(ctx context.Context, event *Event) {
	if event.UserID == "" || event.Plan == "" {
		i.log.WarnContext(ctx, "webhook event missing plan metadata",
			logger.Event(event.ProviderEvent),
			logger.UserID(event.UserID),
		)
		return
	}

	tier, err := ParseTier(event.Plan)
	if err != nil {
		i.log.WarnContext(ctx, "webhook event carries unknown plan",
			logger.Event(event.ProviderEvent),
			logger.UserID(event.UserID),
			logger.Plan(event.Plan),
		)
		return
	}

	update := PlanUpdate{Tier: tier}
	if tier.IsPaid() {
		// Paid plans run on a monthly cycle: stamp a fresh expiry and
		// give the user a clean publish counter.
		expiry := i.now().AddDate(0, 1, 0)
		update.Expiry = &expiry
		update.ResetCounter = true
	}

	if err := i.store.Apply(ctx, event.UserID, update); err != nil {
		i.log.ErrorContext(ctx, "failed to apply plan change",
			logger.Event(event.ProviderEvent),
			logger.UserID(event.UserID),
			logger.Plan(tier.String()),
			logger.Error(err),
		)
		return
	}

	i.log.InfoContext(ctx, "plan updated",
		logger.Event(event.ProviderEvent),
		logger.UserID(event.UserID),
		logger.Plan(tier.String()),
	)
}
