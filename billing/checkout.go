package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/blogfusion/pkg/logger"
)

// CheckoutService turns a plan selection into a hosted checkout session.
type CheckoutService struct {
	provider Provider
	cfg      Config
	log      *slog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(provider Provider, cfg Config, log *slog.Logger) *CheckoutService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CheckoutService{provider: provider, cfg: cfg, log: log}
}

// Initiate creates a checkout session for the user and plan. The plan
// name is normalized before lookup; unknown plans and unconfigured
// prices fail before the provider is called.
func (s *CheckoutService) Initiate(ctx context.Context, userID, email, plan string) (*CheckoutSession, error) {
	tier, err := ParseTier(plan)
	if err != nil {
		return nil, err
	}

	priceID, err := s.cfg.PriceID(tier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, tier)
	}

	baseURL := strings.TrimSuffix(s.cfg.BaseURL, "/")
	session, err := s.provider.CreateCheckout(ctx, CheckoutRequest{
		PriceID:    priceID,
		UserID:     userID,
		Plan:       tier,
		Email:      email,
		SuccessURL: baseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  baseURL + "/",
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session creation failed",
			logger.UserID(userID),
			logger.Plan(tier.String()),
			logger.Error(err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "checkout session created",
		logger.UserID(userID),
		logger.Plan(tier.String()),
		slog.String("session_id", session.SessionID),
	)
	return session, nil
}
