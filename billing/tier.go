package billing

import (
	"fmt"
	"strings"
)

// Tier identifies a subscription level.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierMedium  Tier = "medium"
	TierPremium Tier = "premium"
)

// Unlimited indicates no publish limit for a tier.
const Unlimited int64 = -1

// publishLimits maps each tier to the number of published posts it allows.
var publishLimits = map[Tier]int64{
	TierBasic:   3,
	TierMedium:  5,
	TierPremium: Unlimited,
}

// ParseTier normalizes and validates a plan name.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierBasic:
		return TierBasic, nil
	case TierMedium:
		return TierMedium, nil
	case TierPremium:
		return TierPremium, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
}

// IsPaid reports whether the tier is a paying subscription.
func (t Tier) IsPaid() bool {
	return t == TierMedium || t == TierPremium
}

// PublishLimit returns the number of posts the tier may publish,
// or Unlimited.
func (t Tier) PublishLimit() int64 {
	if limit, ok := publishLimits[t]; ok {
		return limit
	}
	return publishLimits[TierBasic]
}

func (t Tier) String() string {
	return string(t)
}
