package billing

import "time"

// Action is a plan-gated operation.
type Action string

const (
	ActionPublishManual    Action = "publish_manual"
	ActionPublishAutomated Action = "publish_automated"
	ActionGenerateContent  Action = "generate_content"
)

// aiActions require a paying tier regardless of quota.
var aiActions = map[Action]bool{
	ActionPublishAutomated: true,
	ActionGenerateContent:  true,
}

// DenialReason explains why an action was denied.
type DenialReason string

const (
	ReasonUpgradeRequired DenialReason = "upgrade_required"
	ReasonPlanExpired     DenialReason = "plan_expired"
	ReasonLimitReached    DenialReason = "limit_reached"
)

// Decision is the outcome of a gate evaluation.
type Decision struct {
	Allowed bool
	Reason  DenialReason // empty when Allowed
}

var allow = Decision{Allowed: true}

func deny(reason DenialReason) Decision {
	return Decision{Reason: reason}
}

// Evaluate decides whether the plan record permits the action at the
// given instant. It is a pure function: it reads the record and never
// touches storage or the clock.
//
// Checks run in a fixed order so the most actionable denial wins:
// tier capability first, then expiry, then quota.
func Evaluate(rec PlanRecord, action Action, now time.Time) Decision {
	if aiActions[action] && !rec.Tier.IsPaid() {
		return deny(ReasonUpgradeRequired)
	}

	if rec.Tier.IsPaid() && rec.Expired(now) {
		return deny(ReasonPlanExpired)
	}

	switch action {
	case ActionPublishManual, ActionPublishAutomated:
		limit := rec.Tier.PublishLimit()
		if limit != Unlimited && rec.PublishedCount >= limit {
			return deny(ReasonLimitReached)
		}
	}

	return allow
}
