package billing

import "time"

// PlanRecord is a user's current subscription state. Users without a
// stored record are on the basic tier with a zero counter.
type PlanRecord struct {
	UserID         string
	Tier           Tier
	Expiry         *time.Time // nil means expiry is not enforced
	PublishedCount int64
}

// Expired reports whether the record's expiry has passed at the given
// instant. Records without an expiry never expire.
func (r PlanRecord) Expired(now time.Time) bool {
	return r.Expiry != nil && now.After(*r.Expiry)
}
