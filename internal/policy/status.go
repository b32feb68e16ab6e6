package policy

import (
	"math"
	"time"
)

// MembershipStanding is the view-time classification of a membership.
// It is recomputed from the stored end date on every read and is
// never written back to storage.
type MembershipStanding string

const (
	StandingActive     MembershipStanding = "active"
	StandingEndingSoon MembershipStanding = "ending-soon"
	StandingExpired    MembershipStanding = "expired"
)

// endingSoonWindow is how many days before expiry a membership is
// flagged as ending soon.
const endingSoonWindow = 7

// DaysRemaining returns the number of days left until 'end', rounded
// up. Zero or negative means the membership has expired. The result is
// monotonic in 'now': moving time forward never increases it.
func DaysRemaining(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// DeriveStanding classifies a membership from its stored end date.
func DeriveStanding(end, now time.Time) MembershipStanding {
	days := DaysRemaining(end, now)
	switch {
	case days <= 0:
		return StandingExpired
	case days <= endingSoonWindow:
		return StandingEndingSoon
	default:
		return StandingActive
	}
}
