package policy

import "time"

// SubscriptionStatus is the stored lifecycle state of a user's subscription.
type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionRejected SubscriptionStatus = "rejected"
)

// RequestStatus is the state of a subscription or renewal request.
// A request leaves the pending queue the moment it is approved or rejected.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// SubscriptionOutcome is the full result of resolving a pending request.
// The caller is expected to apply the user-row fields and the request
// status together, inside a single transaction.
type SubscriptionOutcome struct {
	Status        SubscriptionStatus
	Verified      bool
	StartDate     time.Time // zero when rejected
	EndDate       time.Time // zero when rejected
	RequestStatus RequestStatus
}

// ResolveSubscription decides what happens to a user when an admin
// approves or rejects their pending subscription request.
//
// Approved: the subscription becomes active starting at 'now' and runs
// for the plan's duration, and the user is marked verified.
// Rejected: the subscription is marked rejected and the user stays
// unverified. Either way the request leaves the pending queue.
func ResolveSubscription(plan PlanType, approved bool, now time.Time) SubscriptionOutcome {
	if !approved {
		return SubscriptionOutcome{
			Status:        SubscriptionRejected,
			Verified:      false,
			RequestStatus: RequestRejected,
		}
	}

	start := now
	end := start.AddDate(0, 0, PlanDuration(plan))

	return SubscriptionOutcome{
		Status:        SubscriptionActive,
		Verified:      true,
		StartDate:     start,
		EndDate:       end,
		RequestStatus: RequestApproved,
	}
}

// Period is a resolved renewal date range.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
}

// ResolveRenewal computes the new date range for a renewal of
// 'durationDays' starting at 'start'. Both the member-roster path and
// the account-level renewal path share this arithmetic: the end date
// is a plain calendar-day addition, with no time-of-day component.
func ResolveRenewal(start time.Time, durationDays int) (Period, error) {
	if durationDays <= 0 {
		return Period{}, ErrInvalidArgument
	}
	if start.IsZero() {
		return Period{}, ErrInvalidArgument
	}

	return Period{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, durationDays),
	}, nil
}
