package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveSubscriptionApproved(t *testing.T) {
	now := date(2024, time.January, 1)

	got := ResolveSubscription(PlanMonthly, true, now)

	assert.Equal(t, SubscriptionActive, got.Status)
	assert.True(t, got.Verified)
	assert.Equal(t, RequestApproved, got.RequestStatus)
	assert.Equal(t, date(2024, time.January, 1), got.StartDate)
	assert.Equal(t, date(2024, time.January, 31), got.EndDate)
}

func TestResolveSubscriptionApprovedLifetime(t *testing.T) {
	now := date(2024, time.January, 1)

	got := ResolveSubscription(PlanLifetime, true, now)

	assert.Equal(t, SubscriptionActive, got.Status)
	// 36500 days is roughly a century out.
	assert.Equal(t, now.AddDate(0, 0, 36500), got.EndDate)
	assert.True(t, got.EndDate.After(date(2123, time.December, 1)))
}

func TestResolveSubscriptionRejected(t *testing.T) {
	got := ResolveSubscription(PlanYearly, false, date(2024, time.June, 15))

	assert.Equal(t, SubscriptionRejected, got.Status)
	assert.False(t, got.Verified)
	assert.Equal(t, RequestRejected, got.RequestStatus)
	assert.True(t, got.StartDate.IsZero())
	assert.True(t, got.EndDate.IsZero())
}

func TestResolveRenewal(t *testing.T) {
	period, err := ResolveRenewal(date(2024, time.June, 1), 90)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.June, 1), period.StartDate)
	assert.Equal(t, date(2024, time.August, 30), period.EndDate)
}

func TestResolveRenewalInvalidDuration(t *testing.T) {
	for _, d := range []int{0, -1, -30} {
		_, err := ResolveRenewal(date(2024, time.June, 1), d)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "duration %d must be rejected", d)
	}
}

func TestResolveRenewalZeroStart(t *testing.T) {
	_, err := ResolveRenewal(time.Time{}, 30)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
