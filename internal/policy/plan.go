package policy

// PlanType determines how long an approved subscription or renewal runs.
type PlanType string

const (
	PlanMonthly  PlanType = "monthly"
	PlanYearly   PlanType = "yearly"
	PlanLifetime PlanType = "lifetime"
)

// planDurations maps each plan to its length in calendar days.
// "lifetime" is 100 years, which is effectively permanent.
var planDurations = map[PlanType]int{
	PlanMonthly:  30,
	PlanYearly:   365,
	PlanLifetime: 36500,
}

// PlanDuration returns the day-count for a plan type.
// Unknown values fall back to the monthly duration (30 days).
func PlanDuration(plan PlanType) int {
	if days, ok := planDurations[plan]; ok {
		return days
	}
	return planDurations[PlanMonthly]
}

// IsValidPlan reports whether the given plan is one of the known types.
func IsValidPlan(plan PlanType) bool {
	_, ok := planDurations[plan]
	return ok
}
