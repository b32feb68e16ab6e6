package models

import (
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
)

// Member is a gym member tracked by a (non-admin) account holder.
type Member struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	Duration  int       `json:"duration" db:"duration"` // days
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// These fields are not in the DB, but are populated by our
	// handlers for the member list view.
	Status         policy.MembershipStanding `json:"status,omitempty" db:"-"`
	DaysRemaining  int                       `json:"daysRemaining" db:"-"`
	RenewalHistory []RenewalHistory          `json:"renewalHistory,omitempty" db:"-"`
}

// RenewalHistory is one entry in a member's append-only renewal log.
// Entries are never updated or deleted.
type RenewalHistory struct {
	ID              string     `json:"id" db:"id"`
	MemberID        string     `json:"memberId" db:"member_id"`
	Duration        int        `json:"duration" db:"duration"` // days
	Price           float64    `json:"price" db:"price"`
	PreviousEndDate *time.Time `json:"previousEndDate,omitempty" db:"previous_end_date"`
	NewEndDate      time.Time  `json:"newEndDate" db:"new_end_date"`
	RenewalDate     time.Time  `json:"renewalDate" db:"renewal_date"`
}
