package models

import (
	"errors"
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
	"golang.org/x/crypto/bcrypt"
)

// User Model with Pointers for Nullable Fields
//
// A User is the local mirror of an identity-provider account plus its
// subscription state. Rows are created either by local registration or
// by the account webhook (account.created). Webhook-created accounts
// have no password hash until they set one.
//
// Invariant: subscription_status == 'active' implies both start and
// end dates are set, with start <= end.
type User struct {
	ID          string `json:"id" db:"id"`
	Email       string `json:"email" db:"email"`
	Name        string `json:"name" db:"name"`
	PhoneNumber string `json:"phoneNumber,omitempty" db:"phone_number"`
	IsAdmin     bool   `json:"isAdmin" db:"is_admin"`

	PasswordHash *string `json:"-" db:"password_hash"`

	// --- Subscription Fields ---
	IsVerified            bool                      `json:"isVerified" db:"is_verified"`
	SubscriptionStatus    policy.SubscriptionStatus `json:"subscriptionStatus" db:"subscription_status"`
	SubscriptionStartDate *time.Time                `json:"subscriptionStartDate,omitempty" db:"subscription_start_date"`
	SubscriptionEndDate   *time.Time                `json:"subscriptionEndDate,omitempty" db:"subscription_end_date"`
	PlanType              policy.PlanType           `json:"planType" db:"plan_type"`
	ReceiptImage          *string                   `json:"receiptImage,omitempty" db:"receipt_image"`
	SubmissionDate        time.Time                 `json:"submissionDate" db:"submission_date"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
