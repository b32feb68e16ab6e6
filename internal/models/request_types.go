package models

import (
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
)

// SubscriptionRequest is a pending ask to activate a plan for a user.
// It is created when the user registers with a payment receipt and is
// consumed when an admin approves or rejects it.
//
// The user's name and email are denormalized onto the row so the admin
// queue can render without a join.
type SubscriptionRequest struct {
	ID             string               `json:"id" db:"id"`
	UserID         string               `json:"userId" db:"user_id"`
	UserName       string               `json:"userName" db:"user_name"`
	UserEmail      string               `json:"userEmail" db:"user_email"`
	PlanType       policy.PlanType      `json:"planType" db:"plan_type"`
	ReceiptImage   string               `json:"receiptImage" db:"receipt_image"`
	SubmissionDate time.Time            `json:"submissionDate" db:"submission_date"`
	ProcessedDate  *time.Time           `json:"processedDate,omitempty" db:"processed_date"`
	Status         policy.RequestStatus `json:"status" db:"status"`
	CreatedAt      time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time            `json:"updatedAt" db:"updated_at"`
}

// RenewalRequest is identical in shape to SubscriptionRequest but
// targets an already-active user, requesting an extension.
type RenewalRequest struct {
	ID             string               `json:"id" db:"id"`
	UserID         string               `json:"userId" db:"user_id"`
	UserName       string               `json:"userName" db:"user_name"`
	UserEmail      string               `json:"userEmail" db:"user_email"`
	PlanType       policy.PlanType      `json:"planType" db:"plan_type"`
	ReceiptImage   string               `json:"receiptImage" db:"receipt_image"`
	SubmissionDate time.Time            `json:"submissionDate" db:"submission_date"`
	ProcessedDate  *time.Time           `json:"processedDate,omitempty" db:"processed_date"`
	Status         policy.RequestStatus `json:"status" db:"status"`
	CreatedAt      time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time            `json:"updatedAt" db:"updated_at"`
}
