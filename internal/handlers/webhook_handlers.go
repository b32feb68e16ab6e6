package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

//
// --- Identity Provider Webhook ---
//
// The identity provider mirrors account lifecycle events into our
// users table. Payloads are signed with a shared secret using the
// svix scheme (svix-id, svix-timestamp, svix-signature headers); a
// request that fails verification is rejected before any storage
// access.
//

// AccountEvent is the verified webhook payload. Loosely-typed fields
// from the provider are decoded into this struct and the required
// fields checked before anything is trusted.
type AccountEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
	} `json:"data"`
}

// primaryEmail returns the first email on the event, or "".
func (e *AccountEvent) primaryEmail() string {
	if len(e.Data.EmailAddresses) == 0 {
		return ""
	}
	return e.Data.EmailAddresses[0].EmailAddress
}

// displayName prefers the username, then the first name.
func (e *AccountEvent) displayName() string {
	if e.Data.Username != nil && *e.Data.Username != "" {
		return *e.Data.Username
	}
	if e.Data.FirstName != nil {
		return *e.Data.FirstName
	}
	return ""
}

// HandleAccountWebhook is the handler for POST /v1/webhooks/accounts
//
// Contract: 400 if signature headers are missing or verification
// fails; 200 only after the corresponding storage write succeeds; a
// delete for an unknown account is idempotent and still returns 200.
func (h *Handlers) HandleAccountWebhook(c *gin.Context) {
	// 1. --- Require the Signature Headers ---
	// Reject before reading anything else; no storage is touched on
	// this path.
	for _, header := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
		if c.GetHeader(header) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing webhook signature headers"})
			return
		}
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	// 2. --- Verify the Signature ---
	wh, err := svix.NewWebhook(h.Cfg.WebhookSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret is not configured"})
		return
	}
	if err := wh.Verify(payload, c.Request.Header); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	// 3. --- Decode & Validate the Payload ---
	var event AccountEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return
	}
	if event.Data.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is missing the account id"})
		return
	}

	// 4. --- Apply the Event ---
	now := time.Now()
	switch event.Type {
	case "account.created":
		email := event.primaryEmail()
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is missing the email address"})
			return
		}
		query := `
			INSERT INTO users
			(id, email, name, is_admin, is_verified, subscription_status,
			 plan_type, submission_date, created_at, updated_at)
			VALUES (?, ?, ?, 0, 0, 'pending', 'monthly', ?, ?, ?)`
		if _, err := h.DB.Exec(query, event.Data.ID, email, event.displayName(), now, now, now); err != nil {
			log.Printf("webhook: failed to insert user %s: %v", event.Data.ID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create user"})
			return
		}

	case "account.updated":
		email := event.primaryEmail()
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is missing the email address"})
			return
		}
		query := "UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?"
		if _, err := h.DB.Exec(query, email, event.displayName(), now, event.Data.ID); err != nil {
			log.Printf("webhook: failed to update user %s: %v", event.Data.ID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update user"})
			return
		}

	case "account.deleted":
		// Idempotent: deleting an account we never mirrored affects
		// zero rows and is still a success.
		if _, err := h.DB.Exec("DELETE FROM users WHERE id = ?", event.Data.ID); err != nil {
			log.Printf("webhook: failed to delete user %s: %v", event.Data.ID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete user"})
			return
		}

	default:
		// Unknown event types are acknowledged and skipped so the
		// provider does not retry them forever.
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}
