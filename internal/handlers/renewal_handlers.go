package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/models"
	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Renewal Request Handlers ---
//

// SubmitRenewalInput defines the JSON for a user's renewal submission
type SubmitRenewalInput struct {
	PlanType     string `json:"planType" binding:"required,oneof=monthly yearly lifetime"`
	ReceiptImage string `json:"receiptImage" binding:"required"`
}

// SubmitRenewalRequest is the handler for POST /v1/renewal-requests
// Only users with an active subscription can ask for an extension, and
// only one renewal request may be pending at a time.
func (h *Handlers) SubmitRenewalRequest(c *gin.Context) {
	// 1. --- Get User ID & Bind Input ---
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)

	var input SubmitRenewalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Begin Transaction ---
	// The status check, the pending-duplicate check and the insert
	// must see a consistent view.
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 3. --- Check the User Is Active ---
	var name, email string
	var status policy.SubscriptionStatus
	query := "SELECT name, email, subscription_status FROM users WHERE id = ? FOR UPDATE"
	err = tx.QueryRow(query, userID).Scan(&name, &email, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	if status != policy.SubscriptionActive {
		c.JSON(http.StatusConflict, gin.H{"error": "Only active subscriptions can be renewed"})
		return
	}

	// 4. --- Enforce One Pending Request Per User ---
	var pendingID string
	err = tx.QueryRow(
		"SELECT id FROM renewal_requests WHERE user_id = ? AND status = 'pending'",
		userID,
	).Scan(&pendingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a pending renewal request"})
		return
	}
	if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking pending requests"})
		return
	}

	// 5. --- Insert the Request ---
	now := time.Now()
	insert := `
		INSERT INTO renewal_requests
		(id, user_id, user_name, user_email, plan_type, receipt_image,
		 submission_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?)`

	_, err = tx.Exec(insert,
		uuid.New().String(), userID, name, email,
		input.PlanType, input.ReceiptImage, now, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create renewal request"})
		return
	}

	// 6. --- Commit & Respond ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	h.Mailer.SendRequestReceived(email, name)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Renewal request submitted successfully, pending review.",
	})
}

// GetRenewalRequests is the handler for GET /v1/admin/renewal-requests
// It retrieves the pending renewal queue, newest first.
func (h *Handlers) GetRenewalRequests(c *gin.Context) {
	query := `
		SELECT id, user_id, user_name, user_email, plan_type, receipt_image,
		       submission_date, status
		FROM renewal_requests
		WHERE status = 'pending'
		ORDER BY submission_date DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var requests []*models.RenewalRequest
	for rows.Next() {
		var req models.RenewalRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.UserName,
			&req.UserEmail,
			&req.PlanType,
			&req.ReceiptImage,
			&req.SubmissionDate,
			&req.Status,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan renewal request"})
			return
		}
		requests = append(requests, &req)
	}

	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
	})
}

// ProcessRenewalRequest is the handler for
// PATCH /v1/admin/renewal-requests/:id
//
// On approval the new period starts now and runs for the plan's
// duration, the same arithmetic as first-time activation. On
// rejection the user keeps their current subscription untouched.
// Either way the request leaves the pending queue, atomically.
func (h *Handlers) ProcessRenewalRequest(c *gin.Context) {
	// 1. --- Get IDs & Bind Input ---
	requestID := c.Param("id")

	var input ProcessRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	approved := input.Action == "approve"

	// 2. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 3. --- Get Request Details (locked) ---
	var req models.RenewalRequest
	query := `
		SELECT id, user_id, user_name, user_email, plan_type, status
		FROM renewal_requests WHERE id = ? FOR UPDATE`
	err = tx.QueryRow(query, requestID).Scan(
		&req.ID, &req.UserID, &req.UserName, &req.UserEmail, &req.PlanType, &req.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Renewal request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get request details"})
		return
	}

	if req.Status != policy.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "This request has already been processed"})
		return
	}

	// 4. --- Apply the Decision ---
	now := time.Now()
	var period policy.Period
	var requestStatus policy.RequestStatus

	if approved {
		period, err = policy.ResolveRenewal(now, policy.PlanDuration(req.PlanType))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve renewal period"})
			return
		}
		requestStatus = policy.RequestApproved

		userUpdate := `
			UPDATE users
			SET subscription_status = 'active',
			    subscription_start_date = ?, subscription_end_date = ?,
			    plan_type = ?, updated_at = ?
			WHERE id = ?`
		result, err := tx.Exec(userUpdate,
			period.StartDate, period.EndDate, req.PlanType, now, req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user subscription"})
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User for this request no longer exists"})
			return
		}
	} else {
		requestStatus = policy.RequestRejected
	}

	// 5. --- Remove From the Pending Queue ---
	reqUpdate := `
		UPDATE renewal_requests
		SET status = ?, processed_date = ?, updated_at = ?
		WHERE id = ?`
	if _, err := tx.Exec(reqUpdate, requestStatus, now, now, requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request status"})
		return
	}

	// 6. --- Notify the User ---
	var message string
	if approved {
		message = fmt.Sprintf("Your renewal was approved. Your subscription now runs until %s.",
			period.EndDate.Format("2 Jan 2006"))
	} else {
		message = "Your renewal request was rejected. Please submit a new request."
	}
	if err := h.AddNotification(tx, req.UserID, message, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add notification"})
		return
	}

	// 7. --- Commit Transaction ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// 8. --- Email & Respond ---
	if approved {
		h.Mailer.SendApproved(req.UserEmail, req.UserName, period.EndDate)
	} else {
		h.Mailer.SendRejected(req.UserEmail, req.UserName)
	}

	decision := "rejected"
	if approved {
		decision = "approved"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Renewal request %s successfully", decision),
	})
}
