package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/models"
	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Subscription Request Handlers ---
//

// GetSubscriptionRequests is the handler for GET /v1/admin/subscription-requests
// It retrieves the pending queue for admins to review, newest first.
func (h *Handlers) GetSubscriptionRequests(c *gin.Context) {
	// 1. --- Query Database ---
	query := `
		SELECT id, user_id, user_name, user_email, plan_type, receipt_image,
		       submission_date, status
		FROM subscription_requests
		WHERE status = 'pending'
		ORDER BY submission_date DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	// 2. --- Scan Rows ---
	var requests []*models.SubscriptionRequest
	for rows.Next() {
		var req models.SubscriptionRequest
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
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan subscription request"})
			return
		}
		requests = append(requests, &req)
	}

	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	// 3. --- Send Response ---
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
	})
}

// ProcessRequestInput defines the JSON for approving/rejecting a request
type ProcessRequestInput struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// ProcessSubscriptionRequest is the handler for
// PATCH /v1/admin/subscription-requests/:id
//
// The whole transition runs in one transaction: the request row is
// locked and checked, the user row is updated from the policy outcome,
// and the request leaves the pending queue. A reader can never see one
// half without the other, and a second approval attempt gets a 409.
func (h *Handlers) ProcessSubscriptionRequest(c *gin.Context) {
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

	// 3. --- Get Request Details ---
	// We must lock the row and check its status
	var req models.SubscriptionRequest
	query := `
		SELECT id, user_id, user_name, user_email, plan_type, status
		FROM subscription_requests WHERE id = ? FOR UPDATE`
	err = tx.QueryRow(query, requestID).Scan(
		&req.ID, &req.UserID, &req.UserName, &req.UserEmail, &req.PlanType, &req.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get request details"})
		return
	}

	if req.Status != policy.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "This request has already been processed"})
		return
	}

	// 4. --- Resolve & Apply the Transition ---
	now := time.Now()
	outcome := policy.ResolveSubscription(req.PlanType, approved, now)

	var userQuery string
	var userArgs []interface{}
	if approved {
		userQuery = `
			UPDATE users
			SET subscription_status = ?, is_verified = 1,
			    subscription_start_date = ?, subscription_end_date = ?,
			    plan_type = ?, updated_at = ?
			WHERE id = ?`
		userArgs = []interface{}{
			outcome.Status, outcome.StartDate, outcome.EndDate,
			req.PlanType, now, req.UserID,
		}
	} else {
		userQuery = `
			UPDATE users
			SET subscription_status = ?, is_verified = 0, updated_at = ?
			WHERE id = ?`
		userArgs = []interface{}{outcome.Status, now, req.UserID}
	}

	result, err := tx.Exec(userQuery, userArgs...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user subscription"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User for this request no longer exists"})
		return
	}

	// 5. --- Remove From the Pending Queue ---
	reqUpdate := `
		UPDATE subscription_requests
		SET status = ?, processed_date = ?, updated_at = ?
		WHERE id = ?`
	if _, err := tx.Exec(reqUpdate, outcome.RequestStatus, now, now, requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request status"})
		return
	}

	// 6. --- Notify the User ---
	var message string
	if approved {
		message = fmt.Sprintf("Your subscription was approved and is active until %s.",
			outcome.EndDate.Format("2 Jan 2006"))
	} else {
		message = "Your subscription request was rejected. Please submit a new request."
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

	// 8. --- Email (best-effort, after commit) & Respond ---
	if approved {
		h.Mailer.SendApproved(req.UserEmail, req.UserName, outcome.EndDate)
	} else {
		h.Mailer.SendRejected(req.UserEmail, req.UserName)
	}

	decision := "rejected"
	if approved {
		decision = "approved"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Subscription request %s successfully", decision),
	})
}

//
// --- Admin: Active Subscription List ---
//

// ActiveSubscriptionRow is one row of the admin's active/rejected tab.
type ActiveSubscriptionRow struct {
	models.User
	Standing      policy.MembershipStanding `json:"standing,omitempty"`
	DaysRemaining int                       `json:"daysRemaining,omitempty"`
}

// GetSubscribers is the handler for GET /v1/admin/subscribers?status=...
// It lists users by stored subscription status; for active users the
// remaining days and standing are derived at read time.
func (h *Handlers) GetSubscribers(c *gin.Context) {
	status := c.DefaultQuery("status", "active")
	switch policy.SubscriptionStatus(status) {
	case policy.SubscriptionPending, policy.SubscriptionActive,
		policy.SubscriptionExpired, policy.SubscriptionRejected:
		// ok
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	query := `
		SELECT id, email, name, is_verified, subscription_status,
		       subscription_start_date, subscription_end_date, plan_type,
		       submission_date
		FROM users
		WHERE subscription_status = ? AND is_admin = 0
		ORDER BY submission_date DESC`

	rows, err := h.DB.Query(query, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	now := time.Now()
	var subscribers []*ActiveSubscriptionRow
	for rows.Next() {
		var row ActiveSubscriptionRow
		if err := rows.Scan(
			&row.ID, &row.Email, &row.Name, &row.IsVerified, &row.SubscriptionStatus,
			&row.SubscriptionStartDate, &row.SubscriptionEndDate, &row.PlanType,
			&row.SubmissionDate,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan subscriber row"})
			return
		}
		if row.SubscriptionEndDate != nil {
			row.Standing = policy.DeriveStanding(*row.SubscriptionEndDate, now)
			row.DaysRemaining = policy.DaysRemaining(*row.SubscriptionEndDate, now)
		}
		subscribers = append(subscribers, &row)
	}

	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}
