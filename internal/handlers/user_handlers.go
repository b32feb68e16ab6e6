package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/auth"
	"github.com/ali-linux-cloud/gym-tool-api/internal/models"
	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- User Registration & Login ---
//

// RegisterUserInput is the *input* from the user. It is separate from
// 'models.User' because we don't accept an 'id' or a status from the
// outside. The receipt image is the URL returned by the upload
// endpoint; registration is rejected without one.
type RegisterUserInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	PhoneNumber  string `json:"phoneNumber" binding:"required"`
	PlanType     string `json:"planType" binding:"required,oneof=monthly yearly lifetime"`
	ReceiptImage string `json:"receiptImage" binding:"required"`
}

// Register is the handler for POST /v1/register.
// It creates the account in 'pending' state and queues a subscription
// request carrying the payment receipt, in a single transaction.
func (h *Handlers) Register(c *gin.Context) {
	// 0. --- Signups Switch ---
	if h.Cfg.SignupsDisabled {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "New sign-ups are currently disabled. Please contact the administrator.",
		})
		return
	}

	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 4. --- Check for Existing Email ---
	var existing string
	err = tx.QueryRow("SELECT id FROM users WHERE email = ?", input.Email).Scan(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}
	if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking email"})
		return
	}

	// 5. --- Insert User (pending) ---
	userID := uuid.New().String()
	now := time.Now()

	userQuery := `
		INSERT INTO users
		(id, email, name, password_hash, phone_number, is_admin, is_verified,
		 subscription_status, plan_type, receipt_image, submission_date,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, 'pending', ?, ?, ?, ?, ?)`

	_, err = tx.Exec(userQuery,
		userID, input.Email, input.Name, password.Hash, input.PhoneNumber,
		input.PlanType, input.ReceiptImage, now, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// 6. --- Queue the Subscription Request ---
	reqQuery := `
		INSERT INTO subscription_requests
		(id, user_id, user_name, user_email, plan_type, receipt_image,
		 submission_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?)`

	_, err = tx.Exec(reqQuery,
		uuid.New().String(), userID, input.Name, input.Email,
		input.PlanType, input.ReceiptImage, now, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription request"})
		return
	}

	// 7. --- Commit Transaction ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// 8. --- Issue Token & Respond ---
	// Pending users can sign in; they see the "awaiting approval" view
	// until an admin processes their request.
	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.Mailer.SendRequestReceived(input.Email, input.Name)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully, pending approval.",
		"token":   token,
		"userId":  userID,
	})
}

// LoginInput defines the JSON for the login endpoint
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Look Up User ---
	var userID string
	var passwordHash sql.NullString
	query := "SELECT id, password_hash FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(&userID, &passwordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a bad password, to avoid leaking which
			// emails have accounts.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login"})
		return
	}

	// Accounts mirrored in by the webhook have no local password.
	if !passwordHash.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 3. --- Compare Password ---
	password := models.Password{Hash: passwordHash.String}
	matches, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 4. --- Issue Token ---
	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "userId": userID})
}

// GetMe is the handler for GET /v1/me
// It returns the caller's account row plus the view-time standing
// derived from the stored end date (never persisted).
func (h *Handlers) GetMe(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)

	var user models.User
	query := `
		SELECT id, email, name, phone_number, is_admin, is_verified,
		       subscription_status, subscription_start_date, subscription_end_date,
		       plan_type, receipt_image, submission_date, created_at, updated_at
		FROM users WHERE id = ?`

	var phone sql.NullString
	err := h.DB.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Name, &phone, &user.IsAdmin, &user.IsVerified,
		&user.SubscriptionStatus, &user.SubscriptionStartDate, &user.SubscriptionEndDate,
		&user.PlanType, &user.ReceiptImage, &user.SubmissionDate,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	user.PhoneNumber = phone.String

	resp := gin.H{"user": user}
	if user.SubscriptionStatus == policy.SubscriptionActive && user.SubscriptionEndDate != nil {
		resp["standing"] = policy.DeriveStanding(*user.SubscriptionEndDate, time.Now())
		resp["daysRemaining"] = policy.DaysRemaining(*user.SubscriptionEndDate, time.Now())
	}

	c.JSON(http.StatusOK, resp)
}
