package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ali-linux-cloud/gym-tool-api/internal/models"
	"github.com/ali-linux-cloud/gym-tool-api/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// dateLayout is how calendar dates travel in request bodies.
// Dates are compared and stored as calendar dates, with no
// time-of-day component.
const dateLayout = "2006-01-02"

//
// --- Member Roster Handlers ---
//
// Members belong to the account that created them; every query below
// is scoped by user_id so one account can never touch another's
// roster.
//

// GetMembers is the handler for GET /v1/members
// It returns the caller's roster with each member's renewal history
// and the standing derived from the stored end date.
func (h *Handlers) GetMembers(c *gin.Context) {
	// 1. --- Get User ID ---
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)

	// 2. --- Query Members ---
	query := `
		SELECT id, user_id, name, phone, start_date, end_date, duration, price,
		       created_at, updated_at
		FROM members
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	now := time.Now()
	var members []*models.Member
	byID := make(map[string]*models.Member)

	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.Phone, &m.StartDate, &m.EndDate,
			&m.Duration, &m.Price, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan member row"})
			return
		}
		m.Status = policy.DeriveStanding(m.EndDate, now)
		m.DaysRemaining = policy.DaysRemaining(m.EndDate, now)
		members = append(members, &m)
		byID[m.ID] = members[len(members)-1]
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating member rows"})
		return
	}

	// 3. --- Attach Renewal History ---
	// One query for the whole roster, grouped in memory.
	historyQuery := `
		SELECT rh.id, rh.member_id, rh.duration, rh.price,
		       rh.previous_end_date, rh.new_end_date, rh.renewal_date
		FROM renewal_history rh
		JOIN members m ON rh.member_id = m.id
		WHERE m.user_id = ?
		ORDER BY rh.renewal_date DESC`

	hRows, err := h.DB.Query(historyQuery, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query renewal history"})
		return
	}
	defer hRows.Close()

	for hRows.Next() {
		var entry models.RenewalHistory
		if err := hRows.Scan(
			&entry.ID, &entry.MemberID, &entry.Duration, &entry.Price,
			&entry.PreviousEndDate, &entry.NewEndDate, &entry.RenewalDate,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan renewal history row"})
			return
		}
		if m, ok := byID[entry.MemberID]; ok {
			m.RenewalHistory = append(m.RenewalHistory, entry)
		}
	}
	if err = hRows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating history rows"})
		return
	}

	// 4. --- Send Response ---
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// MemberInput defines the JSON for creating or updating a member
type MemberInput struct {
	Name      string  `json:"name" binding:"required"`
	Phone     string  `json:"phone"`
	StartDate string  `json:"startDate" binding:"required"`
	Duration  int     `json:"duration" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"gte=0"`
}

// CreateMember is the handler for POST /v1/members
func (h *Handlers) CreateMember(c *gin.Context) {
	// 1. --- Get User ID & Bind Input ---
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)

	var input MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be in YYYY-MM-DD format"})
		return
	}

	// 2. --- Compute the Period ---
	period, err := policy.ResolveRenewal(start, input.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be a positive number of days"})
		return
	}

	// 3. --- Insert ---
	memberID := uuid.New().String()
	now := time.Now()
	query := `
		INSERT INTO members
		(id, user_id, name, phone, start_date, end_date, duration, price,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = h.DB.Exec(query,
		memberID, userID, input.Name, input.Phone,
		period.StartDate, period.EndDate, input.Duration, input.Price,
		now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	// 4. --- Send Response ---
	c.JSON(http.StatusCreated, gin.H{
		"member": models.Member{
			ID:        memberID,
			UserID:    userID,
			Name:      input.Name,
			Phone:     input.Phone,
			StartDate: period.StartDate,
			EndDate:   period.EndDate,
			Duration:  input.Duration,
			Price:     input.Price,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}

// UpdateMemberInput defines the JSON for editing a member's contact
// details. Dates move only through the renewal endpoint.
type UpdateMemberInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone"`
	Price float64 `json:"price" binding:"gte=0"`
}

// UpdateMember is the handler for PUT /v1/members/:id
func (h *Handlers) UpdateMember(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)
	memberID := c.Param("id")

	var input UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		UPDATE members
		SET name = ?, phone = ?, price = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := h.DB.Exec(query, input.Name, input.Phone, input.Price, time.Now(), memberID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member updated successfully"})
}

// DeleteMember is the handler for DELETE /v1/members/:id
// Renewal history rows go with the member (FK cascade).
func (h *Handlers) DeleteMember(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)
	memberID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM members WHERE id = ? AND user_id = ?", memberID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// RenewMemberInput defines the JSON for renewing a member
type RenewMemberInput struct {
	Duration  int     `json:"duration" binding:"required"`
	Price     float64 `json:"price" binding:"gte=0"`
	StartDate string  `json:"startDate" binding:"required"`
}

// RenewMember is the handler for POST /v1/members/:id/renew
//
// The member update and the history append happen in one transaction:
// a RenewalHistory entry with no matching member update (or the other
// way round) must never be observable.
func (h *Handlers) RenewMember(c *gin.Context) {
	// 1. --- Get IDs & Bind Input ---
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)
	memberID := c.Param("id")

	var input RenewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be in YYYY-MM-DD format"})
		return
	}

	// 2. --- Compute the New Period ---
	period, err := policy.ResolveRenewal(start, input.Duration)
	if err != nil {
		if errors.Is(err, policy.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be a positive number of days"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve renewal period"})
		return
	}

	// 3. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 4. --- Lock the Member & Capture the Prior Period ---
	var previousEnd time.Time
	query := "SELECT end_date FROM members WHERE id = ? AND user_id = ? FOR UPDATE"
	err = tx.QueryRow(query, memberID, userID).Scan(&previousEnd)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member"})
		return
	}

	now := time.Now()

	// 5. --- Append the History Entry ---
	historyInsert := `
		INSERT INTO renewal_history
		(id, member_id, duration, price, previous_end_date, new_end_date, renewal_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(historyInsert,
		uuid.New().String(), memberID, input.Duration, input.Price,
		previousEnd, period.EndDate, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record renewal history"})
		return
	}

	// 6. --- Update the Member ---
	memberUpdate := `
		UPDATE members
		SET start_date = ?, end_date = ?, duration = ?, price = ?, updated_at = ?
		WHERE id = ?`
	_, err = tx.Exec(memberUpdate,
		period.StartDate, period.EndDate, input.Duration, input.Price, now, memberID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	// 7. --- Commit Transaction ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// 8. --- Send Response ---
	c.JSON(http.StatusOK, gin.H{
		"message":   "Membership renewed successfully",
		"startDate": period.StartDate.Format(dateLayout),
		"endDate":   period.EndDate.Format(dateLayout),
	})
}

// GetRenewalHistory is the handler for GET /v1/members/:id/history
// The log is append-only; this endpoint is strictly read.
func (h *Handlers) GetRenewalHistory(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(string)
	memberID := c.Param("id")

	// Ownership check before exposing history.
	var owner string
	err := h.DB.QueryRow("SELECT user_id FROM members WHERE id = ?", memberID).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member"})
		return
	}
	if owner != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	query := `
		SELECT id, member_id, duration, price, previous_end_date, new_end_date, renewal_date
		FROM renewal_history
		WHERE member_id = ?
		ORDER BY renewal_date DESC`

	rows, err := h.DB.Query(query, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var history []models.RenewalHistory
	for rows.Next() {
		var entry models.RenewalHistory
		if err := rows.Scan(
			&entry.ID, &entry.MemberID, &entry.Duration, &entry.Price,
			&entry.PreviousEndDate, &entry.NewEndDate, &entry.RenewalDate,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan history row"})
			return
		}
		history = append(history, entry)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
