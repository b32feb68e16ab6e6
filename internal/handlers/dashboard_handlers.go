package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard Stats ---
//

type AdminStats struct {
	PendingRequests int `json:"pendingRequests"`
	PendingRenewals int `json:"pendingRenewals"`
	ActiveUsers     int `json:"activeUsers"`
	RejectedUsers   int `json:"rejectedUsers"`
}

// GetAdminStats returns the tab counts for the admin dashboard
// GET /v1/admin/dashboard-stats
func (h *Handlers) GetAdminStats(c *gin.Context) {
	stats := AdminStats{}

	// 1. Pending subscription requests
	err := h.DB.QueryRow("SELECT COUNT(*) FROM subscription_requests WHERE status = 'pending'").Scan(&stats.PendingRequests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending requests"})
		return
	}

	// 2. Pending renewal requests
	err = h.DB.QueryRow("SELECT COUNT(*) FROM renewal_requests WHERE status = 'pending'").Scan(&stats.PendingRenewals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending renewals"})
		return
	}

	// 3. Active subscribers
	err = h.DB.QueryRow("SELECT COUNT(*) FROM users WHERE subscription_status = 'active' AND is_admin = 0").Scan(&stats.ActiveUsers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count active users"})
		return
	}

	// 4. Rejected subscribers
	err = h.DB.QueryRow("SELECT COUNT(*) FROM users WHERE subscription_status = 'rejected' AND is_admin = 0").Scan(&stats.RejectedUsers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count rejected users"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
