package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Role-Based Middleware ---
//
// AdminMiddleware is designed to be used *after* AuthMiddleware. It
// reads the 'userID' from the context, queries the DB for the
// account's admin flag, and blocks non-admins.
//

// AdminMiddleware takes the DB connection as an argument and returns
// the gin.HandlerFunc.
func AdminMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get userID from AuthMiddleware
		userIDRaw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		userID := userIDRaw.(string)

		// 2. Query DB for the admin flag
		var isAdmin bool
		err := db.QueryRow("SELECT is_admin FROM users WHERE id = ?", userID).Scan(&isAdmin)
		if err != nil {
			if err == sql.ErrNoRows {
				// Use a generic error to avoid exposing user existence
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			}
			c.Abort()
			return
		}

		// 3. Check permission
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Admin role required"})
			c.Abort()
			return
		}

		// 4. Success! Proceed.
		c.Next()
	}
}
