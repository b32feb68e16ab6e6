package routes

import (
	"net/http"

	"github.com/ali-linux-cloud/gym-tool-api/internal/handlers"
	"github.com/ali-linux-cloud/gym-tool-api/internal/metrics"
	"github.com/ali-linux-cloud/gym-tool-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CORSMiddleware tells the browser that it is safe for the configured
// frontend origin to send data to us.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Handle the "Preflight" OPTIONS request
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must be the very first thing the router uses
	router.Use(CORSMiddleware(h.Cfg.CORSOrigin))

	if h.Cfg.MetricsEnabled {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Uploaded receipt images are served statically
	router.Static("/uploads", "./uploads")

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// Receipt upload happens during registration, before the
		// account exists, so it stays public.
		v1.POST("/upload", h.UploadReceipt)

		// --- Identity Provider Webhook (signature-verified) ---
		v1.POST("/webhooks/accounts", h.HandleAccountWebhook)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/me", h.GetMe)

			// --- Renewal Submission ---
			auth.POST("/renewal-requests", h.SubmitRenewalRequest)

			// --- Notification Routes ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- Member Roster Routes ---
			auth.GET("/members", h.GetMembers)
			auth.POST("/members", h.CreateMember)
			auth.PUT("/members/:id", h.UpdateMember)
			auth.DELETE("/members/:id", h.DeleteMember)
			auth.POST("/members/:id/renew", h.RenewMember)
			auth.GET("/members/:id/history", h.GetRenewalHistory)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/subscription-requests", h.GetSubscriptionRequests)
			admin.PATCH("/subscription-requests/:id", h.ProcessSubscriptionRequest)

			admin.GET("/renewal-requests", h.GetRenewalRequests)
			admin.PATCH("/renewal-requests/:id", h.ProcessRenewalRequest)

			admin.GET("/subscribers", h.GetSubscribers)
			admin.GET("/dashboard-stats", h.GetAdminStats)
		}
	}

	return router
}
