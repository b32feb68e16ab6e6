package main

import (
	"log"

	"github.com/ali-linux-cloud/gym-tool-api/internal/config"
	"github.com/ali-linux-cloud/gym-tool-api/internal/database"
	"github.com/ali-linux-cloud/gym-tool-api/internal/email"
	"github.com/ali-linux-cloud/gym-tool-api/internal/handlers"
	"github.com/ali-linux-cloud/gym-tool-api/internal/routes"
	"github.com/ali-linux-cloud/gym-tool-api/internal/scheduler"
)

func main() {
	// 1. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. --- Database Connection & Migrations ---
	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied")

	// 3. --- Application Setup ---
	// We inject all dependencies into the Handlers struct.
	app := &handlers.Handlers{
		DB:     db,
		Mailer: email.New(cfg.ResendAPIKey, cfg.EmailFrom),
		Cfg:    cfg,
	}

	// 4. --- Background Worker (Cron) ---
	// The digest job notifies account holders of memberships that
	// expire within the next 7 days.
	sched := scheduler.New()
	if err := sched.Start(cfg.DigestSchedule, app.RunExpiryDigest); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// 5. --- Router Setup ---
	router := routes.SetupRouter(app)

	// 6. --- Start Server ---
	log.Printf("Starting GymTool API server on %s...", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
