package handlers

import (
	"database/sql"

	"github.com/ali-linux-cloud/gym-tool-api/internal/config"
	"github.com/ali-linux-cloud/gym-tool-api/internal/email"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB     *sql.DB        // Primary Read/Write connection
	Mailer *email.Service // Transactional email (best-effort, post-commit)
	Cfg    config.App
}
