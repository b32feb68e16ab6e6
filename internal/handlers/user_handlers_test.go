package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ali-linux-cloud/gym-tool-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users").
		WithArgs("jane@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO subscription_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{
		"name": "Jane",
		"email": "jane@example.com",
		"password": "secret1",
		"phoneNumber": "0123456789",
		"planType": "monthly",
		"receiptImage": "http://localhost:8080/uploads/r.png"
	}`
	w := performJSON(h.Register, "", "", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEmailTaken(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectRollback()

	body := `{
		"name": "Jane",
		"email": "jane@example.com",
		"password": "secret1",
		"phoneNumber": "0123456789",
		"planType": "monthly",
		"receiptImage": "http://localhost:8080/uploads/r.png"
	}`
	w := performJSON(h.Register, "", "", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	h, mock := newTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{"short password", `{"name":"J","email":"j@x.com","password":"abc","phoneNumber":"1","planType":"monthly","receiptImage":"u"}`},
		{"missing receipt", `{"name":"J","email":"j@x.com","password":"secret1","phoneNumber":"1","planType":"monthly"}`},
		{"bad plan", `{"name":"J","email":"j@x.com","password":"secret1","phoneNumber":"1","planType":"weekly","receiptImage":"u"}`},
		{"bad email", `{"name":"J","email":"nope","password":"secret1","phoneNumber":"1","planType":"monthly","receiptImage":"u"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(h.Register, "", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSignupsDisabled(t *testing.T) {
	h, mock := newTestHandlers(t)
	h.Cfg.SignupsDisabled = true

	body := `{
		"name": "Jane",
		"email": "jane@example.com",
		"password": "secret1",
		"phoneNumber": "0123456789",
		"planType": "monthly",
		"receiptImage": "http://localhost:8080/uploads/r.png"
	}`
	w := performJSON(h.Register, "", "", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "sign-ups are currently disabled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newTestHandlers(t)

	var password models.Password
	require.NoError(t, password.Set("the-right-password"))

	mock.ExpectQuery("SELECT id, password_hash FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).
			AddRow("user-1", password.Hash))

	w := performJSON(h.Login, "", "", `{"email":"jane@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Webhook-mirrored accounts have no local password and cannot log in
// with one.
func TestLoginWebhookAccountNoPassword(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id, password_hash FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).
			AddRow("user_2abc", nil))

	w := performJSON(h.Login, "", "", `{"email":"jane@example.com","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
