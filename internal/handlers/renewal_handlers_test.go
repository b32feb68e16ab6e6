package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRenewalRequest(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, email, subscription_status FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "subscription_status"}).
			AddRow("Jane", "jane@example.com", "active"))
	mock.ExpectQuery("SELECT id FROM renewal_requests").
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO renewal_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"planType": "monthly", "receiptImage": "http://localhost:8080/uploads/r.png"}`
	w := performJSON(h.SubmitRenewalRequest, "user-1", "", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Only one renewal request may be pending per user.
func TestSubmitRenewalRequestDuplicatePending(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, email, subscription_status FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "subscription_status"}).
			AddRow("Jane", "jane@example.com", "active"))
	mock.ExpectQuery("SELECT id FROM renewal_requests").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ren-0"))
	mock.ExpectRollback()

	body := `{"planType": "monthly", "receiptImage": "http://localhost:8080/uploads/r.png"}`
	w := performJSON(h.SubmitRenewalRequest, "user-1", "", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRenewalRequestNotActive(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, email, subscription_status FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "subscription_status"}).
			AddRow("Jane", "jane@example.com", "pending"))
	mock.ExpectRollback()

	body := `{"planType": "yearly", "receiptImage": "http://localhost:8080/uploads/r.png"}`
	w := performJSON(h.SubmitRenewalRequest, "user-1", "", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRenewalRequestBadPlan(t *testing.T) {
	h, mock := newTestHandlers(t)

	body := `{"planType": "weekly", "receiptImage": "http://localhost:8080/uploads/r.png"}`
	w := performJSON(h.SubmitRenewalRequest, "user-1", "", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
