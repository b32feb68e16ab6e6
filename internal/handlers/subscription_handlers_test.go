package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSubscriptionRequestApprove(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_name", "user_email", "plan_type", "status"},
		).AddRow("req-1", "user-1", "Jane", "jane@example.com", "monthly", "pending"))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE subscription_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := performJSON(h.ProcessSubscriptionRequest, "admin-1", "req-1", `{"action": "approve"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "approved successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessSubscriptionRequestReject(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_name", "user_email", "plan_type", "status"},
		).AddRow("req-1", "user-1", "Jane", "jane@example.com", "yearly", "pending"))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE subscription_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := performJSON(h.ProcessSubscriptionRequest, "admin-1", "req-1", `{"action": "reject"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "rejected successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A decision on an already-processed request must fail with Conflict
// and roll back without touching the user row.
func TestProcessSubscriptionRequestAlreadyProcessed(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_name", "user_email", "plan_type", "status"},
		).AddRow("req-1", "user-1", "Jane", "jane@example.com", "monthly", "approved"))
	mock.ExpectRollback()

	w := performJSON(h.ProcessSubscriptionRequest, "admin-1", "req-1", `{"action": "approve"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessSubscriptionRequestNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("req-404").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	w := performJSON(h.ProcessSubscriptionRequest, "admin-1", "req-404", `{"action": "approve"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessSubscriptionRequestBadAction(t *testing.T) {
	h, mock := newTestHandlers(t)

	w := performJSON(h.ProcessSubscriptionRequest, "admin-1", "req-1", `{"action": "maybe"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessRenewalRequestReject(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("ren-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_name", "user_email", "plan_type", "status"},
		).AddRow("ren-1", "user-1", "Jane", "jane@example.com", "monthly", "pending"))
	// Rejection only marks the request; the user row stays untouched.
	mock.ExpectExec("UPDATE renewal_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := performJSON(h.ProcessRenewalRequest, "admin-1", "ren-1", `{"action": "reject"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessRenewalRequestApprove(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, user_name, user_email, plan_type, status").
		WithArgs("ren-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_name", "user_email", "plan_type", "status"},
		).AddRow("ren-1", "user-1", "Jane", "jane@example.com", "yearly", "pending"))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE renewal_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := performJSON(h.ProcessRenewalRequest, "admin-1", "ren-1", `{"action": "approve"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
