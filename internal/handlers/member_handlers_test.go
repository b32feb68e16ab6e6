package handlers

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ali-linux-cloud/gym-tool-api/internal/config"
	"github.com/ali-linux-cloud/gym-tool-api/internal/email"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Handlers{
		DB:     db,
		Mailer: email.New("", "test <test@example.com>"),
		Cfg:    config.App{},
	}, mock
}

// performJSON drives a handler with an authenticated user, a URL
// parameter and a JSON body.
func performJSON(handler gin.HandlerFunc, userID, paramID string, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", userID)
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}

	handler(c)
	return w
}

func TestRenewMember(t *testing.T) {
	h, mock := newTestHandlers(t)

	previousEnd := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT end_date FROM members").
		WithArgs("member-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"end_date"}).AddRow(previousEnd))
	mock.ExpectExec("INSERT INTO renewal_history").
		WithArgs(sqlmock.AnyArg(), "member-1", 90, 50.0,
			previousEnd, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE members").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"duration": 90, "price": 50, "startDate": "2024-06-01"}`
	w := performJSON(h.RenewMember, "user-1", "member-1", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// 2024-06-01 + 90 days = 2024-08-30
	assert.Contains(t, w.Body.String(), `"endDate":"2024-08-30"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewMemberInvalidDuration(t *testing.T) {
	h, mock := newTestHandlers(t)

	body := `{"duration": -5, "price": 50, "startDate": "2024-06-01"}`
	w := performJSON(h.RenewMember, "user-1", "member-1", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The member row must be left untouched.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewMemberBadStartDate(t *testing.T) {
	h, mock := newTestHandlers(t)

	body := `{"duration": 30, "price": 50, "startDate": "June 1st"}`
	w := performJSON(h.RenewMember, "user-1", "member-1", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewMemberNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT end_date FROM members").
		WithArgs("member-404", "user-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	body := `{"duration": 30, "price": 50, "startDate": "2024-06-01"}`
	w := performJSON(h.RenewMember, "user-1", "member-404", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMember(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("INSERT INTO members").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"name": "Sam Lee", "phone": "0123456789", "startDate": "2024-01-01", "duration": 30, "price": 25}`
	w := performJSON(h.CreateMember, "user-1", "", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	// 2024-01-01 + 30 days = 2024-01-31
	assert.Contains(t, w.Body.String(), "2024-01-31")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMemberNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("DELETE FROM members").
		WithArgs("member-404", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Set("userID", "user-1")
	c.Params = gin.Params{{Key: "id", Value: "member-404"}}

	h.DeleteMember(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
