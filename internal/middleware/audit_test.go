package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/internal/repository"
)

func auditTestRouter(t *testing.T, status int) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := repository.NewUserRepository(sqlx.NewDb(db, "sqlmock"))

	r := gin.New()
	r.POST("/users",
		func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
		},
		Audit(repo, "create", "users"),
		func(c *gin.Context) {
			c.Status(status)
		},
	)
	return r, mock, func() { db.Close() }
}

func TestAuditRecordsSuccessfulRequest(t *testing.T) {
	r, mock, cleanup := auditTestRouter(t, http.StatusCreated)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req.Header.Set("User-Agent", "audit-test")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditSkipsFailedRequest(t *testing.T) {
	r, mock, cleanup := auditTestRouter(t, http.StatusBadRequest)
	defer cleanup()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// No insert expected when the handler fails.
	assert.NoError(t, mock.ExpectationsWereMet())
}
