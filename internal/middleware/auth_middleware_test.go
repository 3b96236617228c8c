package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func signTestToken(t *testing.T, secret, accountID, username, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"account_id": accountID,
		"username":   username,
		"role":       role,
		"exp":        time.Now().Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	accountID := uuid.New().String()

	t.Run("bearer token sets identity on the context", func(t *testing.T) {
		var gotAccountID, gotRole string
		r := gin.New()
		r.GET("/protected", middleware.AuthMiddleware(), func(c *gin.Context) {
			gotAccountID = c.GetString("account_id")
			gotRole = c.GetString("role")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", accountID, "emp1", "EMPLOYEE"))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, accountID, gotAccountID)
		assert.Equal(t, "EMPLOYEE", gotRole)
	})

	t.Run("cookie token is accepted", func(t *testing.T) {
		r := gin.New()
		r.GET("/protected", middleware.AuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{
			Name:  "access_token",
			Value: signTestToken(t, "test-secret", accountID, "emp1", "EMPLOYEE"),
		})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("request logger carries the caller id after auth", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		base := zap.New(core)

		r := gin.New()
		r.GET("/protected",
			middleware.ContextLogger(base),
			middleware.AuthMiddleware(),
			func(c *gin.Context) {
				contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
				c.Status(http.StatusOK)
			},
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", accountID, "emp1", "EMPLOYEE"))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		entries := logs.All()
		if assert.Len(t, entries, 1) {
			fields := entries[0].ContextMap()
			assert.Equal(t, accountID, fields["account_id"])
			assert.NotEmpty(t, fields["request_id"])
		}
	})

	t.Run("negative missing token", func(t *testing.T) {
		r := gin.New()
		r.GET("/protected", middleware.AuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative token signed with other secret", func(t *testing.T) {
		r := gin.New()
		r.GET("/protected", middleware.AuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", accountID, "emp1", "EMPLOYEE"))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
