package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leavedesk/internal/auth"
	autherrors "go-leavedesk/internal/auth/errors"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (string, string, auth.AuthResponse, error)
	refreshFn func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	meFn      func(ctx context.Context, accountID string) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, username, password)
}
func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) Me(ctx context.Context, accountID string) (auth.AuthResponse, error) {
	return f.meFn(ctx, accountID)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets session cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, username, password string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "emp1", username)
				assert.Equal(t, "emp123", password)
				return "access-token", "refresh-token", auth.AuthResponse{
					ID:       uuid.New().String(),
					Username: username,
					Role:     rbac.RoleEmployee,
				}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"username":"emp1","password":"emp123"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var data struct {
			AccessToken  string            `json:"access_token"`
			RefreshToken string            `json:"refresh_token"`
			Account      auth.AuthResponse `json:"account"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "access-token", data.AccessToken)
		assert.Equal(t, "refresh-token", data.RefreshToken)
		assert.Equal(t, "emp1", data.Account.Username)

		cookies := w.Result().Cookies()
		var sessionCookie *http.Cookie
		for _, ck := range cookies {
			if ck.Name == "access_token" {
				sessionCookie = ck
			}
		}
		if assert.NotNil(t, sessionCookie) {
			assert.Equal(t, "access-token", sessionCookie.Value)
			assert.True(t, sessionCookie.HttpOnly)
		}
	})

	t.Run("negative missing fields", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, username, password string) (string, string, auth.AuthResponse, error) {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"username":"emp1","password":"nope"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	h := auth.NewHandler(&fakeAuthService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var cleared *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "access_token" {
			cleared = ck
		}
	}
	if assert.NotNil(t, cleared) {
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		accountID := uuid.New().String()
		svc := &fakeAuthService{
			meFn: func(ctx context.Context, aid string) (auth.AuthResponse, error) {
				assert.Equal(t, accountID, aid)
				return auth.AuthResponse{ID: aid, Username: "manager", Role: rbac.RoleManager}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("account_id", accountID)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got auth.AuthResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "manager", got.Username)
	})

	t.Run("negative stale token", func(t *testing.T) {
		svc := &fakeAuthService{
			meFn: func(ctx context.Context, aid string) (auth.AuthResponse, error) {
				return auth.AuthResponse{}, autherrors.ErrInvalidToken
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("account_id", uuid.New().String())

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
