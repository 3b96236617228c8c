package auth

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
	"go-leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Login verifies credentials and establishes the session: tokens in the
// body for API clients, plus an HttpOnly cookie for the browser.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http login validation failed", zap.Error(err))
		mapped := apperror.MapValidationError(err)
		httpErr := apperror.ToHTTP(mapped)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
		return
	}

	accessToken, refreshToken, resp, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.SetCookie(accessTokenCookie, accessToken, int(accessTokenTTL.Seconds()), "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"account":       resp,
	}, nil)
}

// Logout drops the session cookie. Tokens already handed out simply expire.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.MapValidationError(err)
		httpErr := apperror.ToHTTP(mapped)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
		return
	}

	accessToken, refreshToken, resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.SetCookie(accessTokenCookie, accessToken, int(accessTokenTTL.Seconds()), "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"account":       resp,
	}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	accountID := c.GetString("account_id")

	resp, err := h.service.Me(c.Request.Context(), accountID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
