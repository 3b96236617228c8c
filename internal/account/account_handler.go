package account

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
	"go-leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("account.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("account.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("account request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Me returns the caller's own profile.
func (h *Handler) Me(c *gin.Context) {
	accountID := c.GetString("account_id")

	resp, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Balances returns the caller's remaining leave balances per category.
func (h *Handler) Balances(c *gin.Context) {
	accountID := c.GetString("account_id")

	resp, err := h.service.GetBalances(c.Request.Context(), accountID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
