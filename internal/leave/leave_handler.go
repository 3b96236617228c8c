package leave

import (
	"net/http"
	"strconv"

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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindingError(c *gin.Context, err error) {
	mapped := apperror.MapValidationError(err)
	httpErr := apperror.ToHTTP(mapped)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
}

func (h *Handler) Apply(c *gin.Context) {
	accountID := c.GetString("account_id")
	h.logger.Debug("http apply leave", zap.String("account_id", accountID))

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http apply leave validation failed", zap.Error(err))
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), accountID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListPending(c *gin.Context) {
	resp, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.GetString("account_id")

	resp, err := h.service.ListHistory(ctx, accountID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	accountID := c.GetString("account_id")

	resp, err := h.service.Summary(c.Request.Context(), accountID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	actorID := c.GetString("account_id")
	actorRole := c.GetString("role")

	resp, err := h.service.Approve(ctx, actorID, actorRole, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	actorID := c.GetString("account_id")
	actorRole := c.GetString("role")

	// Comment body is optional; an empty or absent body is a plain reject.
	var req RejectLeaveRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http reject leave validation failed", zap.Error(err))
			h.writeBindingError(c, err)
			return
		}
	}

	resp, err := h.service.Reject(ctx, actorID, actorRole, id, req.Comment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	actorID := c.GetString("account_id")
	actorRole := c.GetString("role")

	if err := h.service.Reset(ctx, actorID, actorRole); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reset": true}, nil)
}
