package leave

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Apply)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ListPending)
		leaves.GET("/history", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.History)
		leaves.GET("/summary", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Summary)
		leaves.POST("/reset", middleware.RBACAuthorize(rbacService, "leave", "reset"), handler.Reset)

		// Decision endpoints are idempotent per Idempotency-Key so a
		// double-clicked approval does not surface AlreadyProcessed.
		decide := leaves.Group("")
		decide.Use(middleware.Idempotency(rdb))
		{
			decide.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
			decide.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		}
	}
}
