package account

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	accounts := r.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("/me", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Me)
		accounts.GET("/me/balances", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Balances)
	}
}
