package auth

import (
	"go-leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
