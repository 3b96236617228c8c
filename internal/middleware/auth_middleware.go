package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "go-leavedesk/internal/auth/errors"
	"go-leavedesk/internal/shared/contextutil"
	"go-leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware resolves the caller identity from a bearer token or the
// access_token cookie set at login, and stores account_id, username and
// role on the gin context for the handlers downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		accountID, _ := claims["account_id"].(string)
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		if accountID == "" || role == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		c.Set("account_id", accountID)
		c.Set("username", username)
		c.Set("role", role)

		// Re-scope the request logger now that the caller is known.
		ctx := contextutil.WithAccountID(c.Request.Context(), accountID)
		ctx = contextutil.WithLogger(ctx,
			contextutil.GetLogger(ctx, zap.L()).With(zap.String("account_id", accountID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
