package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(handler.ContextUserID, claims.UserID)
		c.Set(handler.ContextUserName, claims.Name)
		c.Set(handler.ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...enum.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := handler.GetUserRole(c)
		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
