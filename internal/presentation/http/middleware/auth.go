package middleware

import (
	"strings"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key holding the authenticated principal
const PrincipalKey = "principal"

// AuthMiddleware creates a JWT authentication middleware. On success the
// authenticated principal is stored in the request context for handlers to
// pass into services.
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

		tokenString := parts[1]

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		role := enum.Role(claims.Role)
		if !role.Valid() {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, entity.Principal{ID: claims.UserID, Role: role})

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(PrincipalKey)
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		principal, ok := value.(entity.Principal)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
