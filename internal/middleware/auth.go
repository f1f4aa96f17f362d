package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/service/auth"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextMotherID = "motherID"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the JWT token and sets the caller's identity in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserRole, string(claims.Role))
		if claims.MotherID != nil {
			c.Set(ContextMotherID, claims.MotherID.String())
		}
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := model.UserRole(c.GetString(ContextUserRole))
		for _, role := range roles {
			if callerRole == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

// RequireMotherAccess restricts mother accounts to their own records. Health
// workers and admins pass through for any mother.
func (m *AuthMiddleware) RequireMotherAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := model.UserRole(c.GetString(ContextUserRole))
		if callerRole == model.RoleAdmin || callerRole == model.RoleHealthWorker {
			c.Next()
			return
		}

		requested, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
			c.Abort()
			return
		}

		own, err := uuid.Parse(c.GetString(ContextMotherID))
		if err != nil || own != requested {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}
