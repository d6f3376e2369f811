package middleware

import (
	"net/http"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"
	"aiagents-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole admits callers whose role implies role. SUPER_ADMIN implies
// every role. It must run after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.NewErrorResponse(http.StatusUnauthorized, services.ErrUnauthenticated.Message))
			return
		}

		if !user.Role.Implies(role) {
			logger.Log.Warn("forbidden access attempt",
				zap.Uint("user_id", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("required", string(role)),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden,
				utils.NewErrorResponse(http.StatusForbidden, services.ErrForbidden.Message))
			return
		}

		c.Next()
	}
}
