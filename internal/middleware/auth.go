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

// Context keys set by AuthMiddleware.
const (
	UserKey        = "user"
	SessionKey     = "session"
	AccessTokenKey = "access_token"
)

// AuthMiddleware resolves the caller's session and aborts with 401 when it
// does not resolve. The cause is logged but never sent to the client.
func AuthMiddleware(store *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, store) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is present and lets
// anonymous requests through untouched.
func OptionalAuth(store *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := utils.ExtractToken(c)
		if err == nil {
			if res := store.Resolve(c.Request.Context(), token); res.OK() {
				setIdentity(c, res)
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, store *services.SessionStore) bool {
	token, _ := utils.ExtractToken(c)
	res := store.Resolve(c.Request.Context(), token)
	if res.OK() {
		setIdentity(c, res)
		return true
	}

	if res.Reason == services.ReasonStoreError {
		utils.RespondError(c, res.Err)
		c.Abort()
		return false
	}

	logger.Log.Debug("authentication failed",
		zap.String("reason", string(res.Reason)),
		zap.String("path", c.FullPath()))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		utils.NewErrorResponse(http.StatusUnauthorized, services.ErrUnauthenticated.Message))
	return false
}

func setIdentity(c *gin.Context, res services.Resolution) {
	c.Set(UserKey, *res.User)
	c.Set(SessionKey, *res.Session)
	c.Set(AccessTokenKey, res.Token)
}

// CurrentUser returns the user AuthMiddleware attached to c.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// CurrentSession returns the session AuthMiddleware attached to c.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}
