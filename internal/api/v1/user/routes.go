package user

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the signed-in user's routes. router must already
// require authentication.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/auth/me", h.CurrentUser)

	me := router.Group("/users/me")
	me.PATCH("", h.UpdateProfile)
	me.PUT("/password", h.ChangePassword)
	me.GET("/sessions", h.ListSessions)
	me.DELETE("/sessions/:id", h.RevokeSession)
	me.GET("/analytics", h.MyAnalytics)
}
