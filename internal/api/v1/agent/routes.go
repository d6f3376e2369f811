package agent

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts agent routes. Reads take optionalAuth so anonymous
// visitors can browse; writes take requireAuth.
func RegisterRoutes(router *gin.RouterGroup, h *Handler, optionalAuth, requireAuth gin.HandlerFunc) {
	agents := router.Group("/agents")
	agents.GET("", optionalAuth, h.ListAgents)
	agents.GET("/:id", optionalAuth, h.GetAgent)
	agents.POST("", requireAuth, h.CreateAgent)
	agents.PATCH("/:id", requireAuth, h.UpdateAgent)
	agents.DELETE("/:id", requireAuth, h.DeleteAgent)
}
