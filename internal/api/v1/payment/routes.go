package payment

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public gateway callback. It authenticates by
// signature, not by session.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/payments/notify", h.Notify)
	r.POST("/payments/notify", h.Notify)
}
