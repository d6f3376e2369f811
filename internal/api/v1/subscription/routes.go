package subscription

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	subs := router.Group("/subscriptions")
	subs.GET("", h.ListSubscriptions)
	subs.POST("/:id/cancel", h.CancelSubscription)
}
