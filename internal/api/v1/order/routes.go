package order

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the buyer's order routes. router must already
// require authentication.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	orders := router.Group("/orders")
	orders.POST("", h.Purchase)
	orders.GET("", h.ListMyOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/cancel", h.CancelOrder)
}
