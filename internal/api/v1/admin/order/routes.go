package order

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	orderGroup := r.Group("/orders")
	{
		orderGroup.GET("", h.ListOrders)
		orderGroup.GET("/export", h.ExportOrders)
		orderGroup.GET("/:id", h.GetOrder)
		orderGroup.POST("/:id/complete", h.CompleteOrder)
		orderGroup.POST("/:id/cancel", h.CancelOrder)
	}
}
