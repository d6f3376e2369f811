package conversation

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	convs := router.Group("/conversations")
	convs.POST("", h.CreateConversation)
	convs.GET("", h.ListConversations)
	convs.GET("/:id", h.GetConversation)
	convs.POST("/:id/messages", h.AddMessage)
}
