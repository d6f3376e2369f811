package conversation

import (
	"net/http"

	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	conversations *services.ConversationService
}

func NewHandler(conversations *services.ConversationService) *Handler {
	return &Handler{conversations: conversations}
}

// CreateConversation godoc
// @Summary Start a conversation with an agent
// @Tags conversation
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body CreateConversationRequest true "Conversation"
// @Success 201 {object} utils.Response{data=models.Conversation}
// @Failure 404 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /conversations [post]
func (h *Handler) CreateConversation(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var req CreateConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	conv, err := h.conversations.Create(c.Request.Context(), u, req.AgentID, req.Title)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Conversation created", conv))
}

// ListConversations godoc
// @Summary List my conversations
// @Tags conversation
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} utils.Response{data=utils.PageData{items=[]models.Conversation}}
// @Router /conversations [get]
func (h *Handler) ListConversations(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var q ListConversationsQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	page, limit := q.Resolved()
	convs, total, err := h.conversations.List(c.Request.Context(), u.ID, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Conversations retrieved successfully", utils.PageData{
		Items: convs,
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// GetConversation godoc
// @Summary Get a conversation with its messages
// @Tags conversation
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Success 200 {object} utils.Response{data=models.Conversation}
// @Failure 404 {object} utils.Response
// @Router /conversations/{id} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	conv, err := h.conversations.Get(c.Request.Context(), u, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Conversation retrieved successfully", conv))
}

// AddMessage godoc
// @Summary Append a message
// @Tags conversation
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Param body body AddMessageRequest true "Message"
// @Success 201 {object} utils.Response{data=models.Message}
// @Failure 404 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /conversations/{id}/messages [post]
func (h *Handler) AddMessage(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	msg, err := h.conversations.AddMessage(c.Request.Context(), u, id, models.MessageRole(req.Role), req.Content, req.Metadata)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Message added", msg))
}
