package agent

import (
	"net/http"

	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	agents *services.AgentService
}

func NewHandler(agents *services.AgentService) *Handler {
	return &Handler{agents: agents}
}

func viewer(c *gin.Context) *models.User {
	if u, ok := middleware.CurrentUser(c); ok {
		return &u
	}
	return nil
}

// ListAgents godoc
// @Summary List agents
// @Description Published agents, plus the caller's own when signed in. Admins see all.
// @Tags agent
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Name or description contains"
// @Param category query string false "Category"
// @Param status query string false "DRAFT, PUBLISHED or ARCHIVED"
// @Param mine query bool false "Only agents I created"
// @Success 200 {object} utils.Response{data=utils.PageData{items=[]agent.AgentResponse}}
// @Failure 422 {object} utils.Response
// @Router /agents [get]
func (h *Handler) ListAgents(c *gin.Context) {
	var q ListAgentsQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	v := viewer(c)
	filter := services.AgentFilter{
		Search:   q.Search,
		Category: q.Category,
		Status:   q.Status,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Mine && v != nil {
		filter.CreatedByID = v.ID
	}

	agents, total, err := h.agents.FindAgents(c.Request.Context(), v, filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		items = append(items, NewAgentResponse(a, v))
	}
	page, limit := q.Resolved()
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Agents retrieved successfully", utils.PageData{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// GetAgent godoc
// @Summary Get an agent
// @Tags agent
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} utils.Response{data=agent.AgentResponse}
// @Failure 404 {object} utils.Response
// @Router /agents/{id} [get]
func (h *Handler) GetAgent(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	v := viewer(c)
	a, err := h.agents.GetAgentByID(c.Request.Context(), v, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Agent retrieved successfully", NewAgentResponse(*a, v)))
}

// CreateAgent godoc
// @Summary Create an agent
// @Tags agent
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body CreateAgentRequest true "Agent"
// @Success 201 {object} utils.Response{data=agent.AgentResponse}
// @Failure 401 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /agents [post]
func (h *Handler) CreateAgent(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var req CreateAgentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	a, err := h.agents.CreateAgent(c.Request.Context(), u, services.CreateAgentInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      models.AgentStatus(req.Status),
		Config:      req.Config,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Agent created successfully", NewAgentResponse(*a, &u)))
}

// UpdateAgent godoc
// @Summary Update an agent
// @Description Owner or admin only
// @Tags agent
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Agent ID"
// @Param body body UpdateAgentRequest true "Fields to change"
// @Success 200 {object} utils.Response{data=agent.AgentResponse}
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /agents/{id} [patch]
func (h *Handler) UpdateAgent(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAgentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	in := services.UpdateAgentInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Config:      req.Config,
	}
	if req.Status != nil {
		s := models.AgentStatus(*req.Status)
		in.Status = &s
	}

	a, err := h.agents.UpdateAgent(c.Request.Context(), u, id, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Agent updated successfully", NewAgentResponse(*a, &u)))
}

// DeleteAgent godoc
// @Summary Delete an agent
// @Description Owner or admin only
// @Tags agent
// @Produce json
// @Security Bearer
// @Param id path int true "Agent ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /agents/{id} [delete]
func (h *Handler) DeleteAgent(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.agents.DeleteAgent(c.Request.Context(), u, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Agent deleted successfully", nil))
}
