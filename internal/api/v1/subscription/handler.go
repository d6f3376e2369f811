package subscription

import (
	"net/http"

	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	subscriptions *services.SubscriptionService
}

func NewHandler(subscriptions *services.SubscriptionService) *Handler {
	return &Handler{subscriptions: subscriptions}
}

// ListSubscriptions godoc
// @Summary List my subscriptions
// @Tags subscription
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=[]models.Subscription}
// @Failure 401 {object} utils.Response
// @Router /subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	subs, err := h.subscriptions.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Subscriptions retrieved successfully", subs))
}

// CancelSubscription godoc
// @Summary Cancel a subscription
// @Tags subscription
// @Produce json
// @Security Bearer
// @Param id path int true "Subscription ID"
// @Success 200 {object} utils.Response{data=models.Subscription}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.subscriptions.Cancel(c.Request.Context(), u, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Subscription cancelled", sub))
}
