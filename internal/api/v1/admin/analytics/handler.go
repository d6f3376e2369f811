package analytics

import (
	"net/http"
	"time"

	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	analytics *services.AnalyticsService
	now       func() time.Time
}

func NewHandler(analytics *services.AnalyticsService) *Handler {
	return &Handler{analytics: analytics, now: time.Now}
}

// GetAnalytics godoc
// @Summary Marketplace dashboard metrics
// @Description Revenue, users and conversations for the current calendar month against the previous one, plus top agents and users. On failure the body carries an empty snapshot. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.AnalyticsSnapshot}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response{data=services.AnalyticsSnapshot}
// @Router /admin/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	snap, err := h.analytics.ComputeAdminAnalytics(c.Request.Context(), h.now())
	if err != nil {
		utils.RespondErrorWithData(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Analytics retrieved successfully", snap))
}
