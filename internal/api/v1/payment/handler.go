package payment

import (
	"net/http"

	"aiagents-backend/internal/services"
	"aiagents-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	orders *services.OrderService
}

func NewHandler(orders *services.OrderService) *Handler {
	return &Handler{orders: orders}
}

// Notify godoc
// @Summary Payment gateway callback
// @Description Verifies the signed callback and completes the order. Replies with plain "success" as gateways expect.
// @Tags payment
// @Produce plain
// @Success 200 {string} string "success"
// @Failure 400 {string} string "fail"
// @Router /payments/notify [get]
// @Router /payments/notify [post]
func (h *Handler) Notify(c *gin.Context) {
	params := make(map[string]string)

	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	}

	if err := h.orders.HandleNotify(c.Request.Context(), params); err != nil {
		logger.Log.Warn("payment notify rejected",
			zap.String("order_id", params["out_trade_no"]),
			zap.Error(err))
		c.String(http.StatusBadRequest, "fail")
		return
	}

	c.String(http.StatusOK, "success")
}
