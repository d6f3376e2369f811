package order

import (
	"fmt"
	"net/http"
	"time"

	orderapi "aiagents-backend/internal/api/v1/order"
	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders *services.OrderService
}

func NewHandler(orders *services.OrderService) *Handler {
	return &Handler{orders: orders}
}

// ListOrders godoc
// @Summary List orders
// @Description Paginated, filtered list of every order. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param user_id query int false "Filter by user ID"
// @Param agent_id query int false "Filter by agent ID"
// @Param status query string false "Filter by status"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Param min_amount query number false "Filter by minimum amount"
// @Param max_amount query number false "Filter by maximum amount"
// @Success 200 {object} utils.Response{data=utils.PageData{items=[]order.OrderListItem}}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /admin/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	orders, total, err := h.orders.FindOrders(c.Request.Context(), q.Filter())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	page, limit := q.Resolved()
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", utils.PageData{
		Items: orderapi.NewOrderList(orders),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// GetOrder godoc
// @Summary Get an order
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Order ID"
// @Success 200 {object} utils.Response{data=order.OrderListItem}
// @Failure 404 {object} utils.Response
// @Router /admin/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", orderapi.NewOrderListItem(*o)))
}

// ExportOrders godoc
// @Summary Export orders
// @Description Export every order matching the filters to CSV. Admin only.
// @Tags admin
// @Produce text/csv
// @Security Bearer
// @Param user_id query int false "Filter by user ID"
// @Param agent_id query int false "Filter by agent ID"
// @Param status query string false "Filter by status"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/orders/export [get]
func (h *Handler) ExportOrders(c *gin.Context) {
	var q ListOrdersQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	orders, err := h.orders.ExportOrders(c.Request.Context(), q.Filter())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	csvContent, err := services.GenerateOrderCSV(orders)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvContent)
}

// CompleteOrder godoc
// @Summary Mark an order paid
// @Description Completes a PENDING order and activates the buyer's subscription. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Order ID"
// @Param body body CompleteOrderRequest false "External payment reference"
// @Success 200 {object} utils.Response{data=order.OrderListItem}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/orders/{id}/complete [post]
func (h *Handler) CompleteOrder(c *gin.Context) {
	operator, _ := middleware.CurrentUser(c)

	var req CompleteOrderRequest
	if c.Request.ContentLength != 0 && !utils.BindAndValidate(c, &req) {
		return
	}

	o, err := h.orders.CompleteOrder(c.Request.Context(), c.Param("id"), operator.ID, req.ExternalID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order completed successfully", orderapi.NewOrderListItem(*o)))
}

// CancelOrder godoc
// @Summary Cancel an order
// @Description Only PENDING orders can be cancelled. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Order ID"
// @Success 200 {object} utils.Response{data=order.OrderListItem}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/orders/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	operator, _ := middleware.CurrentUser(c)

	o, err := h.orders.CancelOrder(c.Request.Context(), operator, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order cancelled successfully", orderapi.NewOrderListItem(*o)))
}
