package order

import (
	"net/http"

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

// Purchase godoc
// @Summary Buy an agent
// @Description Free agents complete at once and return a subscription id. Paid agents return a payment URL when a gateway is configured.
// @Tags order
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body PurchaseRequest true "Agent to buy"
// @Success 201 {object} utils.Response{data=order.PurchaseResponse}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /orders [post]
func (h *Handler) Purchase(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var req PurchaseRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	res, err := h.orders.Purchase(c.Request.Context(), u, req.AgentID, req.Channel)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	resp := PurchaseResponse{Order: NewOrderListItem(*res.Order), PayURL: res.PayURL}
	if res.Subscription != nil {
		resp.SubscriptionID = res.Subscription.ID
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Order created", resp))
}

// ListMyOrders godoc
// @Summary List my orders
// @Tags order
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Order status"
// @Success 200 {object} utils.Response{data=utils.PageData{items=[]order.OrderListItem}}
// @Failure 401 {object} utils.Response
// @Router /orders [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var q ListOrdersQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	filter := services.OrderFilter{UserID: &u.ID, Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		filter.Status = &q.Status
	}

	orders, total, err := h.orders.FindOrders(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	page, limit := q.Resolved()
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", utils.PageData{
		Items: NewOrderList(orders),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// GetOrder godoc
// @Summary Get one of my orders
// @Tags order
// @Produce json
// @Security Bearer
// @Param id path string true "Order ID"
// @Success 200 {object} utils.Response{data=order.OrderListItem}
// @Failure 404 {object} utils.Response
// @Router /orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	o, err := h.orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !u.CanManage(o.UserID) {
		utils.RespondError(c, services.ErrOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", NewOrderListItem(*o)))
}

// CancelOrder godoc
// @Summary Cancel a pending order
// @Tags order
// @Produce json
// @Security Bearer
// @Param id path string true "Order ID"
// @Success 200 {object} utils.Response{data=order.OrderListItem}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /orders/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	o, err := h.orders.CancelOrder(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order cancelled", NewOrderListItem(*o)))
}
