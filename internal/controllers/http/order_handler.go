package http

import (
	"eshop/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *services.OrderService
}

func NewOrderHandler(s *services.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/orders")
	g.GET("", h.ListOrders)
	g.POST("", h.CreateOrder)
	g.GET("/user/:userId", h.ListOrdersByUser)
	g.GET("/:id", h.GetOrder)
	g.PUT("/:id/status", h.UpdateOrderStatus)
	g.DELETE("/:id", h.CancelOrder)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/orders/"+order.ID)
	c.JSON(http.StatusCreated, newOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponses(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) ListOrdersByUser(c *gin.Context) {
	orders, err := h.service.ListOrdersByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponses(orders))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if err := h.service.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
