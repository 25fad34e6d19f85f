package http

import (
	"eshop/internal/domain"
	"eshop/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BasketHandler struct {
	service *services.BasketService
}

func NewBasketHandler(s *services.BasketService) *BasketHandler {
	return &BasketHandler{service: s}
}

func (h *BasketHandler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/basket")
	g.GET("/:userId", h.GetBasket)
	g.POST("/:userId", h.UpdateBasket)
	g.DELETE("/:userId", h.DeleteBasket)
	g.POST("/:userId/items", h.AddItem)
	g.PUT("/:userId/items/:productId", h.UpdateItemQuantity)
	g.DELETE("/:userId/items/:productId", h.RemoveItem)
}

func (h *BasketHandler) GetBasket(c *gin.Context) {
	b, err := h.service.GetBasket(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBasketResponse(b))
}

func (h *BasketHandler) UpdateBasket(c *gin.Context) {
	var req UpdateBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	items := make([]domain.BasketItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, it.toDomain())
	}

	b, err := h.service.UpdateBasket(c.Request.Context(), c.Param("userId"), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBasketResponse(b))
}

func (h *BasketHandler) AddItem(c *gin.Context) {
	var req BasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	b, err := h.service.AddItem(c.Request.Context(), c.Param("userId"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBasketResponse(b))
}

func (h *BasketHandler) UpdateItemQuantity(c *gin.Context) {
	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	b, err := h.service.UpdateItemQuantity(c.Request.Context(), c.Param("userId"), productID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBasketResponse(b))
}

func (h *BasketHandler) RemoveItem(c *gin.Context) {
	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}

	b, err := h.service.RemoveItem(c.Request.Context(), c.Param("userId"), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBasketResponse(b))
}

func (h *BasketHandler) DeleteBasket(c *gin.Context) {
	if err := h.service.DeleteBasket(c.Request.Context(), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
