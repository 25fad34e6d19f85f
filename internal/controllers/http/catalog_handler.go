package http

import (
	"eshop/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.Engine) {
	products := r.Group("/api/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/category/:categoryId", h.ListProductsByCategory)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)

	categories := r.Group("/api/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponses(products))
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

func (h *CatalogHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, ok := uintParam(c, "categoryId")
	if !ok {
		return
	}
	products, err := h.service.ListProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponses(products))
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.service.CreateProduct(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/products/"+itoa(p.ID))
	c.JSON(http.StatusCreated, newProductResponse(p))
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.service.UpdateProduct(c.Request.Context(), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(cat))
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/categories/"+itoa(cat.ID))
	c.JSON(http.StatusCreated, newCategoryResponse(cat))
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cat, err := h.service.UpdateCategory(c.Request.Context(), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(cat))
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
