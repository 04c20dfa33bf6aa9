package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type ProductHandler struct {
	products *usecase.ProductService
}

func NewProductHandler(products *usecase.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	ImageURL    string          `json:"imageUrl"`
}

func (r productReq) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    entity.ProductCategory(r.Category),
		ImageURL:    r.ImageURL,
	}
}

type productResp struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func toProductResp(p *entity.Product) productResp {
	return productResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	product, err := h.products.Create(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResp(product))
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(product))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.products.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(product))
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	products, err := h.products.FindByCategory(c.Request.Context(), entity.ProductCategory(c.Param("category")))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	c.JSON(http.StatusOK, out)
}
