package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type CustomerHandler struct {
	customers *usecase.CustomerService
}

func NewCustomerHandler(customers *usecase.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CPF       string    `json:"cpf,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCustomerResp(c *entity.Customer) customerResp {
	return customerResp{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

type createWithCPFReq struct {
	CPF string `json:"cpf" binding:"required"`
}

func (h *CustomerHandler) CreateWithCPF(c *gin.Context) {
	var req createWithCPFReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	customer, err := h.customers.CreateWithCPF(c.Request.Context(), req.CPF)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResp(customer))
}

type createWithEmailReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (h *CustomerHandler) CreateWithEmail(c *gin.Context) {
	var req createWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	customer, err := h.customers.CreateWithEmail(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResp(customer))
}

func (h *CustomerHandler) GetByCPF(c *gin.Context) {
	customer, err := h.customers.FindByCPF(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResp(customer))
}

func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	customer, err := h.customers.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResp(customer))
}
