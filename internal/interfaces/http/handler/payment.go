package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/qurtubah/treasury/internal/application/ledger"
	"github.com/qurtubah/treasury/internal/interfaces/http/dto"
)

// PaymentHandler exposes the payment ledger over HTTP
type PaymentHandler struct {
	BaseHandler
	service *ledgerapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *ledgerapp.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.List)
		payments.GET("/recent", h.ListRecent)
		payments.GET("/:id", h.Get)
		payments.POST("", h.Create)
		payments.PATCH("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
		payments.POST("/:id/settle", h.Settle)
	}
}

// List returns all payment records
func (h *PaymentHandler) List(c *gin.Context) {
	records, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// ListRecent returns the newest records, bounded by the limit query param
func (h *PaymentHandler) ListRecent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Get returns a single payment record by id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Create records a new payment
func (h *PaymentHandler) Create(c *gin.Context) {
	var req ledgerapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Update applies a partial update to a payment record
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	record, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a payment record
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Settle records the final settlement for a payment
func (h *PaymentHandler) Settle(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req ledgerapp.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	record, err := h.service.Settle(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

func (h *PaymentHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
