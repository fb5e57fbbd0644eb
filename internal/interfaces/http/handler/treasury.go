package handler

import (
	"github.com/gin-gonic/gin"
	treasuryapp "github.com/qurtubah/treasury/internal/application/treasury"
)

// TreasuryHandler exposes treasury aggregations over HTTP
type TreasuryHandler struct {
	BaseHandler
	service *treasuryapp.Service
}

// NewTreasuryHandler creates a new TreasuryHandler
func NewTreasuryHandler(service *treasuryapp.Service) *TreasuryHandler {
	return &TreasuryHandler{service: service}
}

// RegisterRoutes registers treasury routes
func (h *TreasuryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	treasury := rg.Group("/treasury")
	{
		treasury.GET("/stats", h.Stats)
		treasury.GET("/categories", h.Categories)
	}
}

// Stats returns the treasury summary
func (h *TreasuryHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Categories returns the expense breakdown by category
func (h *TreasuryHandler) Categories(c *gin.Context) {
	breakdown, err := h.service.CategoryBreakdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}
