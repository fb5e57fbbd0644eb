package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves liveness endpoints
type SystemHandler struct {
	BaseHandler
	pinger Pinger
}

// NewSystemHandler creates a new SystemHandler. The pinger may be nil when
// the configured store has no cheap liveness probe (the Sheets backend).
func NewSystemHandler(pinger Pinger) *SystemHandler {
	return &SystemHandler{pinger: pinger}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
	}
}

// Ping reports process liveness
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Health reports process and store health; mounted at the engine root
func (h *SystemHandler) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			status["status"] = "degraded"
			status["store"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["store"] = "ok"
	}
	c.JSON(http.StatusOK, status)
}
