package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keikchoco/alternative-learning-system/internal/service"
	"github.com/keikchoco/alternative-learning-system/pkg/response"
)

// DashboardHandler serves the dashboard aggregates and calendar view.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Statistics godoc
// @Summary Dashboard statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/statistics [get]
func (h *DashboardHandler) Statistics(c *gin.Context) {
	stats, err := h.dashboard.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Calendar godoc
// @Summary Month calendar of events
// @Tags Dashboard
// @Produce json
// @Param month query string false "Month in YYYY-MM form, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/calendar [get]
func (h *DashboardHandler) Calendar(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	calendar, err := h.dashboard.Calendar(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}
