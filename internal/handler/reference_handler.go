package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keikchoco/alternative-learning-system/internal/service"
	"github.com/keikchoco/alternative-learning-system/pkg/response"
)

// ReferenceHandler serves the read-only reference collections: barangays
// and learning modules.
type ReferenceHandler struct {
	barangays *service.BarangayService
	modules   *service.ModuleService
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(barangays *service.BarangayService, modules *service.ModuleService) *ReferenceHandler {
	return &ReferenceHandler{barangays: barangays, modules: modules}
}

// ListBarangays godoc
// @Summary List barangays
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /barangays [get]
func (h *ReferenceHandler) ListBarangays(c *gin.Context) {
	barangays, err := h.barangays.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, barangays, nil)
}

// ListModules godoc
// @Summary List learning modules
// @Tags Reference
// @Produce json
// @Param program query string false "Filter modules applicable to a program"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /modules [get]
func (h *ReferenceHandler) ListModules(c *gin.Context) {
	modules, err := h.modules.List(c.Request.Context(), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}
