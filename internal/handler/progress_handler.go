package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keikchoco/alternative-learning-system/internal/middleware"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/service"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
	"github.com/keikchoco/alternative-learning-system/pkg/response"
)

// ProgressHandler exposes module progress endpoints. Activities are
// addressed by their position within the record's sequence.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// List godoc
// @Summary List progress records
// @Tags Progress
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param moduleId query string false "Filter by module"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /progress [get]
func (h *ProgressHandler) List(c *gin.Context) {
	filter := models.ProgressFilter{
		StudentID: c.Query("studentId"),
		ModuleID:  c.Query("moduleId"),
	}
	if filter.StudentID != "" {
		if err := h.checkStudentScope(c, filter.StudentID); err != nil {
			response.Error(c, err)
			return
		}
	} else if claims, ok := middleware.CurrentClaims(c); ok && claims.Role != models.RoleMasterAdmin && claims.AssignedBarangayID != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "listing progress across all students is limited to master admins"))
		return
	}
	records, err := h.progress.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Create godoc
// @Summary Open a progress record for a student and module
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body service.CreateProgressRequest true "Progress payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /progress [post]
func (h *ProgressHandler) Create(c *gin.Context) {
	var req service.CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.checkStudentScope(c, req.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.progress.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// AddActivity godoc
// @Summary Append an activity to a progress record
// @Tags Progress
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param moduleId path string true "Module ID"
// @Param payload body service.ActivityInput true "Activity payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /progress/{studentId}/{moduleId}/activities [post]
func (h *ProgressHandler) AddActivity(c *gin.Context) {
	var input service.ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.checkStudentScope(c, c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.progress.AddActivity(c.Request.Context(), c.Param("studentId"), c.Param("moduleId"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateActivity godoc
// @Summary Replace the activity at a position
// @Tags Progress
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param moduleId path string true "Module ID"
// @Param index path int true "Activity position"
// @Param payload body service.ActivityInput true "Activity payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /progress/{studentId}/{moduleId}/activities/{index} [patch]
func (h *ProgressHandler) UpdateActivity(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "activity index must be an integer"))
		return
	}
	var input service.ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.checkStudentScope(c, c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.progress.UpdateActivity(c.Request.Context(), c.Param("studentId"), c.Param("moduleId"), index, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// DeleteActivity godoc
// @Summary Remove the activity at a position
// @Tags Progress
// @Produce json
// @Param studentId path string true "Student ID"
// @Param moduleId path string true "Module ID"
// @Param index path int true "Activity position"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /progress/{studentId}/{moduleId}/activities/{index} [delete]
func (h *ProgressHandler) DeleteActivity(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "activity index must be an integer"))
		return
	}
	if err := h.checkStudentScope(c, c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.progress.DeleteActivity(c.Request.Context(), c.Param("studentId"), c.Param("moduleId"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a progress record
// @Tags Progress
// @Param studentId path string true "Student ID"
// @Param moduleId path string true "Module ID"
// @Success 204
// @Security BearerAuth
// @Router /progress/{studentId}/{moduleId} [delete]
func (h *ProgressHandler) Delete(c *gin.Context) {
	if err := h.checkStudentScope(c, c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.progress.Delete(c.Request.Context(), c.Param("studentId"), c.Param("moduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ProgressHandler) checkStudentScope(c *gin.Context, studentID string) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok || claims.Role == models.RoleMasterAdmin || claims.AssignedBarangayID == nil {
		return nil
	}
	barangayID, err := h.progress.StudentBarangay(c.Request.Context(), studentID)
	if err != nil {
		return err
	}
	if barangayID != *claims.AssignedBarangayID {
		return appErrors.Clone(appErrors.ErrForbidden, "student is outside your assigned barangay")
	}
	return nil
}
