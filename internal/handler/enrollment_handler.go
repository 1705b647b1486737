package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-records-api/internal/models"
	"github.com/noah-isme/univ-records-api/internal/service"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
	"github.com/noah-isme/univ-records-api/pkg/response"
)

// EnrollmentHandler exposes enrollment and grading endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler. metrics may be nil.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentMatricula query string false "Filter by student"
// @Param classCode query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.StudentMatricula = c.Query("studentMatricula")
	filter.ClassCode = c.Query("classCode")
	filter.Status = models.EnrollmentStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Param matricula path string true "Student matricula"
// @Param classCode path string true "Class code"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{matricula}/{classCode} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("matricula"), c.Param("classCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Create godoc
// @Summary Enroll student into class
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollStudentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// UpdateGrades godoc
// @Summary Record scores and absences
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param matricula path string true "Student matricula"
// @Param classCode path string true "Class code"
// @Param payload body service.UpdateGradesRequest true "Grades payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{matricula}/{classCode}/grades [put]
func (h *EnrollmentHandler) UpdateGrades(c *gin.Context) {
	var req service.UpdateGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.UpdateGrades(c.Request.Context(), c.Param("matricula"), c.Param("classCode"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordGradingUpdate(string(enrollment.Status))
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Delete godoc
// @Summary Cancel enrollment
// @Tags Enrollments
// @Produce json
// @Param matricula path string true "Student matricula"
// @Param classCode path string true "Class code"
// @Success 204
// @Router /enrollments/{matricula}/{classCode} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.enrollments.Cancel(c.Request.Context(), c.Param("matricula"), c.Param("classCode")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
