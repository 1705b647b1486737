package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-records-api/internal/service"
	"github.com/noah-isme/univ-records-api/pkg/response"
)

// TuitionHandler exposes tuition computation and statement export.
type TuitionHandler struct {
	tuition *service.TuitionService
	export  *service.ExportService
	metrics *service.MetricsService
}

// NewTuitionHandler constructs TuitionHandler. metrics may be nil.
func NewTuitionHandler(tuition *service.TuitionService, export *service.ExportService, metrics *service.MetricsService) *TuitionHandler {
	return &TuitionHandler{tuition: tuition, export: export, metrics: metrics}
}

// Get godoc
// @Summary Monthly tuition for a student
// @Tags Tuition
// @Produce json
// @Param matricula path string true "Student matricula"
// @Success 200 {object} response.Envelope
// @Router /students/{matricula}/tuition [get]
func (h *TuitionHandler) Get(c *gin.Context) {
	start := time.Now()
	statement, err := h.tuition.Statement(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveTuitionStatement(time.Since(start))
	response.JSON(c, http.StatusOK, statement, nil)
}

// Export godoc
// @Summary Download tuition statement
// @Tags Tuition
// @Produce text/csv
// @Produce application/pdf
// @Param matricula path string true "Student matricula"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/{matricula}/tuition/statement [get]
func (h *TuitionHandler) Export(c *gin.Context) {
	start := time.Now()
	statement, err := h.tuition.Statement(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveTuitionStatement(time.Since(start))

	payload, contentType, filename, err := h.export.RenderStatement(statement, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
