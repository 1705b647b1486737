package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-records-api/internal/models"
	"github.com/noah-isme/univ-records-api/internal/service"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
	"github.com/noah-isme/univ-records-api/pkg/response"
)

// DisciplineHandler exposes discipline endpoints.
type DisciplineHandler struct {
	disciplines *service.DisciplineService
}

// NewDisciplineHandler constructs DisciplineHandler.
func NewDisciplineHandler(disciplines *service.DisciplineService) *DisciplineHandler {
	return &DisciplineHandler{disciplines: disciplines}
}

func disciplineCodeParam(c *gin.Context) (int, error) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "discipline code must be numeric")
	}
	return code, nil
}

// List godoc
// @Summary List disciplines
// @Tags Disciplines
// @Produce json
// @Param search query string false "Search by name"
// @Param courseCode query int false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /disciplines [get]
func (h *DisciplineHandler) List(c *gin.Context) {
	var filter models.DisciplineFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if code, err := strconv.Atoi(c.Query("courseCode")); err == nil {
		filter.CourseCode = code
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	disciplines, pagination, err := h.disciplines.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disciplines, pagination)
}

// Get godoc
// @Summary Get discipline
// @Tags Disciplines
// @Produce json
// @Param code path int true "Discipline code"
// @Success 200 {object} response.Envelope
// @Router /disciplines/{code} [get]
func (h *DisciplineHandler) Get(c *gin.Context) {
	code, err := disciplineCodeParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	discipline, err := h.disciplines.Get(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discipline, nil)
}

// Create godoc
// @Summary Create discipline
// @Tags Disciplines
// @Accept json
// @Produce json
// @Param payload body service.CreateDisciplineRequest true "Discipline payload"
// @Success 201 {object} response.Envelope
// @Router /disciplines [post]
func (h *DisciplineHandler) Create(c *gin.Context) {
	var req service.CreateDisciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	discipline, err := h.disciplines.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, discipline)
}

// Update godoc
// @Summary Update discipline
// @Tags Disciplines
// @Accept json
// @Produce json
// @Param code path int true "Discipline code"
// @Param payload body service.UpdateDisciplineRequest true "Discipline payload"
// @Success 200 {object} response.Envelope
// @Router /disciplines/{code} [put]
func (h *DisciplineHandler) Update(c *gin.Context) {
	code, err := disciplineCodeParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateDisciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	discipline, err := h.disciplines.Update(c.Request.Context(), code, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discipline, nil)
}

// Delete godoc
// @Summary Delete discipline
// @Tags Disciplines
// @Produce json
// @Param code path int true "Discipline code"
// @Success 204
// @Router /disciplines/{code} [delete]
func (h *DisciplineHandler) Delete(c *gin.Context) {
	code, err := disciplineCodeParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.disciplines.Delete(c.Request.Context(), code); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
