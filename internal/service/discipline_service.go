package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type disciplineRepository interface {
	List(ctx context.Context, filter models.DisciplineFilter) ([]models.DisciplineDetail, int, error)
	FindByCode(ctx context.Context, code int) (*models.Discipline, error)
	Create(ctx context.Context, discipline *models.Discipline) error
	Update(ctx context.Context, discipline *models.Discipline) error
	Delete(ctx context.Context, code int) error
}

type disciplineClassCounter interface {
	CountByDiscipline(ctx context.Context, disciplineCode int) (int, error)
}

// CreateDisciplineRequest describes discipline creation payload.
type CreateDisciplineRequest struct {
	Code       int    `json:"code" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=3,max=120"`
	CourseCode int    `json:"course_code" validate:"required,min=1,max=9999"`
}

// UpdateDisciplineRequest describes updatable discipline fields.
type UpdateDisciplineRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=120"`
	CourseCode int    `json:"course_code" validate:"required,min=1,max=9999"`
}

// DisciplineService implements discipline catalog operations.
type DisciplineService struct {
	repo      disciplineRepository
	courses   courseReader
	classes   disciplineClassCounter
	cache     CacheStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDisciplineService constructs DisciplineService. cache may be nil.
func NewDisciplineService(repo disciplineRepository, courses courseReader, classes disciplineClassCounter, cache CacheStore, validate *validator.Validate, logger *zap.Logger) *DisciplineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisciplineService{repo: repo, courses: courses, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns disciplines matching the filter with pagination metadata.
func (s *DisciplineService) List(ctx context.Context, filter models.DisciplineFilter) ([]models.DisciplineDetail, *models.Pagination, error) {
	disciplines, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list disciplines")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return disciplines, pagination, nil
}

// Get returns a discipline by its code.
func (s *DisciplineService) Get(ctx context.Context, code int) (*models.Discipline, error) {
	discipline, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("discipline %d not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
	}
	return discipline, nil
}

// Create registers a discipline under an existing course.
func (s *DisciplineService) Create(ctx context.Context, req CreateDisciplineRequest) (*models.Discipline, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discipline payload")
	}
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("discipline %d already exists", req.Code))
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check discipline")
	}
	if _, err := s.courses.FindByCode(ctx, req.CourseCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d does not exist", req.CourseCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	discipline := &models.Discipline{Code: req.Code, Name: req.Name, CourseCode: req.CourseCode}
	if err := s.repo.Create(ctx, discipline); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create discipline")
	}
	s.invalidateCourseStats(ctx, discipline.CourseCode)
	return discipline, nil
}

// Update modifies a discipline, optionally moving it to another course.
func (s *DisciplineService) Update(ctx context.Context, code int, req UpdateDisciplineRequest) (*models.Discipline, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discipline payload")
	}
	discipline, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("discipline %d not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
	}
	previousCourse := discipline.CourseCode
	if req.CourseCode != discipline.CourseCode {
		if _, err := s.courses.FindByCode(ctx, req.CourseCode); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d does not exist", req.CourseCode))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}
	discipline.Name = req.Name
	discipline.CourseCode = req.CourseCode
	if err := s.repo.Update(ctx, discipline); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update discipline")
	}
	s.invalidateCourseStats(ctx, previousCourse)
	if req.CourseCode != previousCourse {
		s.invalidateCourseStats(ctx, req.CourseCode)
	}
	return discipline, nil
}

// Delete removes a discipline. Refused while classes still offer it.
func (s *DisciplineService) Delete(ctx context.Context, code int) error {
	discipline, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("discipline %d not found", code))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
	}
	classes, err := s.classes.CountByDiscipline(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	if classes > 0 {
		return appErrors.Clone(appErrors.ErrDependentsExist, fmt.Sprintf("discipline %d has %d class(es)", code, classes))
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete discipline")
	}
	s.invalidateCourseStats(ctx, discipline.CourseCode)
	return nil
}

func (s *DisciplineService) invalidateCourseStats(ctx context.Context, courseCode int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, statsCacheKey(courseCode)); err != nil {
		s.logger.Warn("failed to invalidate course stats cache", zap.Int("course", courseCode), zap.Error(err))
	}
}
