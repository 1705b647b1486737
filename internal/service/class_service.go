package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	FindByCode(ctx context.Context, code string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, code string) error
}

type professorReader interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

type classEnrollmentCounter interface {
	CountByClass(ctx context.Context, classCode string) (int, error)
}

// CreateClassRequest describes class creation payload.
type CreateClassRequest struct {
	Code           string `json:"code" validate:"required,min=1,max=20"`
	Year           int    `json:"year" validate:"required"`
	Term           int    `json:"term" validate:"required,oneof=1 2"`
	DisciplineCode int    `json:"discipline_code" validate:"required,min=1"`
	ProfessorID    string `json:"professor_id" validate:"required,uuid"`
}

// UpdateClassRequest describes updatable class fields.
type UpdateClassRequest struct {
	Year           int    `json:"year" validate:"required"`
	Term           int    `json:"term" validate:"required,oneof=1 2"`
	DisciplineCode int    `json:"discipline_code" validate:"required,min=1"`
	ProfessorID    string `json:"professor_id" validate:"required,uuid"`
}

// ClassService implements class offering operations.
type ClassService struct {
	repo        classRepository
	disciplines disciplineReader
	professors  professorReader
	enrollments classEnrollmentCounter
	cache       CacheStore
	now         func() time.Time
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassService constructs ClassService. cache may be nil; now
// defaults to time.Now.
func NewClassService(repo classRepository, disciplines disciplineReader, professors professorReader, enrollments classEnrollmentCounter, cache CacheStore, now func() time.Time, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &ClassService{repo: repo, disciplines: disciplines, professors: professors, enrollments: enrollments, cache: cache, now: now, validator: validate, logger: logger}
}

// List returns classes matching the filter with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
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
	return classes, pagination, nil
}

// Get returns a class by its code.
func (s *ClassService) Get(ctx context.Context, code string) (*models.Class, error) {
	class, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a class offering. The academic year must fall between
// 2000 and next calendar year.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := s.validateYear(req.Year); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("class %s already exists", req.Code))
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class")
	}
	if err := s.checkReferences(ctx, req.DisciplineCode, req.ProfessorID); err != nil {
		return nil, err
	}
	class := &models.Class{
		Code:           req.Code,
		Year:           req.Year,
		Term:           req.Term,
		DisciplineCode: req.DisciplineCode,
		ProfessorID:    req.ProfessorID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.invalidateStats(ctx)
	return class, nil
}

// Update modifies a class offering. The code is immutable.
func (s *ClassService) Update(ctx context.Context, code string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := s.validateYear(req.Year); err != nil {
		return nil, err
	}
	class, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if err := s.checkReferences(ctx, req.DisciplineCode, req.ProfessorID); err != nil {
		return nil, err
	}
	class.Year = req.Year
	class.Term = req.Term
	class.DisciplineCode = req.DisciplineCode
	class.ProfessorID = req.ProfessorID
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	s.invalidateStats(ctx)
	return class, nil
}

// Delete removes a class. Refused while enrollments still reference it.
func (s *ClassService) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", code))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	enrollments, err := s.enrollments.CountByClass(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if enrollments > 0 {
		return appErrors.Clone(appErrors.ErrDependentsExist, fmt.Sprintf("class %s has %d enrollment(s)", code, enrollments))
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *ClassService) validateYear(year int) error {
	max := s.now().Year() + 1
	if year < 2000 || year > max {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("year must be between 2000 and %d", max))
	}
	return nil
}

func (s *ClassService) checkReferences(ctx context.Context, disciplineCode int, professorID string) error {
	if _, err := s.disciplines.FindByCode(ctx, disciplineCode); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("discipline %d does not exist", disciplineCode))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
	}
	professor, err := s.professors.FindByID(ctx, professorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("professor %s does not exist", professorID))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	if !professor.Active {
		return appErrors.Clone(appErrors.ErrValidation, "professor is inactive")
	}
	return nil
}

// invalidateStats clears all cached course stats; a class touches its
// course only through the discipline, so the blanket pattern is simpler
// than resolving the chain here.
func (s *ClassService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "stats:course:*"); err != nil {
		s.logger.Warn("failed to invalidate course stats cache", zap.Error(err))
	}
}
