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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByCode(ctx context.Context, code int) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, code int) error
}

type courseStudentCounter interface {
	CountByCourse(ctx context.Context, courseCode int) (int, error)
}

type courseDisciplineCounter interface {
	CountByCourse(ctx context.Context, courseCode int) (int, error)
}

type courseClassCounter interface {
	CountByCourse(ctx context.Context, courseCode int) (int, error)
}

// CacheStore is the subset of the cache repository used by services.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateCourseRequest describes course creation payload.
type CreateCourseRequest struct {
	Code        int      `json:"code" validate:"required,min=1,max=9999"`
	Name        string   `json:"name" validate:"required,min=3,max=120"`
	BaseTuition *float64 `json:"base_tuition" validate:"omitempty,gte=0"`
}

// UpdateCourseRequest describes updatable course fields. The code is
// immutable once assigned.
type UpdateCourseRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=120"`
	BaseTuition *float64 `json:"base_tuition" validate:"omitempty,gte=0"`
}

// CourseService implements course catalog operations.
type CourseService struct {
	repo        courseRepository
	students    courseStudentCounter
	disciplines courseDisciplineCounter
	classes     courseClassCounter
	cache       CacheStore
	cacheTTL    time.Duration
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService. cache and metrics may be
// nil; stats are then computed on every request, untimed.
func NewCourseService(repo courseRepository, students courseStudentCounter, disciplines courseDisciplineCounter, classes courseClassCounter, cache CacheStore, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CourseService{repo: repo, students: students, disciplines: disciplines, classes: classes, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// List returns courses matching the filter with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
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
	return courses, pagination, nil
}

// Get returns a course by its code.
func (s *CourseService) Get(ctx context.Context, code int) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a course under a caller-chosen code.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course %d already exists", req.Code))
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}
	course := &models.Course{Code: req.Code, Name: req.Name, BaseTuition: req.BaseTuition}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateStats(ctx, course.Code)
	return course, nil
}

// Update modifies a course's name and base tuition.
func (s *CourseService) Update(ctx context.Context, code int, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	course.Name = req.Name
	course.BaseTuition = req.BaseTuition
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateStats(ctx, code)
	return course, nil
}

// Delete removes a course. Refused while students or disciplines still
// reference it.
func (s *CourseService) Delete(ctx context.Context, code int) error {
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", code))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.students.CountByCourse(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if students > 0 {
		return appErrors.Clone(appErrors.ErrDependentsExist, fmt.Sprintf("course %d has %d student(s)", code, students))
	}
	disciplines, err := s.disciplines.CountByCourse(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count disciplines")
	}
	if disciplines > 0 {
		return appErrors.Clone(appErrors.ErrDependentsExist, fmt.Sprintf("course %d has %d discipline(s)", code, disciplines))
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateStats(ctx, code)
	return nil
}

// Stats summarises a course's dependents, served from cache when one is
// configured.
func (s *CourseService) Stats(ctx context.Context, code int) (*models.CourseStats, error) {
	key := statsCacheKey(code)
	if s.cache != nil {
		var cached models.CourseStats
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	start := time.Now()
	stats := &models.CourseStats{CourseCode: code}
	var err error
	if stats.Students, err = s.students.CountByCourse(ctx, code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if stats.Disciplines, err = s.disciplines.CountByCourse(ctx, code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count disciplines")
	}
	if stats.Classes, err = s.classes.CountByCourse(ctx, code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	s.metrics.ObserveDBQuery("course_stats", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache course stats", zap.Int("course", code), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *CourseService) invalidateStats(ctx context.Context, code int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, statsCacheKey(code)); err != nil {
		s.logger.Warn("failed to invalidate course stats cache", zap.Int("course", code), zap.Error(err))
	}
}

func statsCacheKey(code int) string {
	return fmt.Sprintf("stats:course:%d", code)
}
