package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	"github.com/noah-isme/univ-records-api/pkg/config"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByKey(ctx context.Context, studentMatricula, classCode string) (*models.Enrollment, error)
	Exists(ctx context.Context, studentMatricula, classCode string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateGrades(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentMatricula, classCode string) error
}

type studentReader interface {
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
}

type classReader interface {
	FindByCode(ctx context.Context, code string) (*models.Class, error)
}

// EnrollStudentRequest describes enrollment creation payload.
type EnrollStudentRequest struct {
	StudentMatricula string `json:"student_matricula" validate:"required"`
	ClassCode        string `json:"class_code" validate:"required"`
}

// UpdateGradesRequest carries the raw grading inputs. All three fields are
// required: a status is only derivable from a complete set, so the stored
// average and status can never disagree.
type UpdateGradesRequest struct {
	Score1   *float64 `json:"score1" validate:"required"`
	Score2   *float64 `json:"score2" validate:"required"`
	Absences *int     `json:"absences" validate:"required"`
}

// EnrollmentService owns the enrollment lifecycle and the grading engine.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentReader
	classes   classReader
	grading   config.GradingConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, classes classReader, grading config.GradingConfig, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if grading.PassingThreshold <= 0 {
		grading.PassingThreshold = config.DefaultPassingThreshold
	}
	if grading.AbsenceLimit <= 0 {
		grading.AbsenceLimit = config.DefaultAbsenceLimit
	}
	return &EnrollmentService{repo: repo, students: students, classes: classes, grading: grading, validator: validate, logger: logger}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
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
	return enrollments, pagination, nil
}

// Get returns a single enrollment by its composite key.
func (s *EnrollmentService) Get(ctx context.Context, studentMatricula, classCode string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByKey(ctx, studentMatricula, classCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Enroll registers a student into a class offering. The new enrollment
// starts PENDING with no scores.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	student, err := s.students.FindByMatricula(ctx, req.StudentMatricula)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", req.StudentMatricula))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student registration is inactive")
	}
	if _, err := s.classes.FindByCode(ctx, req.ClassCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", req.ClassCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	exists, err := s.repo.Exists(ctx, req.StudentMatricula, req.ClassCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %s is already enrolled in class %s", req.StudentMatricula, req.ClassCode))
	}
	enrollment := &models.Enrollment{
		StudentMatricula: req.StudentMatricula,
		ClassCode:        req.ClassCode,
		Status:           models.EnrollmentStatusPending,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// UpdateGrades validates the raw inputs, stores them and derives the
// academic status. The derivation is deterministic: identical inputs
// always reproduce the same average and status.
func (s *EnrollmentService) UpdateGrades(ctx context.Context, studentMatricula, classCode string, req UpdateGradesRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "both scores and the absence count are required")
	}
	if *req.Score1 < 0 || *req.Score1 > 10 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score 1 must be between 0 and 10")
	}
	if *req.Score2 < 0 || *req.Score2 > 10 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score 2 must be between 0 and 10")
	}
	if *req.Absences < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "absence count cannot be negative")
	}

	enrollment, err := s.repo.FindByKey(ctx, studentMatricula, classCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("enrollment not found for student %s in class %s", studentMatricula, classCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	average := (*req.Score1 + *req.Score2) / 2.0
	enrollment.Score1 = req.Score1
	enrollment.Score2 = req.Score2
	enrollment.Absences = req.Absences
	enrollment.Average = &average
	enrollment.Status = s.deriveStatus(average, *req.Absences)

	if err := s.repo.UpdateGrades(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist grades")
	}
	s.logger.Debug("grades updated",
		zap.String("student", studentMatricula),
		zap.String("class", classCode),
		zap.Float64("average", average),
		zap.String("status", string(enrollment.Status)),
	)
	return enrollment, nil
}

// Cancel removes the enrollment for the pair. No cascade: the student and
// class records are untouched.
func (s *EnrollmentService) Cancel(ctx context.Context, studentMatricula, classCode string) error {
	exists, err := s.repo.Exists(ctx, studentMatricula, classCode)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("enrollment not found for student %s in class %s", studentMatricula, classCode))
	}
	if err := s.repo.Delete(ctx, studentMatricula, classCode); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	return nil
}

// deriveStatus applies the status rules in priority order: the absence
// limit beats any average, then the passing threshold decides.
func (s *EnrollmentService) deriveStatus(average float64, absences int) models.EnrollmentStatus {
	if absences > s.grading.AbsenceLimit {
		return models.EnrollmentStatusFailedAbsence
	}
	if average >= s.grading.PassingThreshold {
		return models.EnrollmentStatusApproved
	}
	return models.EnrollmentStatusFailedGrade
}
