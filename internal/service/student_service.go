package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

// MatriculaGenerator produces registration numbers in the form
// YYYYMM followed by five random digits. Clock and randomness are
// injected so generation is reproducible in tests.
type MatriculaGenerator struct {
	now func() time.Time
	rng *rand.Rand
}

// NewMatriculaGenerator builds a generator. A nil clock defaults to
// time.Now and a nil source to a time-seeded one.
func NewMatriculaGenerator(now func() time.Time, src rand.Source) *MatriculaGenerator {
	if now == nil {
		now = time.Now
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MatriculaGenerator{now: now, rng: rand.New(src)}
}

// Next returns a fresh matricula candidate.
func (g *MatriculaGenerator) Next() string {
	return fmt.Sprintf("%s%05d", g.now().Format("200601"), g.rng.Intn(100000))
}

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
	FindDetailByMatricula(ctx context.Context, matricula string) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, matricula string) error
}

type studentEnrollmentLister interface {
	ListByStudent(ctx context.Context, studentMatricula string) ([]models.EnrollmentDetail, error)
}

// CreateStudentRequest describes student registration payload. The
// matricula is never accepted from the caller; it is generated.
type CreateStudentRequest struct {
	FullName       string    `json:"full_name" validate:"required,min=3,max=120"`
	BirthDate      time.Time `json:"birth_date" validate:"required"`
	MaritalStatus  string    `json:"marital_status" validate:"required,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
	Phones         []string  `json:"phones" validate:"omitempty,dive,min=8,max=20"`
	ScholarshipPct *float64  `json:"scholarship_pct"`
	CourseCode     int       `json:"course_code" validate:"required,min=1,max=9999"`
}

// UpdateStudentRequest describes updatable student fields.
type UpdateStudentRequest struct {
	FullName       string    `json:"full_name" validate:"required,min=3,max=120"`
	BirthDate      time.Time `json:"birth_date" validate:"required"`
	Active         *bool     `json:"active" validate:"required"`
	MaritalStatus  string    `json:"marital_status" validate:"required,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
	Phones         []string  `json:"phones" validate:"omitempty,dive,min=8,max=20"`
	ScholarshipPct *float64  `json:"scholarship_pct"`
	CourseCode     int       `json:"course_code" validate:"required,min=1,max=9999"`
}

// StudentService implements student registry operations.
type StudentService struct {
	repo        studentRepository
	courses     courseReader
	enrollments studentEnrollmentLister
	matriculas  *MatriculaGenerator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, courses courseReader, enrollments studentEnrollmentLister, matriculas *MatriculaGenerator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if matriculas == nil {
		matriculas = NewMatriculaGenerator(nil, nil)
	}
	return &StudentService{repo: repo, courses: courses, enrollments: enrollments, matriculas: matriculas, validator: validate, logger: logger}
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	now := time.Now()
	for i := range students {
		students[i].Age = ageAt(students[i].BirthDate, now)
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
	return students, pagination, nil
}

// Get returns a single student with course context and derived age.
func (s *StudentService) Get(ctx context.Context, matricula string) (*models.StudentDetail, error) {
	detail, err := s.repo.FindDetailByMatricula(ctx, matricula)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", matricula))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	detail.Age = ageAt(detail.BirthDate, time.Now())
	return detail, nil
}

// Create registers a student. Registration is always created active with
// a generated matricula; generation retries on the rare collision.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, err := s.courses.FindByCode(ctx, req.CourseCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d does not exist", req.CourseCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	matricula, err := s.nextFreeMatricula(ctx)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Matricula:      matricula,
		FullName:       req.FullName,
		BirthDate:      req.BirthDate,
		Active:         true,
		MaritalStatus:  models.MaritalStatus(req.MaritalStatus),
		Phones:         req.Phones,
		ScholarshipPct: clampScholarship(req.ScholarshipPct),
		CourseCode:     req.CourseCode,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student registered", zap.String("matricula", student.Matricula), zap.Int("course", student.CourseCode))
	return student, nil
}

// Update modifies an existing student. The matricula in the path is
// authoritative and never rewritten.
func (s *StudentService) Update(ctx context.Context, matricula string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByMatricula(ctx, matricula)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", matricula))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if req.CourseCode != student.CourseCode {
		if _, err := s.courses.FindByCode(ctx, req.CourseCode); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d does not exist", req.CourseCode))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}

	student.FullName = req.FullName
	student.BirthDate = req.BirthDate
	student.Active = *req.Active
	student.MaritalStatus = models.MaritalStatus(req.MaritalStatus)
	student.Phones = req.Phones
	student.ScholarshipPct = clampScholarship(req.ScholarshipPct)
	student.CourseCode = req.CourseCode

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student. Refused while enrollments still reference
// them; cancel those first.
func (s *StudentService) Delete(ctx context.Context, matricula string) error {
	if _, err := s.repo.FindByMatricula(ctx, matricula); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", matricula))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, matricula)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollments")
	}
	if len(enrollments) > 0 {
		return appErrors.Clone(appErrors.ErrDependentsExist, fmt.Sprintf("student %s has %d enrollment(s)", matricula, len(enrollments)))
	}
	if err := s.repo.Delete(ctx, matricula); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func (s *StudentService) nextFreeMatricula(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := s.matriculas.Next()
		_, err := s.repo.FindByMatricula(ctx, candidate)
		if err == sql.ErrNoRows {
			return candidate, nil
		}
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check matricula")
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a unique matricula")
}

// clampScholarship keeps the stored percentage inside [0,100].
func clampScholarship(pct *float64) *float64 {
	if pct == nil {
		return nil
	}
	v := *pct
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

// ageAt returns whole years elapsed between birth and now.
func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}
