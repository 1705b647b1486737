package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

// DiscountPolicy transforms a base monthly amount into the amount due.
// The set of policies is closed: callers pick one via policyFor, they do
// not inject their own.
type DiscountPolicy interface {
	Apply(amount float64) float64
}

// NoDiscount charges the base amount unchanged.
type NoDiscount struct{}

// Apply returns the amount untouched.
func (NoDiscount) Apply(amount float64) float64 { return amount }

// PercentageDiscount reduces the amount by a fixed percentage.
type PercentageDiscount struct {
	pct float64
}

// NewPercentageDiscount clamps pct into [0,100] before building the
// policy, so a bad scholarship record can never increase a bill or turn
// it negative.
func NewPercentageDiscount(pct float64) PercentageDiscount {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return PercentageDiscount{pct: pct}
}

// Pct reports the effective percentage after clamping.
func (p PercentageDiscount) Pct() float64 { return p.pct }

// Apply reduces amount by the configured percentage.
func (p PercentageDiscount) Apply(amount float64) float64 {
	return amount * (1 - p.pct/100)
}

type tuitionEnrollmentLister interface {
	ListByStudent(ctx context.Context, studentMatricula string) ([]models.EnrollmentDetail, error)
}

type disciplineReader interface {
	FindByCode(ctx context.Context, code int) (*models.Discipline, error)
}

type courseReader interface {
	FindByCode(ctx context.Context, code int) (*models.Course, error)
}

// TuitionService computes monthly tuition statements. A student pays the
// base tuition of the owning course once per distinct discipline they are
// enrolled in; multiple classes of the same discipline count once.
type TuitionService struct {
	enrollments tuitionEnrollmentLister
	students    studentReader
	disciplines disciplineReader
	courses     courseReader
	logger      *zap.Logger
}

// NewTuitionService constructs TuitionService.
func NewTuitionService(enrollments tuitionEnrollmentLister, students studentReader, disciplines disciplineReader, courses courseReader, logger *zap.Logger) *TuitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TuitionService{enrollments: enrollments, students: students, disciplines: disciplines, courses: courses, logger: logger}
}

// ComputeMonthlyTuition returns the amount due for the student's current
// enrollments after the scholarship discount.
func (s *TuitionService) ComputeMonthlyTuition(ctx context.Context, matricula string) (float64, error) {
	statement, err := s.Statement(ctx, matricula)
	if err != nil {
		return 0, err
	}
	return statement.FinalAmount, nil
}

// Statement builds the full per-discipline breakdown for the student.
// A student with no enrollments gets a statement of zero, not an error.
func (s *TuitionService) Statement(ctx context.Context, matricula string) (*models.TuitionStatement, error) {
	student, err := s.students.FindByMatricula(ctx, matricula)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", matricula))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, matricula)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	lines, err := s.buildLines(ctx, enrollments)
	if err != nil {
		return nil, err
	}

	var base float64
	for _, line := range lines {
		base += line.BaseAmount
	}

	policy := s.policyFor(student)
	statement := &models.TuitionStatement{
		StudentMatricula: student.Matricula,
		StudentName:      student.FullName,
		Lines:            lines,
		BaseAmount:       base,
		FinalAmount:      policy.Apply(base),
	}
	if p, ok := policy.(PercentageDiscount); ok {
		statement.ScholarshipPct = p.Pct()
	}
	return statement, nil
}

// buildLines collapses the enrollments down to one line per distinct
// discipline and prices each against its course's base tuition. A course
// with no base tuition configured contributes zero.
func (s *TuitionService) buildLines(ctx context.Context, enrollments []models.EnrollmentDetail) ([]models.TuitionLine, error) {
	seen := make(map[int]bool, len(enrollments))
	courseCache := make(map[int]*models.Course)
	lines := make([]models.TuitionLine, 0, len(enrollments))

	for _, e := range enrollments {
		if seen[e.DisciplineCode] {
			continue
		}
		seen[e.DisciplineCode] = true

		discipline, err := s.disciplines.FindByCode(ctx, e.DisciplineCode)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
		}

		course, ok := courseCache[discipline.CourseCode]
		if !ok {
			course, err = s.courses.FindByCode(ctx, discipline.CourseCode)
			if err != nil {
				if err == sql.ErrNoRows {
					course = nil
				} else {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
				}
			}
			courseCache[discipline.CourseCode] = course
		}

		var amount float64
		if course != nil && course.BaseTuition != nil {
			amount = *course.BaseTuition
		}
		lines = append(lines, models.TuitionLine{
			DisciplineCode: discipline.Code,
			DisciplineName: discipline.Name,
			CourseCode:     discipline.CourseCode,
			BaseAmount:     amount,
		})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].DisciplineCode < lines[j].DisciplineCode })
	return lines, nil
}

// policyFor selects the discount policy from the student's scholarship.
func (s *TuitionService) policyFor(student *models.Student) DiscountPolicy {
	if student.ScholarshipPct == nil || *student.ScholarshipPct == 0 {
		return NoDiscount{}
	}
	return NewPercentageDiscount(*student.ScholarshipPct)
}
