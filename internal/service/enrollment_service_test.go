package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	"github.com/noah-isme/univ-records-api/pkg/config"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	created     *models.Enrollment
	updated     *models.Enrollment
	deleted     []string
}

func enrollmentKey(student, class string) string { return student + "/" + class }

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	var list []models.EnrollmentDetail
	for _, e := range m.enrollments {
		list = append(list, models.EnrollmentDetail{Enrollment: e})
	}
	return list, len(list), nil
}

func (m *mockEnrollmentRepo) FindByKey(ctx context.Context, studentMatricula, classCode string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[enrollmentKey(studentMatricula, classCode)]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentMatricula, classCode string) (bool, error) {
	_, ok := m.enrollments[enrollmentKey(studentMatricula, classCode)]
	return ok, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.enrollments == nil {
		m.enrollments = make(map[string]models.Enrollment)
	}
	m.enrollments[enrollmentKey(enrollment.StudentMatricula, enrollment.ClassCode)] = *enrollment
	m.created = enrollment
	return nil
}

func (m *mockEnrollmentRepo) UpdateGrades(ctx context.Context, enrollment *models.Enrollment) error {
	m.enrollments[enrollmentKey(enrollment.StudentMatricula, enrollment.ClassCode)] = *enrollment
	m.updated = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, studentMatricula, classCode string) error {
	delete(m.enrollments, enrollmentKey(studentMatricula, classCode))
	m.deleted = append(m.deleted, enrollmentKey(studentMatricula, classCode))
	return nil
}

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	if s, ok := m.students[matricula]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassReader struct{}

func (m *mockClassReader) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	if code == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Class{Code: code}, nil
}

func defaultGrading() config.GradingConfig {
	return config.GradingConfig{PassingThreshold: 6.0, AbsenceLimit: 10}
}

func newEnrollmentServiceForTest(repo *mockEnrollmentRepo, activeStudent bool) *EnrollmentService {
	students := &mockStudentReader{students: map[string]*models.Student{
		"20240112345": {Matricula: "20240112345", Active: activeStudent},
	}}
	return NewEnrollmentService(repo, students, &mockClassReader{}, defaultGrading(), validator.New(), zap.NewNop())
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentServiceForTest(repo, true)

	enrollment, err := svc.Enroll(context.Background(), EnrollStudentRequest{StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	assert.Nil(t, enrollment.Score1)
	assert.Nil(t, enrollment.Average)
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollInactiveStudent(t *testing.T) {
	svc := newEnrollmentServiceForTest(&mockEnrollmentRepo{}, false)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollMissingClass(t *testing.T) {
	svc := newEnrollmentServiceForTest(&mockEnrollmentRepo{}, true)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{StudentMatricula: "20240112345", ClassCode: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateGradesApproved(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1", Status: models.EnrollmentStatusPending},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	enrollment, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", UpdateGradesRequest{
		Score1: floatPtr(7), Score2: floatPtr(5), Absences: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Equal(t, 6.0, *enrollment.Average)
	require.NotNil(t, repo.updated)
}

func TestEnrollmentServiceUpdateGradesFailedGrade(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	enrollment, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", UpdateGradesRequest{
		Score1: floatPtr(5.9), Score2: floatPtr(6), Absences: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusFailedGrade, enrollment.Status)
	assert.InDelta(t, 5.95, *enrollment.Average, 1e-9)
}

func TestEnrollmentServiceUpdateGradesAbsencePrecedence(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	// A perfect average never beats the absence limit.
	enrollment, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", UpdateGradesRequest{
		Score1: floatPtr(10), Score2: floatPtr(10), Absences: intPtr(11),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusFailedAbsence, enrollment.Status)
	assert.Equal(t, 10.0, *enrollment.Average)
}

func TestEnrollmentServiceUpdateGradesAbsenceLimitBoundary(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	// Exactly at the limit still passes the absence rule.
	enrollment, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", UpdateGradesRequest{
		Score1: floatPtr(8), Score2: floatPtr(8), Absences: intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
}

func TestEnrollmentServiceUpdateGradesDeterministic(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	req := UpdateGradesRequest{Score1: floatPtr(4), Score2: floatPtr(7), Absences: intPtr(2)}
	first, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", req)
	require.NoError(t, err)
	second, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", req)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.Average, *second.Average)
}

func TestEnrollmentServiceUpdateGradesValidation(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	cases := []struct {
		name string
		req  UpdateGradesRequest
	}{
		{"score1 above range", UpdateGradesRequest{Score1: floatPtr(10.5), Score2: floatPtr(5), Absences: intPtr(0)}},
		{"score2 negative", UpdateGradesRequest{Score1: floatPtr(5), Score2: floatPtr(-0.1), Absences: intPtr(0)}},
		{"negative absences", UpdateGradesRequest{Score1: floatPtr(5), Score2: floatPtr(5), Absences: intPtr(-1)}},
		{"missing score", UpdateGradesRequest{Score2: floatPtr(5), Absences: intPtr(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestEnrollmentServiceUpdateGradesNotFound(t *testing.T) {
	svc := newEnrollmentServiceForTest(&mockEnrollmentRepo{}, true)

	_, err := svc.UpdateGrades(context.Background(), "20240112345", "MATH-2024-1", UpdateGradesRequest{
		Score1: floatPtr(5), Score2: floatPtr(5), Absences: intPtr(0),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceCancel(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"20240112345/MATH-2024-1": {StudentMatricula: "20240112345", ClassCode: "MATH-2024-1"},
	}}
	svc := newEnrollmentServiceForTest(repo, true)

	require.NoError(t, svc.Cancel(context.Background(), "20240112345", "MATH-2024-1"))
	assert.Contains(t, repo.deleted, "20240112345/MATH-2024-1")

	err := svc.Cancel(context.Background(), "20240112345", "MATH-2024-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
