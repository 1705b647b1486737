package service

import (
	"context"
	"database/sql"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
	created  *models.Student
	updated  *models.Student
	deleted  []string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var list []models.StudentDetail
	for _, s := range m.students {
		list = append(list, models.StudentDetail{Student: s})
	}
	return list, len(list), nil
}

func (m *mockStudentRepo) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	if s, ok := m.students[matricula]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindDetailByMatricula(ctx context.Context, matricula string) (*models.StudentDetail, error) {
	if s, ok := m.students[matricula]; ok {
		return &models.StudentDetail{Student: s, CourseName: "Engineering"}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	m.students[student.Matricula] = *student
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.Matricula] = *student
	m.updated = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, matricula string) error {
	delete(m.students, matricula)
	m.deleted = append(m.deleted, matricula)
	return nil
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC) }
}

func newStudentServiceForTest(repo *mockStudentRepo, enrollments *mockTuitionEnrollments) *StudentService {
	courses := &mockCourseReader{courses: map[int]*models.Course{
		10: {Code: 10, Name: "Engineering", BaseTuition: floatPtr(500)},
	}}
	if enrollments == nil {
		enrollments = &mockTuitionEnrollments{}
	}
	gen := NewMatriculaGenerator(fixedClock(2024, time.March), rand.NewSource(42))
	return NewStudentService(repo, courses, enrollments, gen, validator.New(), zap.NewNop())
}

func TestMatriculaGeneratorFormat(t *testing.T) {
	gen := NewMatriculaGenerator(fixedClock(2024, time.March), rand.NewSource(1))

	matricula := gen.Next()
	assert.Len(t, matricula, 11)
	assert.Regexp(t, regexp.MustCompile(`^202403\d{5}$`), matricula)
}

func TestMatriculaGeneratorDeterministic(t *testing.T) {
	a := NewMatriculaGenerator(fixedClock(2025, time.January), rand.NewSource(7))
	b := NewMatriculaGenerator(fixedClock(2025, time.January), rand.NewSource(7))

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentServiceForTest(repo, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName:      "Ana Souza",
		BirthDate:     time.Date(2000, time.May, 10, 0, 0, 0, 0, time.UTC),
		MaritalStatus: "SINGLE",
		Phones:        []string{"11988887777"},
		CourseCode:    10,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.True(t, student.Active)
	assert.Regexp(t, regexp.MustCompile(`^202403\d{5}$`), student.Matricula)
}

func TestStudentServiceCreateUnknownCourse(t *testing.T) {
	svc := newStudentServiceForTest(&mockStudentRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName:      "Ana Souza",
		BirthDate:     time.Date(2000, time.May, 10, 0, 0, 0, 0, time.UTC),
		MaritalStatus: "SINGLE",
		CourseCode:    99,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateClampsScholarship(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentServiceForTest(repo, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName:       "Ana Souza",
		BirthDate:      time.Date(2000, time.May, 10, 0, 0, 0, 0, time.UTC),
		MaritalStatus:  "SINGLE",
		ScholarshipPct: floatPtr(-30),
		CourseCode:     10,
	})
	require.NoError(t, err)
	require.NotNil(t, student.ScholarshipPct)
	assert.Zero(t, *student.ScholarshipPct)
}

func TestStudentServiceUpdateKeepsMatricula(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"20240112345": {Matricula: "20240112345", FullName: "Ana Souza", Active: true, MaritalStatus: models.MaritalSingle, CourseCode: 10},
	}}
	svc := newStudentServiceForTest(repo, nil)

	active := false
	student, err := svc.Update(context.Background(), "20240112345", UpdateStudentRequest{
		FullName:      "Ana Souza Lima",
		BirthDate:     time.Date(2000, time.May, 10, 0, 0, 0, 0, time.UTC),
		Active:        &active,
		MaritalStatus: "MARRIED",
		CourseCode:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, "20240112345", student.Matricula)
	assert.Equal(t, "Ana Souza Lima", student.FullName)
	assert.False(t, student.Active)
}

func TestStudentServiceDeleteGuardedByEnrollments(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"20240112345": {Matricula: "20240112345", Active: true},
	}}
	enrollments := &mockTuitionEnrollments{byStudent: map[string][]models.EnrollmentDetail{
		"20240112345": {detailFor("20240112345", "CALC-A", 101)},
	}}
	svc := newStudentServiceForTest(repo, enrollments)

	err := svc.Delete(context.Background(), "20240112345")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDependentsExist.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"20240112345": {Matricula: "20240112345", Active: true},
	}}
	svc := newStudentServiceForTest(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "20240112345"))
	assert.Contains(t, repo.deleted, "20240112345")
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, ageAt(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 23, ageAt(time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, ageAt(now.AddDate(0, 6, 0), now))
}
