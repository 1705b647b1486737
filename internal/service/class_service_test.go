package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type mockClassRepo struct {
	classes map[string]models.Class
	deleted []string
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	var list []models.ClassDetail
	for _, c := range m.classes {
		list = append(list, models.ClassDetail{Class: c})
	}
	return list, len(list), nil
}

func (m *mockClassRepo) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	if c, ok := m.classes[code]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.classes == nil {
		m.classes = make(map[string]models.Class)
	}
	m.classes[class.Code] = *class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	m.classes[class.Code] = *class
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, code string) error {
	delete(m.classes, code)
	m.deleted = append(m.deleted, code)
	return nil
}

type mockProfessorReader struct {
	professors map[string]*models.Professor
}

func (m *mockProfessorReader) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	if p, ok := m.professors[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassEnrollmentCounter struct {
	counts map[string]int
}

func (m *mockClassEnrollmentCounter) CountByClass(ctx context.Context, classCode string) (int, error) {
	return m.counts[classCode], nil
}

const testProfessorID = "6f1c2c6a-9b3e-4f0e-8a53-1c0a4d2f9b11"

func newClassServiceForTest(repo *mockClassRepo, cache CacheStore) *ClassService {
	disciplines := &mockDisciplineReader{disciplines: map[int]*models.Discipline{
		101: {Code: 101, Name: "Calculus", CourseCode: 10},
	}}
	professors := &mockProfessorReader{professors: map[string]*models.Professor{
		testProfessorID: {ID: testProfessorID, FullName: "Grace Hopper", Active: true},
	}}
	enrollments := &mockClassEnrollmentCounter{}
	now := fixedClock(2024, time.March)
	return NewClassService(repo, disciplines, professors, enrollments, cache, now, nil, nil)
}

func classRequest() CreateClassRequest {
	return CreateClassRequest{
		Code:           "CALC-A",
		Year:           2024,
		Term:           1,
		DisciplineCode: 101,
		ProfessorID:    testProfessorID,
	}
}

func TestClassServiceCreate(t *testing.T) {
	repo := &mockClassRepo{}
	svc := newClassServiceForTest(repo, nil)

	class, err := svc.Create(context.Background(), classRequest())
	require.NoError(t, err)
	assert.Equal(t, "CALC-A", class.Code)
	assert.Contains(t, repo.classes, "CALC-A")
}

func TestClassServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{"CALC-A": {Code: "CALC-A"}}}
	svc := newClassServiceForTest(repo, nil)

	_, err := svc.Create(context.Background(), classRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestClassServiceCreateYearBounds(t *testing.T) {
	svc := newClassServiceForTest(&mockClassRepo{}, nil)

	cases := []struct {
		name string
		year int
		ok   bool
	}{
		{"too old", 1999, false},
		{"lower bound", 2000, true},
		{"next year", 2025, true},
		{"too far ahead", 2026, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := classRequest()
			req.Code = "CALC-" + tc.name
			req.Year = tc.year
			_, err := svc.Create(context.Background(), req)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			}
		})
	}
}

func TestClassServiceCreateInvalidTerm(t *testing.T) {
	svc := newClassServiceForTest(&mockClassRepo{}, nil)

	req := classRequest()
	req.Term = 3
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassServiceCreateUnknownDiscipline(t *testing.T) {
	svc := newClassServiceForTest(&mockClassRepo{}, nil)

	req := classRequest()
	req.DisciplineCode = 999
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassServiceCreateInactiveProfessor(t *testing.T) {
	repo := &mockClassRepo{}
	svc := newClassServiceForTest(repo, nil)
	svc.professors.(*mockProfessorReader).professors[testProfessorID].Active = false

	_, err := svc.Create(context.Background(), classRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.classes)
}

func TestClassServiceDeleteGuardedByEnrollments(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{"CALC-A": {Code: "CALC-A"}}}
	svc := newClassServiceForTest(repo, nil)
	svc.enrollments.(*mockClassEnrollmentCounter).counts = map[string]int{"CALC-A": 4}

	err := svc.Delete(context.Background(), "CALC-A")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDependentsExist.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestClassServiceDeleteInvalidatesStats(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{"CALC-A": {Code: "CALC-A"}}}
	cache := &mockCache{}
	svc := newClassServiceForTest(repo, cache)

	require.NoError(t, svc.Delete(context.Background(), "CALC-A"))
	assert.Contains(t, repo.deleted, "CALC-A")
	assert.Contains(t, cache.deletes, "stats:course:*")
}
