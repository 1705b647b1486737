package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

type mockProfessorRepo struct {
	professors map[string]models.Professor
	deleted    []string
}

func (m *mockProfessorRepo) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	var list []models.Professor
	for _, p := range m.professors {
		list = append(list, p)
	}
	return list, len(list), nil
}

func (m *mockProfessorRepo) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	if p, ok := m.professors[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfessorRepo) Create(ctx context.Context, professor *models.Professor) error {
	if m.professors == nil {
		m.professors = make(map[string]models.Professor)
	}
	m.professors[professor.ID] = *professor
	return nil
}

func (m *mockProfessorRepo) Update(ctx context.Context, professor *models.Professor) error {
	m.professors[professor.ID] = *professor
	return nil
}

func (m *mockProfessorRepo) Delete(ctx context.Context, id string) error {
	delete(m.professors, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockProfessorClassCounter struct {
	counts map[string]int
}

func (m *mockProfessorClassCounter) CountByProfessor(ctx context.Context, professorID string) (int, error) {
	return m.counts[professorID], nil
}

func TestProfessorServiceCreate(t *testing.T) {
	repo := &mockProfessorRepo{}
	svc := NewProfessorService(repo, &mockProfessorClassCounter{}, nil, nil)

	professor, err := svc.Create(context.Background(), CreateProfessorRequest{
		FullName:  "Grace Hopper",
		BirthDate: time.Date(1960, time.December, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, professor.Active)
	_, err = uuid.Parse(professor.ID)
	assert.NoError(t, err)
	assert.Contains(t, repo.professors, professor.ID)
}

func TestProfessorServiceCreateShortName(t *testing.T) {
	svc := NewProfessorService(&mockProfessorRepo{}, &mockProfessorClassCounter{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateProfessorRequest{
		FullName:  "Al",
		BirthDate: time.Date(1960, time.December, 9, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfessorServiceUpdateDeactivates(t *testing.T) {
	id := uuid.NewString()
	repo := &mockProfessorRepo{professors: map[string]models.Professor{
		id: {ID: id, FullName: "Grace Hopper", Active: true},
	}}
	svc := NewProfessorService(repo, &mockProfessorClassCounter{}, nil, nil)

	active := false
	professor, err := svc.Update(context.Background(), id, UpdateProfessorRequest{
		FullName:  "Grace Hopper",
		BirthDate: time.Date(1960, time.December, 9, 0, 0, 0, 0, time.UTC),
		Active:    &active,
	})
	require.NoError(t, err)
	assert.False(t, professor.Active)
	assert.False(t, repo.professors[id].Active)
}

func TestProfessorServiceDeleteGuardedByClasses(t *testing.T) {
	id := uuid.NewString()
	repo := &mockProfessorRepo{professors: map[string]models.Professor{id: {ID: id}}}
	classes := &mockProfessorClassCounter{counts: map[string]int{id: 2}}
	svc := NewProfessorService(repo, classes, nil, nil)

	err := svc.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDependentsExist.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestProfessorServiceDelete(t *testing.T) {
	id := uuid.NewString()
	repo := &mockProfessorRepo{professors: map[string]models.Professor{id: {ID: id}}}
	svc := NewProfessorService(repo, &mockProfessorClassCounter{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Contains(t, repo.deleted, id)
}

func TestProfessorServiceGetNotFound(t *testing.T) {
	svc := NewProfessorService(&mockProfessorRepo{}, &mockProfessorClassCounter{}, nil, nil)

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
