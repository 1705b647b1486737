package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-records-api/internal/models"
)

func newStudentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"matricula", "full_name", "birth_date", "active", "marital_status", "phones", "scholarship_pct", "course_code", "created_at", "updated_at"})
}

func TestStudentRepositoryFindByMatricula(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow("20240112345", "Ada Lovelace", time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), true, models.MaritalSingle, "{11988887777}", 20.0, 10, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE matricula = $1")).
		WithArgs("20240112345").
		WillReturnRows(rows)

	student, err := repo.FindByMatricula(context.Background(), "20240112345")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", student.FullName)
	require.Len(t, student.Phones, 1)
	require.NotNil(t, student.ScholarshipPct)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"matricula", "full_name", "birth_date", "active", "marital_status", "phones", "scholarship_pct", "course_code", "created_at", "updated_at", "course_name"}).
		AddRow("20240112345", "Ada Lovelace", time.Now(), true, models.MaritalSingle, "{}", nil, 10, time.Now(), time.Now(), "Engineering")
	mock.ExpectQuery(regexp.QuoteMeta("s.course_code = $1")).
		WithArgs(10).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{CourseCode: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "Engineering", students[0].CourseName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{
		Matricula:     "20240112345",
		FullName:      "Ada Lovelace",
		BirthDate:     time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC),
		Active:        true,
		MaritalStatus: models.MaritalSingle,
		Phones:        []string{"11988887777"},
		CourseCode:    10,
	}
	require.NoError(t, repo.Create(context.Background(), student))
	require.False(t, student.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCountByCourse(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE course_code = $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByCourse(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE matricula = $1")).
		WithArgs("20240112345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "20240112345"))
	require.NoError(t, mock.ExpectationsWereMet())
}
