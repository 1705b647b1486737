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

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_matricula", "class_code", "enrolled_at", "score1", "score2", "average", "absences", "status"}).
		AddRow("20240112345", "CALC-A", time.Now(), 7.0, 5.0, 6.0, 2, models.EnrollmentStatusApproved)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_matricula, class_code, enrolled_at, score1, score2, average, absences, status")).
		WithArgs("20240112345", "CALC-A").
		WillReturnRows(rows)

	enrollment, err := repo.FindByKey(context.Background(), "20240112345", "CALC-A")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_matricula = $1 AND class_code = $2 LIMIT 1")).
		WithArgs("20240112345", "CALC-A").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "20240112345", "CALC-A")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsNoRows(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).
		WithArgs("20240112345", "CALC-A").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.Exists(context.Background(), "20240112345", "CALC-A")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{StudentMatricula: "20240112345", ClassCode: "CALC-A"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	require.False(t, enrollment.EnrolledAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateGrades(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET score1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	score1, score2 := 7.0, 5.0
	enrollment := &models.Enrollment{
		StudentMatricula: "20240112345",
		ClassCode:        "CALC-A",
		Score1:           &score1,
		Score2:           &score2,
		Average:          floatPtr(6.0),
		Absences:         intPtr(2),
		Status:           models.EnrollmentStatusApproved,
	}
	require.NoError(t, repo.UpdateGrades(context.Background(), enrollment))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_matricula", "class_code", "enrolled_at", "score1", "score2", "average", "absences", "status", "student_name", "discipline_code", "discipline_name"}).
		AddRow("20240112345", "CALC-A", time.Now(), nil, nil, nil, 0, models.EnrollmentStatusPending, "Ada Lovelace", 101, "Calculus").
		AddRow("20240112345", "ALGO-A", time.Now(), nil, nil, nil, 0, models.EnrollmentStatusPending, "Ada Lovelace", 102, "Algorithms")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.student_matricula = $1")).
		WithArgs("20240112345").
		WillReturnRows(rows)

	enrollments, err := repo.ListByStudent(context.Background(), "20240112345")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.Equal(t, 101, enrollments[0].DisciplineCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountByClass(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE class_code = $1")).
		WithArgs("CALC-A").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByClass(context.Background(), "CALC-A")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE student_matricula = $1 AND class_code = $2")).
		WithArgs("20240112345", "CALC-A").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "20240112345", "CALC-A"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
