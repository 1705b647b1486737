package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-records-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments. The composite
// key (student matricula, class code) identifies every row.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM enrollments e
LEFT JOIN students s ON s.matricula = e.student_matricula
LEFT JOIN classes cl ON cl.code = e.class_code
LEFT JOIN disciplines d ON d.code = cl.discipline_code`
	var conditions []string
	var args []interface{}

	if filter.StudentMatricula != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_matricula = $%d", len(args)+1))
		args = append(args, filter.StudentMatricula)
	}
	if filter.ClassCode != "" {
		conditions = append(conditions, fmt.Sprintf("e.class_code = $%d", len(args)+1))
		args = append(args, filter.ClassCode)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"enrolled_at":  "e.enrolled_at",
		"student_name": "s.full_name",
		"class_code":   "e.class_code",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "e.enrolled_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT e.student_matricula, e.class_code, e.enrolled_at, e.score1, e.score2,
        e.average, e.absences, e.status,
        COALESCE(s.full_name, '') AS student_name,
        COALESCE(cl.discipline_code, 0) AS discipline_code,
        COALESCE(d.name, '') AS discipline_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByKey returns the enrollment for a (student, class) pair.
func (r *EnrollmentRepository) FindByKey(ctx context.Context, studentMatricula, classCode string) (*models.Enrollment, error) {
	const query = `SELECT student_matricula, class_code, enrolled_at, score1, score2, average, absences, status
        FROM enrollments WHERE student_matricula = $1 AND class_code = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentMatricula, classCode); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks whether an enrollment already exists for the pair.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentMatricula, classCode string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_matricula = $1 AND class_code = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentMatricula, classCode); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	const query = `INSERT INTO enrollments (student_matricula, class_code, enrolled_at, score1, score2, average, absences, status)
        VALUES (:student_matricula, :class_code, :enrolled_at, :score1, :score2, :average, :absences, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateGrades stores the grading result: scores, absences, the derived
// average and status in one statement.
func (r *EnrollmentRepository) UpdateGrades(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET score1 = :score1, score2 = :score2, average = :average,
        absences = :absences, status = :status
        WHERE student_matricula = :student_matricula AND class_code = :class_code`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment grades: %w", err)
	}
	return nil
}

// Delete removes the enrollment for the pair.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentMatricula, classCode string) error {
	const query = `DELETE FROM enrollments WHERE student_matricula = $1 AND class_code = $2`
	if _, err := r.db.ExecContext(ctx, query, studentMatricula, classCode); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ListByStudent returns all enrollments of a student, unpaginated, with
// class and discipline context. Tuition needs the complete set.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentMatricula string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.student_matricula, e.class_code, e.enrolled_at, e.score1, e.score2,
        e.average, e.absences, e.status,
        COALESCE(s.full_name, '') AS student_name,
        COALESCE(cl.discipline_code, 0) AS discipline_code,
        COALESCE(d.name, '') AS discipline_name
        FROM enrollments e
        LEFT JOIN students s ON s.matricula = e.student_matricula
        LEFT JOIN classes cl ON cl.code = e.class_code
        LEFT JOIN disciplines d ON d.code = cl.discipline_code
        WHERE e.student_matricula = $1
        ORDER BY e.enrolled_at`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentMatricula); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// CountByClass returns how many enrollments reference the given class.
func (r *EnrollmentRepository) CountByClass(ctx context.Context, classCode string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE class_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, classCode); err != nil {
		return 0, fmt.Errorf("count class enrollments: %w", err)
	}
	return count, nil
}
