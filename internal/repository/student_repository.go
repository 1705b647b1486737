package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-records-api/internal/models"
)

// StudentRepository handles persistence of students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.matricula, s.full_name, s.birth_date, s.active, s.marital_status, s.phones,
        s.scholarship_pct, s.course_code, s.created_at, s.updated_at`

// List returns students filtered by the provided criteria.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
LEFT JOIN courses c ON c.code = s.course_code`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(s.full_name ILIKE $%d OR s.matricula ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.CourseCode != 0 {
		conditions = append(conditions, fmt.Sprintf("s.course_code = $%d", len(args)+1))
		args = append(args, filter.CourseCode)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("s.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"matricula":  "s.matricula",
		"full_name":  "s.full_name",
		"created_at": "s.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "s.matricula"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT %s, COALESCE(c.name, '') AS course_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, studentColumns, base+clause, orderBy, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByMatricula returns a student by its matricula.
func (r *StudentRepository) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	const query = `SELECT matricula, full_name, birth_date, active, marital_status, phones,
        scholarship_pct, course_code, created_at, updated_at FROM students WHERE matricula = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, matricula); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindDetailByMatricula returns a student with course context.
func (r *StudentRepository) FindDetailByMatricula(ctx context.Context, matricula string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, COALESCE(c.name, '') AS course_name
        FROM students s
        LEFT JOIN courses c ON c.code = s.course_code
        WHERE s.matricula = $1`, studentColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, matricula); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (matricula, full_name, birth_date, active, marital_status, phones,
        scholarship_pct, course_code, created_at, updated_at)
        VALUES (:matricula, :full_name, :birth_date, :active, :marital_status, :phones,
        :scholarship_pct, :course_code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update persists changes to an existing student. The matricula is the key
// and is never rewritten.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, birth_date = :birth_date, active = :active,
        marital_status = :marital_status, phones = :phones, scholarship_pct = :scholarship_pct,
        course_code = :course_code, updated_at = :updated_at
        WHERE matricula = :matricula`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student by matricula.
func (r *StudentRepository) Delete(ctx context.Context, matricula string) error {
	const query = `DELETE FROM students WHERE matricula = $1`
	if _, err := r.db.ExecContext(ctx, query, matricula); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// CountByCourse returns how many students reference the given course.
func (r *StudentRepository) CountByCourse(ctx context.Context, courseCode int) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE course_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseCode); err != nil {
		return 0, fmt.Errorf("count students in course: %w", err)
	}
	return count, nil
}
