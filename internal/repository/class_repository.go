package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-records-api/internal/models"
)

// ClassRepository handles persistence of class offerings.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes filtered by the provided criteria.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	base := `FROM classes cl
LEFT JOIN disciplines d ON d.code = cl.discipline_code
LEFT JOIN professors p ON p.id = cl.professor_id`
	var conditions []string
	var args []interface{}

	if filter.DisciplineCode != 0 {
		conditions = append(conditions, fmt.Sprintf("cl.discipline_code = $%d", len(args)+1))
		args = append(args, filter.DisciplineCode)
	}
	if filter.ProfessorID != "" {
		conditions = append(conditions, fmt.Sprintf("cl.professor_id = $%d", len(args)+1))
		args = append(args, filter.ProfessorID)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("cl.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Term != 0 {
		conditions = append(conditions, fmt.Sprintf("cl.term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"code":            "cl.code",
		"year":            "cl.year",
		"discipline_name": "d.name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "cl.code"
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

	query := fmt.Sprintf(`SELECT cl.code, cl.year, cl.term, cl.discipline_code, cl.professor_id,
        cl.created_at, cl.updated_at,
        COALESCE(d.name, '') AS discipline_name, COALESCE(p.full_name, '') AS professor_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByCode returns a class by its code.
func (r *ClassRepository) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	const query = `SELECT code, year, term, discipline_code, professor_id, created_at, updated_at
        FROM classes WHERE code = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create persists a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (code, year, term, discipline_code, professor_id, created_at, updated_at)
        VALUES (:code, :year, :term, :discipline_code, :professor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET year = :year, term = :term, discipline_code = :discipline_code,
        professor_id = :professor_id, updated_at = :updated_at
        WHERE code = :code`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class by code.
func (r *ClassRepository) Delete(ctx context.Context, code string) error {
	const query = `DELETE FROM classes WHERE code = $1`
	if _, err := r.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// CountByDiscipline returns how many classes offer the given discipline.
func (r *ClassRepository) CountByDiscipline(ctx context.Context, disciplineCode int) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE discipline_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, disciplineCode); err != nil {
		return 0, fmt.Errorf("count classes of discipline: %w", err)
	}
	return count, nil
}

// CountByCourse returns how many classes exist across all of a course's
// disciplines.
func (r *ClassRepository) CountByCourse(ctx context.Context, courseCode int) (int, error) {
	const query = `SELECT COUNT(*) FROM classes cl
        JOIN disciplines d ON d.code = cl.discipline_code
        WHERE d.course_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseCode); err != nil {
		return 0, fmt.Errorf("count course classes: %w", err)
	}
	return count, nil
}

// CountByProfessor returns how many classes the given professor teaches.
func (r *ClassRepository) CountByProfessor(ctx context.Context, professorID string) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE professor_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, professorID); err != nil {
		return 0, fmt.Errorf("count classes of professor: %w", err)
	}
	return count, nil
}
