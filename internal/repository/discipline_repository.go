package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-records-api/internal/models"
)

// DisciplineRepository handles persistence of disciplines.
type DisciplineRepository struct {
	db *sqlx.DB
}

// NewDisciplineRepository constructs the repository.
func NewDisciplineRepository(db *sqlx.DB) *DisciplineRepository {
	return &DisciplineRepository{db: db}
}

// List returns disciplines filtered by the provided criteria.
func (r *DisciplineRepository) List(ctx context.Context, filter models.DisciplineFilter) ([]models.DisciplineDetail, int, error) {
	base := `FROM disciplines d
LEFT JOIN courses c ON c.code = d.course_code`
	var conditions []string
	var args []interface{}

	if filter.CourseCode != 0 {
		conditions = append(conditions, fmt.Sprintf("d.course_code = $%d", len(args)+1))
		args = append(args, filter.CourseCode)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("d.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"code":        "d.code",
		"name":        "d.name",
		"course_name": "c.name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "d.code"
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

	query := fmt.Sprintf(`SELECT d.code, d.name, d.course_code, d.created_at, d.updated_at,
        COALESCE(c.name, '') AS course_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var disciplines []models.DisciplineDetail
	if err := r.db.SelectContext(ctx, &disciplines, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list disciplines: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count disciplines: %w", err)
	}
	return disciplines, total, nil
}

// FindByCode returns a discipline by its code.
func (r *DisciplineRepository) FindByCode(ctx context.Context, code int) (*models.Discipline, error) {
	const query = `SELECT code, name, course_code, created_at, updated_at FROM disciplines WHERE code = $1`
	var discipline models.Discipline
	if err := r.db.GetContext(ctx, &discipline, query, code); err != nil {
		return nil, err
	}
	return &discipline, nil
}

// Create persists a new discipline record.
func (r *DisciplineRepository) Create(ctx context.Context, discipline *models.Discipline) error {
	now := time.Now().UTC()
	discipline.CreatedAt = now
	discipline.UpdatedAt = now
	const query = `INSERT INTO disciplines (code, name, course_code, created_at, updated_at)
        VALUES (:code, :name, :course_code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, discipline); err != nil {
		return fmt.Errorf("create discipline: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an existing discipline.
func (r *DisciplineRepository) Update(ctx context.Context, discipline *models.Discipline) error {
	discipline.UpdatedAt = time.Now().UTC()
	const query = `UPDATE disciplines SET name = :name, course_code = :course_code, updated_at = :updated_at
        WHERE code = :code`
	if _, err := r.db.NamedExecContext(ctx, query, discipline); err != nil {
		return fmt.Errorf("update discipline: %w", err)
	}
	return nil
}

// Delete removes a discipline by code.
func (r *DisciplineRepository) Delete(ctx context.Context, code int) error {
	const query = `DELETE FROM disciplines WHERE code = $1`
	if _, err := r.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("delete discipline: %w", err)
	}
	return nil
}

// CountByCourse returns how many disciplines belong to the given course.
func (r *DisciplineRepository) CountByCourse(ctx context.Context, courseCode int) (int, error) {
	const query = `SELECT COUNT(*) FROM disciplines WHERE course_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseCode); err != nil {
		return 0, fmt.Errorf("count disciplines in course: %w", err)
	}
	return count, nil
}
