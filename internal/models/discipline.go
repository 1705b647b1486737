package models

import "time"

// Discipline represents a subject belonging to exactly one course.
type Discipline struct {
	Code       int       `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	CourseCode int       `db:"course_code" json:"course_code"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DisciplineDetail extends Discipline with course context.
type DisciplineDetail struct {
	Discipline
	CourseName string `db:"course_name" json:"course_name"`
}

// DisciplineFilter captures supported filters for listing disciplines.
type DisciplineFilter struct {
	CourseCode int
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
