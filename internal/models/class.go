package models

import "time"

// Class represents a scheduled offering of a discipline in a year/term,
// taught by one professor.
type Class struct {
	Code           string    `db:"code" json:"code"`
	Year           int       `db:"year" json:"year"`
	Term           int       `db:"term" json:"term"`
	DisciplineCode int       `db:"discipline_code" json:"discipline_code"`
	ProfessorID    string    `db:"professor_id" json:"professor_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with discipline and professor info.
type ClassDetail struct {
	Class
	DisciplineName string `db:"discipline_name" json:"discipline_name"`
	ProfessorName  string `db:"professor_name" json:"professor_name"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	DisciplineCode int
	ProfessorID    string
	Year           int
	Term           int
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
