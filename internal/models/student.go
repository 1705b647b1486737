package models

import (
	"time"

	"github.com/lib/pq"
)

// MaritalStatus enumerates the registry's civil status values.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "SINGLE"
	MaritalMarried  MaritalStatus = "MARRIED"
	MaritalDivorced MaritalStatus = "DIVORCED"
	MaritalWidowed  MaritalStatus = "WIDOWED"
)

// Student represents a learner registered in the university.
// Matricula is assigned at registration and never changes.
type Student struct {
	Matricula      string         `db:"matricula" json:"matricula"`
	FullName       string         `db:"full_name" json:"full_name"`
	BirthDate      time.Time      `db:"birth_date" json:"birth_date"`
	Active         bool           `db:"active" json:"active"`
	MaritalStatus  MaritalStatus  `db:"marital_status" json:"marital_status"`
	Phones         pq.StringArray `db:"phones" json:"phones"`
	ScholarshipPct *float64       `db:"scholarship_pct" json:"scholarship_pct,omitempty"`
	CourseCode     int            `db:"course_code" json:"course_code"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches Student with course context and derived age.
type StudentDetail struct {
	Student
	CourseName string `db:"course_name" json:"course_name"`
	Age        int    `db:"-" json:"age"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	CourseCode int
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
