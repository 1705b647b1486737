package models

import "time"

// Course represents a program of study grouping disciplines.
// Code is the immutable business key, constrained to 1..9999.
type Course struct {
	Code        int       `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	BaseTuition *float64  `db:"base_tuition" json:"base_tuition,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter defines filter criteria for listing courses.
type CourseFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CourseStats summarises a course's dependents.
type CourseStats struct {
	CourseCode  int `json:"course_code"`
	Students    int `json:"students"`
	Disciplines int `json:"disciplines"`
	Classes     int `json:"classes"`
}
