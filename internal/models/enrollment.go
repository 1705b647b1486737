package models

import "time"

// EnrollmentStatus is the academic status derived from scores and absences.
type EnrollmentStatus string

// Possible enrollment statuses. A new enrollment starts PENDING and only
// the grading update moves it to one of the derived states.
const (
	EnrollmentStatusPending       EnrollmentStatus = "PENDING"
	EnrollmentStatusApproved      EnrollmentStatus = "APPROVED"
	EnrollmentStatusFailedGrade   EnrollmentStatus = "FAILED_GRADE"
	EnrollmentStatusFailedAbsence EnrollmentStatus = "FAILED_ABSENCE"
)

// Enrollment associates a student with a class offering. The pair
// (StudentMatricula, ClassCode) is the composite key. Average and Status
// are derived together from the scores and absences; no write path sets
// them independently.
type Enrollment struct {
	StudentMatricula string           `db:"student_matricula" json:"student_matricula"`
	ClassCode        string           `db:"class_code" json:"class_code"`
	EnrolledAt       time.Time        `db:"enrolled_at" json:"enrolled_at"`
	Score1           *float64         `db:"score1" json:"score1,omitempty"`
	Score2           *float64         `db:"score2" json:"score2,omitempty"`
	Average          *float64         `db:"average" json:"average,omitempty"`
	Absences         *int             `db:"absences" json:"absences,omitempty"`
	Status           EnrollmentStatus `db:"status" json:"status"`
}

// EnrollmentDetail enriches Enrollment with student and class info.
type EnrollmentDetail struct {
	Enrollment
	StudentName    string `db:"student_name" json:"student_name"`
	DisciplineCode int    `db:"discipline_code" json:"discipline_code"`
	DisciplineName string `db:"discipline_name" json:"discipline_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentMatricula string
	ClassCode        string
	Status           EnrollmentStatus
	Page             int
	PageSize         int
	SortBy           string
	SortOrder        string
}
