package models

// TuitionLine is one distinct discipline contributing to a student's
// monthly tuition.
type TuitionLine struct {
	DisciplineCode int     `json:"discipline_code"`
	DisciplineName string  `json:"discipline_name"`
	CourseCode     int     `json:"course_code"`
	BaseAmount     float64 `json:"base_amount"`
}

// TuitionStatement breaks down a student's monthly tuition. A student
// pays once per distinct discipline regardless of how many classes of
// that discipline they are enrolled in.
type TuitionStatement struct {
	StudentMatricula string        `json:"student_matricula"`
	StudentName      string        `json:"student_name"`
	Lines            []TuitionLine `json:"lines"`
	BaseAmount       float64       `json:"base_amount"`
	ScholarshipPct   float64       `json:"scholarship_pct"`
	FinalAmount      float64       `json:"final_amount"`
}
