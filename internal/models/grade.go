package models

import "time"

// GradeRow is a grade record snapshot joined with its student. Score is
// taken as stored; out-of-range values are aggregated as-is.
type GradeRow struct {
	StudentRef  string    `db:"student_ref"`
	StudentCode string    `db:"student_code"`
	StudentName string    `db:"student_name"`
	Class       string    `db:"class"`
	Subject     string    `db:"subject"`
	ExamType    string    `db:"exam_type"`
	Score       float64   `db:"score"`
	MaxScore    float64   `db:"max_score"`
	ExamDate    time.Time `db:"exam_date"`
}

// Percent returns the grade as a percentage of the maximum score, or 0 when
// the maximum is 0.
func (g GradeRow) Percent() float64 {
	if g.MaxScore == 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}

// GradeReportFilter scopes grade report queries.
type GradeReportFilter struct {
	Subject  string
	ExamType string
	Class    string
}
