package models

import "time"

// TimeWindow is an inclusive date range used to scope time-stamped records.
// Either bound may be nil; both nil means all time. An inverted window
// (end before start) is legal and matches nothing.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// Unbounded reports whether the window places no restriction on dates.
func (w TimeWindow) Unbounded() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// StudentReportFilter scopes the student report query.
type StudentReportFilter struct {
	Class        string
	AcademicYear string
	Status       StudentStatus
}

// StudentReportRow carries a student together with derived attendance and
// grade metrics. AverageGrade is nil when the student has no grade records,
// which is distinct from an average of zero.
type StudentReportRow struct {
	StudentCode  string        `db:"student_id"`
	FullName     string        `db:"full_name"`
	Class        string        `db:"class"`
	AcademicYear string        `db:"academic_year"`
	Status       StudentStatus `db:"status"`
	PresentDays  int           `db:"present_days"`
	AbsentDays   int           `db:"absent_days"`
	AverageGrade *float64      `db:"avg_grade"`
}

// DashboardCounts holds the raw totals composed into the dashboard report.
type DashboardCounts struct {
	TotalStudents     int
	TotalDonors       int
	CollectedAmount   float64
	PendingAmount     float64
	PendingCount      int
	TotalDonations    float64
	UpcomingEvents    int
	UpcomingBirthdays int
}
