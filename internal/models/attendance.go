package models

import "time"

// AttendanceStatus enumerates the recognised attendance states.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRow is a point-in-time attendance record snapshot joined with
// its student. One row exists per (student, date); upsert semantics belong
// to the persistence layer.
type AttendanceRow struct {
	StudentRef  string           `db:"student_ref"`
	StudentCode string           `db:"student_code"`
	StudentName string           `db:"student_name"`
	Class       string           `db:"class"`
	Date        time.Time        `db:"date"`
	Status      AttendanceStatus `db:"status"`
}

// StudentRef identifies an enrolled student for roster-joined aggregations.
type StudentRef struct {
	Ref         string `db:"id"`
	StudentCode string `db:"student_id"`
	FullName    string `db:"full_name"`
	Class       string `db:"class"`
}
