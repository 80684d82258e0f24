package models

import "time"

// StudentStatus enumerates the lifecycle states of a student record.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
	StudentLeft      StudentStatus = "left"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated, StudentLeft:
		return true
	}
	return false
}

// Student represents a student record in the students table.
type Student struct {
	ID           string        `db:"id" json:"-"`
	StudentID    string        `db:"student_id" json:"id"`
	FullName     string        `db:"full_name" json:"name"`
	Class        string        `db:"class" json:"class"`
	AcademicYear string        `db:"academic_year" json:"academicYear"`
	DOB          *time.Time    `db:"dob" json:"dob,omitempty"`
	Status       StudentStatus `db:"status" json:"status"`
	Phone        string        `db:"phone" json:"phone,omitempty"`
	Address      string        `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Class        string
	AcademicYear string
	Status       StudentStatus
	Search       string
	Page         int
	Limit        int
}
