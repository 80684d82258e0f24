package dto

// CreateStudentRequest carries a new student record.
type CreateStudentRequest struct {
	FullName     string `json:"name" binding:"required"`
	Class        string `json:"class" binding:"required"`
	AcademicYear string `json:"academicYear" binding:"required"`
	DOB          string `json:"dob"`
	Status       string `json:"status" validate:"omitempty,student_status"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// UpdateStudentRequest carries a partial student update.
type UpdateStudentRequest struct {
	FullName     *string `json:"name"`
	Class        *string `json:"class"`
	AcademicYear *string `json:"academicYear"`
	DOB          *string `json:"dob"`
	Status       *string `json:"status" validate:"omitempty,student_status"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}
