package dto

// ReportWindowQuery carries the raw date-scope inputs accepted by the
// time-windowed reports. Explicit start/end take precedence over month/year.
type ReportWindowQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Month     string `form:"month"`
	Year      string `form:"year"`
}

// AttendanceReportQuery scopes the attendance report.
type AttendanceReportQuery struct {
	ReportWindowQuery
	Class string `form:"class"`
}

// StudentReportQuery scopes the student report.
type StudentReportQuery struct {
	Class        string `form:"class"`
	AcademicYear string `form:"academicYear"`
	Status       string `form:"status"`
}

// GradeReportQuery scopes the grade report.
type GradeReportQuery struct {
	Subject  string `form:"subject"`
	ExamType string `form:"examType"`
	Class    string `form:"class"`
}

// PaymentReportQuery scopes the payment report.
type PaymentReportQuery struct {
	ReportWindowQuery
	PaymentType string `form:"paymentType"`
}

// DonorReportQuery scopes the donor report.
type DonorReportQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Year      string `form:"year"`
}

// DashboardResponse is the admin landing-page snapshot.
type DashboardResponse struct {
	TotalStudents     int                    `json:"totalStudents"`
	TotalDonors       int                    `json:"totalDonors"`
	TotalCollected    float64                `json:"totalCollected"`
	PendingPayments   PendingPaymentsSummary `json:"pendingPayments"`
	TotalDonations    float64                `json:"totalDonations"`
	UpcomingEvents    int                    `json:"upcomingEvents"`
	UpcomingBirthdays int                    `json:"upcomingBirthdays"`
}

// PendingPaymentsSummary groups outstanding payment totals.
type PendingPaymentsSummary struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// StudentReportResponse lists students with derived metrics plus a summary.
type StudentReportResponse struct {
	Summary  StudentReportSummary `json:"summary"`
	Students []StudentReportEntry `json:"students"`
}

// StudentReportSummary rolls student counts up by class and status.
type StudentReportSummary struct {
	TotalStudents int            `json:"totalStudents"`
	ByClass       map[string]int `json:"byClass"`
	ByStatus      map[string]int `json:"byStatus"`
}

// StudentReportEntry is one student row. AverageGrade is null when the
// student has no grade records.
type StudentReportEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Class        string  `json:"class"`
	AcademicYear string  `json:"academicYear"`
	Status       string  `json:"status"`
	PresentDays  int     `json:"presentDays"`
	AbsentDays   int     `json:"absentDays"`
	AverageGrade *string `json:"averageGrade"`
}

// AttendanceReportResponse summarises attendance over a window.
type AttendanceReportResponse struct {
	Summary               AttendanceSummary      `json:"summary"`
	ByClass               []ClassAttendance      `json:"byClass"`
	LowAttendanceStudents []LowAttendanceStudent `json:"lowAttendanceStudents"`
}

// AttendanceSummary holds global attendance counts and the derived rate.
type AttendanceSummary struct {
	Present        int    `json:"present"`
	Absent         int    `json:"absent"`
	Late           int    `json:"late"`
	Excused        int    `json:"excused"`
	Total          int    `json:"total"`
	AttendanceRate string `json:"attendanceRate"`
}

// ClassAttendance is the per-class attendance breakdown.
type ClassAttendance struct {
	Class   string `json:"class"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
	Rate    string `json:"rate"`
}

// LowAttendanceStudent flags a student under the attendance threshold.
// Students without any attendance rows are listed with a zero rate.
type LowAttendanceStudent struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	PresentDays int    `json:"presentDays"`
	TotalDays   int    `json:"totalDays"`
	Rate        string `json:"rate"`
}

// GradeReportResponse summarises grade metrics.
type GradeReportResponse struct {
	BySubject        []SubjectGrades     `json:"bySubject"`
	TopPerformers    []StudentGradeEntry `json:"topPerformers"`
	NeedingAttention []StudentGradeEntry `json:"needingAttention"`
}

// SubjectGrades is the per-subject grade breakdown.
type SubjectGrades struct {
	Subject      string `json:"subject"`
	Average      string `json:"average"`
	Highest      string `json:"highest"`
	Lowest       string `json:"lowest"`
	StudentCount int    `json:"studentCount"`
}

// StudentGradeEntry is one ranked student with their grade average.
type StudentGradeEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Average   string `json:"average"`
}

// PaymentReportResponse summarises the fee ledger over a window.
type PaymentReportResponse struct {
	Summary  PaymentSummary           `json:"summary"`
	ByType   []PaymentTypeBreakdown   `json:"byType"`
	ByMethod []PaymentMethodBreakdown `json:"byMethod"`
}

// PaymentSummary groups ledger amounts by settlement outcome.
type PaymentSummary struct {
	Collected         float64 `json:"collected"`
	Pending           float64 `json:"pending"`
	Failed            float64 `json:"failed"`
	Overdue           float64 `json:"overdue"`
	TotalTransactions int     `json:"totalTransactions"`
}

// PaymentTypeBreakdown is the per-type ledger breakdown.
type PaymentTypeBreakdown struct {
	Type      string  `json:"type"`
	Collected float64 `json:"collected"`
	Pending   float64 `json:"pending"`
	Count     int     `json:"count"`
}

// PaymentMethodBreakdown is the per-method breakdown of settled payments.
type PaymentMethodBreakdown struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// DonorReportResponse summarises fundraising over a window.
type DonorReportResponse struct {
	Summary      DonorSummary       `json:"summary"`
	TopDonors    []TopDonor         `json:"topDonors"`
	ByPurpose    []PurposeBreakdown `json:"byPurpose"`
	MonthlyTrend []MonthlyDonations `json:"monthlyTrend"`
}

// DonorSummary holds global fundraising totals over completed donations.
type DonorSummary struct {
	TotalDonors     int     `json:"totalDonors"`
	TotalDonated    float64 `json:"totalDonated"`
	AverageDonation string  `json:"averageDonation"`
	HighestDonation float64 `json:"highestDonation"`
	TotalDonations  int     `json:"totalDonations"`
}

// TopDonor is one ranked donor with cumulative totals.
type TopDonor struct {
	DonorID       string  `json:"donorId"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	TotalDonated  float64 `json:"totalDonated"`
	DonationCount int     `json:"donationCount"`
}

// PurposeBreakdown is the per-purpose fundraising breakdown.
type PurposeBreakdown struct {
	Purpose string  `json:"purpose"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
}

// MonthlyDonations is one YYYY-MM bucket of the donation trend.
type MonthlyDonations struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}
