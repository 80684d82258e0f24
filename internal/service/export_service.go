package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/pkg/export"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered report file ready to stream to the client.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

type reportComposer interface {
	Students(ctx context.Context, q dto.StudentReportQuery) (*dto.StudentReportResponse, error)
	Attendance(ctx context.Context, window models.TimeWindow, class string) (*dto.AttendanceReportResponse, error)
	Grades(ctx context.Context, filter models.GradeReportFilter) (*dto.GradeReportResponse, error)
	Payments(ctx context.Context, window models.TimeWindow, paymentType string) (*dto.PaymentReportResponse, error)
	Donors(ctx context.Context, window models.TimeWindow) (*dto.DonorReportResponse, error)
}

// ExportService renders report payloads as downloadable CSV or PDF files.
// Rendering is synchronous; the file is built within the request.
type ExportService struct {
	reports reportComposer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportComposer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{reports: reports, logger: logger, now: time.Now}
}

// Students renders the student report.
func (s *ExportService) Students(ctx context.Context, format ExportFormat, q dto.StudentReportQuery) (*ExportResult, error) {
	report, err := s.reports.Students(ctx, q)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Student Report",
		Columns: []string{"ID", "Name", "Class", "Academic Year", "Status", "Present Days", "Absent Days", "Average Grade"},
	}
	for _, student := range report.Students {
		avg := ""
		if student.AverageGrade != nil {
			avg = *student.AverageGrade
		}
		table.Rows = append(table.Rows, []string{
			student.ID, student.Name, student.Class, student.AcademicYear, student.Status,
			strconv.Itoa(student.PresentDays), strconv.Itoa(student.AbsentDays), avg,
		})
	}
	return s.render("students", format, table)
}

// Attendance renders the per-class attendance breakdown.
func (s *ExportService) Attendance(ctx context.Context, format ExportFormat, window models.TimeWindow, class string) (*ExportResult, error) {
	report, err := s.reports.Attendance(ctx, window, class)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Attendance Report",
		Columns: []string{"Class", "Present", "Absent", "Total", "Rate"},
	}
	for _, entry := range report.ByClass {
		table.Rows = append(table.Rows, []string{
			entry.Class, strconv.Itoa(entry.Present), strconv.Itoa(entry.Absent),
			strconv.Itoa(entry.Total), entry.Rate,
		})
	}
	return s.render("attendance", format, table)
}

// Grades renders the per-subject grade breakdown.
func (s *ExportService) Grades(ctx context.Context, format ExportFormat, filter models.GradeReportFilter) (*ExportResult, error) {
	report, err := s.reports.Grades(ctx, filter)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Grade Report",
		Columns: []string{"Subject", "Average", "Highest", "Lowest", "Students"},
	}
	for _, entry := range report.BySubject {
		table.Rows = append(table.Rows, []string{
			entry.Subject, entry.Average, entry.Highest, entry.Lowest, strconv.Itoa(entry.StudentCount),
		})
	}
	return s.render("grades", format, table)
}

// Payments renders the per-type ledger breakdown.
func (s *ExportService) Payments(ctx context.Context, format ExportFormat, window models.TimeWindow, paymentType string) (*ExportResult, error) {
	report, err := s.reports.Payments(ctx, window, paymentType)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Payment Report",
		Columns: []string{"Type", "Collected", "Pending", "Count"},
	}
	for _, entry := range report.ByType {
		table.Rows = append(table.Rows, []string{
			entry.Type, formatFixed(entry.Collected), formatFixed(entry.Pending), strconv.Itoa(entry.Count),
		})
	}
	return s.render("payments", format, table)
}

// Donors renders the top donor ranking.
func (s *ExportService) Donors(ctx context.Context, format ExportFormat, window models.TimeWindow) (*ExportResult, error) {
	report, err := s.reports.Donors(ctx, window)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Donor Report",
		Columns: []string{"Donor", "Name", "Email", "Total Donated", "Donations"},
	}
	for _, entry := range report.TopDonors {
		table.Rows = append(table.Rows, []string{
			entry.DonorID, entry.Name, entry.Email, formatFixed(entry.TotalDonated), strconv.Itoa(entry.DonationCount),
		})
	}
	return s.render("donors", format, table)
}

func (s *ExportService) render(report string, format ExportFormat, table export.Table) (*ExportResult, error) {
	stamp := s.now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		content, err := export.RenderCSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv rendering failed")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-report-%s.csv", report, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatPDF:
		content, err := export.RenderPDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf rendering failed")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-report-%s.pdf", report, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
