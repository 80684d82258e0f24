package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/middleware"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/service"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
	"github.com/institute-hq/institute-api/pkg/response"
)

// ReportHandler exposes the aggregation report endpoints.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Dashboard godoc
// @Summary Dashboard totals
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.DashboardResponse}
// @Failure 503 {object} response.Envelope
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, hit, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// Students godoc
// @Summary Student report
// @Tags Reports
// @Produce json
// @Param class query string false "Filter by class"
// @Param academicYear query string false "Filter by academic year"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope{data=dto.StudentReportResponse}
// @Failure 503 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	var q dto.StudentReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	report, err := h.reports.Students(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Attendance godoc
// @Summary Attendance report
// @Tags Reports
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param month query string false "Month (1-12)"
// @Param year query string false "Year"
// @Param class query string false "Filter by class"
// @Success 200 {object} response.Envelope{data=dto.AttendanceReportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	var q dto.AttendanceReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	window, err := service.ResolveWindow(q.ReportWindowQuery, timeNow())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Attendance(c.Request.Context(), window, q.Class)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Grades godoc
// @Summary Grade report
// @Tags Reports
// @Produce json
// @Param subject query string false "Filter by subject"
// @Param examType query string false "Filter by exam type"
// @Param class query string false "Filter by class"
// @Success 200 {object} response.Envelope{data=dto.GradeReportResponse}
// @Failure 503 {object} response.Envelope
// @Router /reports/grades [get]
func (h *ReportHandler) Grades(c *gin.Context) {
	var q dto.GradeReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	report, err := h.reports.Grades(c.Request.Context(), models.GradeReportFilter{
		Subject:  q.Subject,
		ExamType: q.ExamType,
		Class:    q.Class,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Payments godoc
// @Summary Payment report
// @Tags Reports
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param month query string false "Month (1-12)"
// @Param year query string false "Year"
// @Param paymentType query string false "Filter by payment type"
// @Success 200 {object} response.Envelope{data=dto.PaymentReportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /reports/payments [get]
func (h *ReportHandler) Payments(c *gin.Context) {
	var q dto.PaymentReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	window, err := service.ResolveWindow(q.ReportWindowQuery, timeNow())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Payments(c.Request.Context(), window, q.PaymentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Donors godoc
// @Summary Donor report
// @Tags Reports
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param year query string false "Year"
// @Success 200 {object} response.Envelope{data=dto.DonorReportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /reports/donors [get]
func (h *ReportHandler) Donors(c *gin.Context) {
	var q dto.DonorReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	window, err := service.ResolveWindow(dto.ReportWindowQuery{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Year:      q.Year,
	}, timeNow())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Donors(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export a report as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param report path string true "Report name" Enums(students, attendance, grades, payments, donors)
// @Param format query string true "File format" Enums(csv, pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/{report}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	if !exportAllowed(claimsFromContext(c), c.Param("report")) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	var result *service.ExportResult
	var err error
	switch c.Param("report") {
	case "students":
		var q dto.StudentReportQuery
		if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
			return
		}
		result, err = h.exports.Students(c.Request.Context(), format, q)
	case "attendance":
		var q dto.AttendanceReportQuery
		if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
			return
		}
		window, windowErr := service.ResolveWindow(q.ReportWindowQuery, timeNow())
		if windowErr != nil {
			response.Error(c, windowErr)
			return
		}
		result, err = h.exports.Attendance(c.Request.Context(), format, window, q.Class)
	case "grades":
		var q dto.GradeReportQuery
		if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
			return
		}
		result, err = h.exports.Grades(c.Request.Context(), format, models.GradeReportFilter{
			Subject:  q.Subject,
			ExamType: q.ExamType,
			Class:    q.Class,
		})
	case "payments":
		var q dto.PaymentReportQuery
		if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
			return
		}
		window, windowErr := service.ResolveWindow(q.ReportWindowQuery, timeNow())
		if windowErr != nil {
			response.Error(c, windowErr)
			return
		}
		result, err = h.exports.Payments(c.Request.Context(), format, window, q.PaymentType)
	case "donors":
		var q dto.DonorReportQuery
		if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
			return
		}
		window, windowErr := service.ResolveWindow(dto.ReportWindowQuery{
			StartDate: q.StartDate,
			EndDate:   q.EndDate,
			Year:      q.Year,
		}, timeNow())
		if windowErr != nil {
			response.Error(c, windowErr)
			return
		}
		result, err = h.exports.Donors(c.Request.Context(), format, window)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown report"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// exportAllowed mirrors the role guards on the JSON report routes. Unknown
// report names pass through so the 404 is reported instead.
func exportAllowed(claims *models.JWTClaims, report string) bool {
	if claims == nil {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	switch report {
	case "students", "attendance", "grades":
		return claims.Role == models.RoleStaff
	case "payments", "donors":
		return claims.Role == models.RoleFinance
	}
	return true
}
