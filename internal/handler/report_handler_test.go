package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/middleware"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/service"
	"github.com/institute-hq/institute-api/pkg/response"
)

type reportStoreStub struct{}

func (s *reportStoreStub) DashboardCounts(ctx context.Context, now time.Time, eventDays, birthdayDays int) (models.DashboardCounts, error) {
	return models.DashboardCounts{TotalStudents: 42, PendingCount: 3}, nil
}

func (s *reportStoreStub) StudentRows(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReportRow, error) {
	return []models.StudentReportRow{
		{StudentCode: "STU-1", FullName: "Alice", Class: "5A", Status: models.StudentActive},
	}, nil
}

func (s *reportStoreStub) AttendanceRows(ctx context.Context, window models.TimeWindow, class string) ([]models.AttendanceRow, error) {
	return nil, nil
}

func (s *reportStoreStub) ActiveStudents(ctx context.Context, class string) ([]models.StudentRef, error) {
	return nil, nil
}

func (s *reportStoreStub) GradeRows(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeRow, error) {
	return nil, nil
}

func (s *reportStoreStub) PaymentRows(ctx context.Context, window models.TimeWindow, paymentType string) ([]models.PaymentRow, error) {
	return []models.PaymentRow{
		{Type: "tuition", Method: "bank", Amount: 1000, Status: models.PaymentPaid},
	}, nil
}

func (s *reportStoreStub) DonationRows(ctx context.Context, window models.TimeWindow) ([]models.DonationRow, error) {
	return nil, nil
}

func newReportTestHandler() *ReportHandler {
	reports := service.NewReportService(&reportStoreStub{}, nil, zap.NewNop(), service.ReportServiceConfig{})
	exports := service.NewExportService(reports, zap.NewNop())
	return NewReportHandler(reports, exports)
}

func performReportRequest(t *testing.T, handle gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	handle(c)
	return w
}

func TestReportHandlerDashboard(t *testing.T) {
	handler := newReportTestHandler()
	w := performReportRequest(t, handler.Dashboard, "/reports/dashboard")

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), data["totalStudents"])
}

func TestReportHandlerAttendanceInvalidDate(t *testing.T) {
	handler := newReportTestHandler()
	w := performReportRequest(t, handler.Attendance, "/reports/attendance?startDate=bad-date")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_DATE", envelope.Error.Code)
}

func TestReportHandlerPaymentsInvalidMonth(t *testing.T) {
	handler := newReportTestHandler()
	w := performReportRequest(t, handler.Payments, "/reports/payments?month=13")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerPayments(t *testing.T) {
	handler := newReportTestHandler()
	w := performReportRequest(t, handler.Payments, "/reports/payments?month=3&year=2024")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"collected":1000`)
}

func TestReportHandlerExportCSV(t *testing.T) {
	handler := newReportTestHandler()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/reports/students/export?format=csv", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "report", Value: "students"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="students-report-`))
	assert.Contains(t, w.Body.String(), "STU-1,Alice,5A")
}

func TestReportHandlerExportUnknownReport(t *testing.T) {
	handler := newReportTestHandler()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/reports/teachers/export", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "report", Value: "teachers"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerExportBadFormat(t *testing.T) {
	handler := newReportTestHandler()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/reports/students/export?format=xlsx", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "report", Value: "students"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExportForbiddenForStaffOnFinancials(t *testing.T) {
	handler := newReportTestHandler()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/reports/payments/export?format=csv", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "report", Value: "payments"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-2", Role: models.RoleStaff})

	handler.Export(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
