package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institute-hq/institute-api/internal/models"
)

func newReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositoryActiveStudents(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "full_name", "class"}).
		AddRow("u-1", "STU-1", "Alice", "5A").
		AddRow("u-2", "STU-2", "Bob", "5A")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, full_name, class FROM students WHERE status = 'active' AND class = $1 ORDER BY full_name")).
		WithArgs("5A").
		WillReturnRows(rows)

	students, err := repo.ActiveStudents(context.Background(), "5A")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "STU-1", students[0].StudentCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryAttendanceRowsWindow(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"student_ref", "student_code", "student_name", "class", "date", "status"}).
		AddRow("u-1", "STU-1", "Alice", "5A", start, "present")
	mock.ExpectQuery("FROM attendance a JOIN students s ON s.id = a.student_id").
		WithArgs(start, end).
		WillReturnRows(rows)

	out, err := repo.AttendanceRows(context.Background(), models.TimeWindow{Start: &start, End: &end}, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.AttendancePresent, out[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryAttendanceRowsUnbounded(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery("FROM attendance a JOIN students s ON s.id = a.student_id").
		WillReturnRows(sqlmock.NewRows([]string{"student_ref", "student_code", "student_name", "class", "date", "status"}))

	out, err := repo.AttendanceRows(context.Background(), models.TimeWindow{}, "")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryPaymentRowsWindowMatchesPaidOrDue(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"student_ref", "payment_type", "payment_method", "amount", "currency", "due_date", "paid_date", "status"}).
		AddRow(nil, "tuition", "bank", 1000.0, "EUR", start, nil, "pending")
	// window is applied to paid_date and due_date alike
	mock.ExpectQuery(regexp.QuoteMeta("AND ((paid_date >= $1 AND paid_date <= $2) OR (due_date >= $3 AND due_date <= $4))")).
		WithArgs(start, end, start, end).
		WillReturnRows(rows)

	out, err := repo.PaymentRows(context.Background(), models.TimeWindow{Start: &start, End: &end}, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.PaymentPending, out[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryDonationRowsCompletedOnly(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"donor_ref", "donor_code", "donor_name", "donor_email", "amount", "currency", "purpose", "donation_date", "status"}).
		AddRow(nil, nil, nil, nil, 250.0, "EUR", "", date, "completed")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE d.status = 'completed'")).
		WillReturnRows(rows)

	out, err := repo.DonationRows(context.Background(), models.TimeWindow{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].DonorRef)
	assert.Equal(t, 250.0, out[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryStudentRowsFilters(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "full_name", "class", "academic_year", "status", "present_days", "absent_days", "avg_grade"}).
		AddRow("STU-1", "Alice", "5A", "2024", "active", 18, 2, 82.5).
		AddRow("STU-2", "Bob", "5A", "2024", "active", 15, 5, nil)
	mock.ExpectQuery("FROM students s WHERE 1=1 AND s.class = \\$1 AND s.status = \\$2").
		WithArgs("5A", models.StudentActive).
		WillReturnRows(rows)

	out, err := repo.StudentRows(context.Background(), models.StudentReportFilter{Class: "5A", Status: models.StudentActive})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].AverageGrade)
	assert.Equal(t, 82.5, *out[0].AverageGrade)
	assert.Nil(t, out[1].AverageGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryDashboardCounts(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE status = 'active'")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donors WHERE status = 'active'")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery("FROM payments").
		WillReturnRows(sqlmock.NewRows([]string{"collected", "pending_amount", "pending_count"}).AddRow(48000.0, 5200.0, 8))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(9300.0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM calendar_events WHERE event_date BETWEEN $1 AND $2")).
		WithArgs(now, now.AddDate(0, 0, 7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("to_char\\(dob, 'MM-DD'\\)").
		WithArgs("06-15", "07-15").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	counts, err := repo.DashboardCounts(context.Background(), now, 7, 30)
	require.NoError(t, err)
	assert.Equal(t, 120, counts.TotalStudents)
	assert.Equal(t, 15, counts.TotalDonors)
	assert.Equal(t, 48000.0, counts.CollectedAmount)
	assert.Equal(t, 8, counts.PendingCount)
	assert.Equal(t, 9300.0, counts.TotalDonations)
	assert.Equal(t, 3, counts.UpcomingEvents)
	assert.Equal(t, 6, counts.UpcomingBirthdays)
	assert.NoError(t, mock.ExpectationsWereMet())
}
