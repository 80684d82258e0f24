package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/institute-hq/institute-api/internal/models"
)

// ReportRepository supplies point-in-time row snapshots and pre-aggregated
// counts to the reporting core. It never mutates data.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// windowClause renders an inclusive range condition for the given column and
// appends bound values to args. It returns "" for an unbounded window. The
// column is always a trusted literal supplied by the repository, never
// caller input.
func windowClause(column string, w models.TimeWindow, args *[]interface{}) string {
	var conds []string
	if w.Start != nil {
		*args = append(*args, *w.Start)
		conds = append(conds, fmt.Sprintf("%s >= $%d", column, len(*args)))
	}
	if w.End != nil {
		*args = append(*args, *w.End)
		conds = append(conds, fmt.Sprintf("%s <= $%d", column, len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return "(" + strings.Join(conds, " AND ") + ")"
}

// DashboardCounts gathers the totals behind the dashboard report. The event
// and birthday lookahead windows start at now.
func (r *ReportRepository) DashboardCounts(ctx context.Context, now time.Time, eventDays, birthdayDays int) (models.DashboardCounts, error) {
	var counts models.DashboardCounts

	if err := r.db.GetContext(ctx, &counts.TotalStudents,
		"SELECT COUNT(*) FROM students WHERE status = 'active'"); err != nil {
		return counts, fmt.Errorf("count students: %w", err)
	}
	if err := r.db.GetContext(ctx, &counts.TotalDonors,
		"SELECT COUNT(*) FROM donors WHERE status = 'active'"); err != nil {
		return counts, fmt.Errorf("count donors: %w", err)
	}

	var payments struct {
		Collected     float64 `db:"collected"`
		PendingAmount float64 `db:"pending_amount"`
		PendingCount  int     `db:"pending_count"`
	}
	if err := r.db.GetContext(ctx, &payments, `SELECT
        COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS collected,
        COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending_amount,
        COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_count
        FROM payments`); err != nil {
		return counts, fmt.Errorf("payment totals: %w", err)
	}
	counts.CollectedAmount = payments.Collected
	counts.PendingAmount = payments.PendingAmount
	counts.PendingCount = payments.PendingCount

	if err := r.db.GetContext(ctx, &counts.TotalDonations,
		"SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'"); err != nil {
		return counts, fmt.Errorf("donation totals: %w", err)
	}

	eventEnd := now.AddDate(0, 0, eventDays)
	if err := r.db.GetContext(ctx, &counts.UpcomingEvents,
		"SELECT COUNT(*) FROM calendar_events WHERE event_date BETWEEN $1 AND $2",
		now, eventEnd); err != nil {
		return counts, fmt.Errorf("count upcoming events: %w", err)
	}

	from := now.Format("01-02")
	to := now.AddDate(0, 0, birthdayDays).Format("01-02")
	birthdayQuery := `SELECT COUNT(*) FROM students
        WHERE status = 'active' AND dob IS NOT NULL
        AND to_char(dob, 'MM-DD') BETWEEN $1 AND $2`
	if to < from {
		// lookahead wraps past Dec 31
		birthdayQuery = `SELECT COUNT(*) FROM students
        WHERE status = 'active' AND dob IS NOT NULL
        AND (to_char(dob, 'MM-DD') >= $1 OR to_char(dob, 'MM-DD') <= $2)`
	}
	if err := r.db.GetContext(ctx, &counts.UpcomingBirthdays, birthdayQuery, from, to); err != nil {
		return counts, fmt.Errorf("count upcoming birthdays: %w", err)
	}

	return counts, nil
}

// StudentRows returns students with derived attendance and grade metrics.
func (r *ReportRepository) StudentRows(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReportRow, error) {
	query := `SELECT s.student_id, s.full_name, s.class, s.academic_year, s.status,
        (SELECT COUNT(*) FROM attendance a WHERE a.student_id = s.id AND a.status = 'present') AS present_days,
        (SELECT COUNT(*) FROM attendance a WHERE a.student_id = s.id AND a.status = 'absent') AS absent_days,
        (SELECT AVG(g.score / NULLIF(g.max_score, 0) * 100) FROM grades g WHERE g.student_id = s.id) AS avg_grade
        FROM students s WHERE 1=1`
	var args []interface{}

	if filter.Class != "" {
		args = append(args, filter.Class)
		query += fmt.Sprintf(" AND s.class = $%d", len(args))
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		query += fmt.Sprintf(" AND s.academic_year = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	query += " ORDER BY s.full_name"

	var rows []models.StudentReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("student report rows: %w", err)
	}
	return rows, nil
}

// AttendanceRows returns attendance records joined with their students,
// scoped to the window and optional class.
func (r *ReportRepository) AttendanceRows(ctx context.Context, window models.TimeWindow, class string) ([]models.AttendanceRow, error) {
	query := `SELECT a.student_id AS student_ref, s.student_id AS student_code, s.full_name AS student_name, s.class, a.date, a.status
        FROM attendance a JOIN students s ON s.id = a.student_id WHERE 1=1`
	var args []interface{}

	if cond := windowClause("a.date", window, &args); cond != "" {
		query += " AND " + cond
	}
	if class != "" {
		args = append(args, class)
		query += fmt.Sprintf(" AND s.class = $%d", len(args))
	}
	query += " ORDER BY a.date, s.full_name"

	var rows []models.AttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attendance rows: %w", err)
	}
	return rows, nil
}

// ActiveStudents returns the active roster, optionally limited to one class.
func (r *ReportRepository) ActiveStudents(ctx context.Context, class string) ([]models.StudentRef, error) {
	query := "SELECT id, student_id, full_name, class FROM students WHERE status = 'active'"
	var args []interface{}
	if class != "" {
		args = append(args, class)
		query += fmt.Sprintf(" AND class = $%d", len(args))
	}
	query += " ORDER BY full_name"

	var rows []models.StudentRef
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("active students: %w", err)
	}
	return rows, nil
}

// GradeRows returns grade records joined with their students.
func (r *ReportRepository) GradeRows(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeRow, error) {
	query := `SELECT g.student_id AS student_ref, s.student_id AS student_code, s.full_name AS student_name, s.class, g.subject, g.exam_type, g.score, g.max_score, g.exam_date
        FROM grades g JOIN students s ON s.id = g.student_id WHERE 1=1`
	var args []interface{}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND g.subject = $%d", len(args))
	}
	if filter.ExamType != "" {
		args = append(args, filter.ExamType)
		query += fmt.Sprintf(" AND g.exam_type = $%d", len(args))
	}
	if filter.Class != "" {
		args = append(args, filter.Class)
		query += fmt.Sprintf(" AND s.class = $%d", len(args))
	}
	query += " ORDER BY g.exam_date, s.full_name"

	var rows []models.GradeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("grade rows: %w", err)
	}
	return rows, nil
}

// PaymentRows returns fee ledger entries whose paid or due date falls inside
// the window, optionally limited to one payment type.
func (r *ReportRepository) PaymentRows(ctx context.Context, window models.TimeWindow, paymentType string) ([]models.PaymentRow, error) {
	query := `SELECT student_id AS student_ref, payment_type, COALESCE(payment_method, '') AS payment_method, amount, currency, due_date, paid_date, status
        FROM payments WHERE 1=1`
	var args []interface{}

	paidCond := windowClause("paid_date", window, &args)
	dueCond := windowClause("due_date", window, &args)
	if paidCond != "" {
		query += fmt.Sprintf(" AND (%s OR %s)", paidCond, dueCond)
	}
	if paymentType != "" {
		args = append(args, paymentType)
		query += fmt.Sprintf(" AND payment_type = $%d", len(args))
	}
	query += " ORDER BY due_date"

	var rows []models.PaymentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("payment rows: %w", err)
	}
	return rows, nil
}

// DonationRows returns completed donations joined with their donors, scoped
// to the window. Donations without a donor are included.
func (r *ReportRepository) DonationRows(ctx context.Context, window models.TimeWindow) ([]models.DonationRow, error) {
	query := `SELECT d.donor_id AS donor_ref, dn.donor_id AS donor_code, dn.name AS donor_name, dn.email AS donor_email, d.amount, d.currency, COALESCE(d.purpose, '') AS purpose, d.donation_date, d.status
        FROM donations d LEFT JOIN donors dn ON dn.id = d.donor_id
        WHERE d.status = 'completed'`
	var args []interface{}

	if cond := windowClause("d.donation_date", window, &args); cond != "" {
		query += " AND " + cond
	}
	query += " ORDER BY d.donation_date"

	var rows []models.DonationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("donation rows: %w", err)
	}
	return rows, nil
}
