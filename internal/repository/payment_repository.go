package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/institute-hq/institute-api/internal/models"
)

// PaymentRepository manages persistence for the fee and donation ledgers.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `p.id, p.payment_id, p.student_id AS student_ref, s.student_id AS student_code, s.full_name AS student_name,
        p.payment_type, p.amount, p.currency, p.due_date, p.paid_date, COALESCE(p.payment_method, '') AS payment_method,
        COALESCE(p.payment_reference, '') AS payment_reference, p.status, COALESCE(p.notes, '') AS notes, p.created_at, p.updated_at`

// List returns ledger entries matching the provided filters, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	base := "FROM payments p LEFT JOIN students s ON s.id = p.student_id WHERE 1=1"
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		base += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filter.PaymentType != "" {
		args = append(args, filter.PaymentType)
		base += fmt.Sprintf(" AND p.payment_type = $%d", len(args))
	}
	if filter.StudentCode != "" {
		args = append(args, filter.StudentCode)
		base += fmt.Sprintf(" AND s.student_id = $%d", len(args))
	}
	paidCond := windowClause("p.paid_date", filter.Window, &args)
	dueCond := windowClause("p.due_date", filter.Window, &args)
	if paidCond != "" {
		base += fmt.Sprintf(" AND (%s OR %s)", paidCond, dueCond)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	page := models.Paginate(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d",
		paymentColumns, base, page.Limit, page.Offset)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

// ListPending returns outstanding payments ordered by due date.
func (r *PaymentRepository) ListPending(ctx context.Context, page models.PageRequest) ([]models.Payment, int, error) {
	base := "FROM payments p LEFT JOIN students s ON s.id = p.student_id WHERE p.status IN ('pending', 'overdue', 'partial')"

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base); err != nil {
		return nil, 0, fmt.Errorf("count pending payments: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY p.due_date LIMIT %d OFFSET %d",
		paymentColumns, base, page.Limit, page.Offset)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, 0, fmt.Errorf("list pending payments: %w", err)
	}
	return payments, total, nil
}

// GetByCode fetches a ledger entry by its business identifier.
func (r *PaymentRepository) GetByCode(ctx context.Context, code string) (*models.Payment, error) {
	var payment models.Payment
	query := fmt.Sprintf("SELECT %s FROM payments p LEFT JOIN students s ON s.id = p.student_id WHERE p.payment_id = $1", paymentColumns)
	if err := r.db.GetContext(ctx, &payment, query, code); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new ledger entry.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `INSERT INTO payments (id, payment_id, student_id, payment_type, amount, currency, due_date, paid_date, payment_method, payment_reference, status, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		p.ID, p.PaymentID, p.StudentRef, p.Type, p.Amount, p.Currency, p.DueDate, p.PaidDate,
		p.Method, p.Reference, p.Status, p.Notes, p.CreatedAt); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// UpdateStatus transitions a ledger entry's settlement state.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, p *models.Payment) error {
	query := `UPDATE payments SET status = $1, paid_date = $2, payment_method = $3, payment_reference = $4, notes = $5, updated_at = $6
        WHERE payment_id = $7`
	result, err := r.db.ExecContext(ctx, query,
		p.Status, p.PaidDate, p.Method, p.Reference, p.Notes, p.UpdatedAt, p.PaymentID)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// ListDonations returns donation ledger entries, newest first.
func (r *PaymentRepository) ListDonations(ctx context.Context, status models.DonationStatus, page models.PageRequest) ([]models.Donation, int, error) {
	base := "FROM donations d LEFT JOIN donors dn ON dn.id = d.donor_id WHERE 1=1"
	var args []interface{}
	if status != "" {
		args = append(args, status)
		base += fmt.Sprintf(" AND d.status = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	query := fmt.Sprintf(`SELECT d.id, d.donation_id, d.donor_id AS donor_ref, dn.donor_id AS donor_code, dn.name AS donor_name,
        d.amount, d.currency, COALESCE(d.purpose, '') AS purpose, d.donation_date, d.status, d.created_at
        %s ORDER BY d.donation_date DESC LIMIT %d OFFSET %d`, base, page.Limit, page.Offset)

	var donations []models.Donation
	if err := r.db.SelectContext(ctx, &donations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	return donations, total, nil
}

// UpdateDonationStatus transitions one donation's ledger state.
func (r *PaymentRepository) UpdateDonationStatus(ctx context.Context, code string, status models.DonationStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE donations SET status = $1 WHERE donation_id = $2", status, code)
	if err != nil {
		return fmt.Errorf("update donation status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}
