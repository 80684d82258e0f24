package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/institute-hq/institute-api/internal/models"
)

// DonorRepository manages persistence for donor relationships and their
// donation sub-resources.
type DonorRepository struct {
	db *sqlx.DB
}

// NewDonorRepository constructs a DonorRepository.
func NewDonorRepository(db *sqlx.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

const donorColumns = `id, donor_id, name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone,
        COALESCE(address, '') AS address, status, COALESCE(notes, '') AS notes, next_follow_up_at, created_at, updated_at`

// List returns donors matching the provided filters, newest first.
func (r *DonorRepository) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error) {
	base := "FROM donors WHERE 1=1"
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		base += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(escapeLike(filter.Search))+"%")
		base += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count donors: %w", err)
	}

	page := models.Paginate(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		donorColumns, base, page.Limit, page.Offset)

	var donors []models.Donor
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}
	return donors, total, nil
}

// GetByCode fetches a donor by business identifier.
func (r *DonorRepository) GetByCode(ctx context.Context, code string) (*models.Donor, error) {
	var donor models.Donor
	query := fmt.Sprintf("SELECT %s FROM donors WHERE donor_id = $1", donorColumns)
	if err := r.db.GetContext(ctx, &donor, query, code); err != nil {
		return nil, err
	}
	return &donor, nil
}

// Create inserts a new donor.
func (r *DonorRepository) Create(ctx context.Context, d *models.Donor) error {
	query := `INSERT INTO donors (id, donor_id, name, email, phone, address, status, notes, next_follow_up_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.DonorID, d.Name, d.Email, d.Phone, d.Address, d.Status, d.Notes, d.NextFollowUpAt, d.CreatedAt); err != nil {
		return fmt.Errorf("create donor: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a donor record.
func (r *DonorRepository) Update(ctx context.Context, d *models.Donor) error {
	query := `UPDATE donors SET name = $1, email = $2, phone = $3, address = $4, status = $5, notes = $6, next_follow_up_at = $7, updated_at = $8
        WHERE donor_id = $9`
	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.Email, d.Phone, d.Address, d.Status, d.Notes, d.NextFollowUpAt, d.UpdatedAt, d.DonorID)
	if err != nil {
		return fmt.Errorf("update donor: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// Delete removes a donor by business identifier.
func (r *DonorRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM donors WHERE donor_id = $1", code)
	if err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// AddDonation records one donation under a donor.
func (r *DonorRepository) AddDonation(ctx context.Context, d *models.Donation) error {
	query := `INSERT INTO donations (id, donation_id, donor_id, amount, currency, purpose, donation_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.DonationID, d.DonorRef, d.Amount, d.Currency, d.Purpose, d.DonationDate, d.Status, d.CreatedAt); err != nil {
		return fmt.Errorf("add donation: %w", err)
	}
	return nil
}

// ListDonations returns all donations recorded under a donor, newest first.
func (r *DonorRepository) ListDonations(ctx context.Context, donorRef string) ([]models.Donation, error) {
	query := `SELECT id, donation_id, donor_id AS donor_ref, amount, currency, COALESCE(purpose, '') AS purpose, donation_date, status, created_at
        FROM donations WHERE donor_id = $1 ORDER BY donation_date DESC`
	var donations []models.Donation
	if err := r.db.SelectContext(ctx, &donations, query, donorRef); err != nil {
		return nil, fmt.Errorf("list donor donations: %w", err)
	}
	return donations, nil
}

// ListFollowUps returns active donors whose follow-up date falls on or
// before the horizon, soonest first.
func (r *DonorRepository) ListFollowUps(ctx context.Context, horizon time.Time) ([]models.Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM donors
        WHERE status = 'active' AND next_follow_up_at IS NOT NULL AND next_follow_up_at <= $1
        ORDER BY next_follow_up_at`, donorColumns)
	var donors []models.Donor
	if err := r.db.SelectContext(ctx, &donors, query, horizon); err != nil {
		return nil, fmt.Errorf("list donor follow-ups: %w", err)
	}
	return donors, nil
}
