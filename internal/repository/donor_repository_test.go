package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institute-hq/institute-api/internal/models"
)

func newDonorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func donorTestRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "donor_id", "name", "email", "phone", "address", "status", "notes", "next_follow_up_at", "created_at", "updated_at"}).
		AddRow("u-1", "DNR-1", "Foundation", "giving@example.com", "", "", "active", "", nil, now, now)
}

func TestDonorRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donors WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(email) LIKE $1)")).
		WithArgs("%foundation%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY created_at DESC LIMIT 10 OFFSET 0").
		WithArgs("%foundation%").
		WillReturnRows(donorTestRows())

	donors, total, err := repo.List(context.Background(), models.DonorFilter{Search: "Foundation"})
	require.NoError(t, err)
	assert.Len(t, donors, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "DNR-1", donors[0].DonorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryGetByCode(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	mock.ExpectQuery("FROM donors WHERE donor_id = \\$1").
		WithArgs("DNR-1").
		WillReturnRows(donorTestRows())

	donor, err := repo.GetByCode(context.Background(), "DNR-1")
	require.NoError(t, err)
	assert.Equal(t, "Foundation", donor.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryUpdateNoRows(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE donors SET name = $1")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "DNR-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Donor{DonorID: "DNR-404"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryAddDonation(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	donorRef := "u-1"
	donation := &models.Donation{
		ID:           "d-1",
		DonationID:   "DON-1",
		DonorRef:     &donorRef,
		Amount:       500,
		Currency:     "EUR",
		Purpose:      "library",
		DonationDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:       models.DonationCompleted,
		CreatedAt:    time.Now(),
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO donations")).
		WithArgs(donation.ID, donation.DonationID, donorRef, donation.Amount, donation.Currency,
			donation.Purpose, donation.DonationDate, donation.Status, donation.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AddDonation(context.Background(), donation)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryListFollowUps(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	horizon := time.Date(2024, time.June, 22, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active' AND next_follow_up_at IS NOT NULL AND next_follow_up_at <= $1")).
		WithArgs(horizon).
		WillReturnRows(donorTestRows())

	donors, err := repo.ListFollowUps(context.Background(), horizon)
	require.NoError(t, err)
	assert.Len(t, donors, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
