package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type mockDonorRepo struct {
	donors          map[string]*models.Donor
	donations       []models.Donation
	addedDonation   *models.Donation
	followUpHorizon time.Time
}

func newMockDonorRepo() *mockDonorRepo {
	return &mockDonorRepo{donors: map[string]*models.Donor{}}
}

func (m *mockDonorRepo) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error) {
	return nil, 0, nil
}

func (m *mockDonorRepo) GetByCode(ctx context.Context, code string) (*models.Donor, error) {
	donor, ok := m.donors[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *donor
	return &clone, nil
}

func (m *mockDonorRepo) Create(ctx context.Context, d *models.Donor) error {
	m.donors[d.DonorID] = d
	return nil
}

func (m *mockDonorRepo) Update(ctx context.Context, d *models.Donor) error {
	m.donors[d.DonorID] = d
	return nil
}

func (m *mockDonorRepo) Delete(ctx context.Context, code string) error {
	if _, ok := m.donors[code]; !ok {
		return sql.ErrNoRows
	}
	delete(m.donors, code)
	return nil
}

func (m *mockDonorRepo) AddDonation(ctx context.Context, d *models.Donation) error {
	m.addedDonation = d
	m.donations = append(m.donations, *d)
	return nil
}

func (m *mockDonorRepo) ListDonations(ctx context.Context, donorRef string) ([]models.Donation, error) {
	return m.donations, nil
}

func (m *mockDonorRepo) ListFollowUps(ctx context.Context, horizon time.Time) ([]models.Donor, error) {
	m.followUpHorizon = horizon
	return nil, nil
}

func TestDonorServiceCreate(t *testing.T) {
	repo := newMockDonorRepo()
	svc := NewDonorService(repo, nil, zap.NewNop(), DonorServiceConfig{})

	donor, err := svc.Create(context.Background(), dto.CreateDonorRequest{Name: "Foundation", Email: "giving@example.com"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(donor.DonorID, "DNR-"))
	assert.Equal(t, "active", donor.Status)
}

func TestDonorServiceAddDonationDefaults(t *testing.T) {
	repo := newMockDonorRepo()
	repo.donors["DNR-1"] = &models.Donor{ID: "u-1", DonorID: "DNR-1", Name: "Foundation"}
	svc := NewDonorService(repo, nil, zap.NewNop(), DonorServiceConfig{})

	donation, err := svc.AddDonation(context.Background(), "DNR-1", dto.AddDonationRequest{Amount: 500})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(donation.DonationID, "DON-"))
	assert.Equal(t, models.DonationCompleted, donation.Status)
	assert.Equal(t, "EUR", donation.Currency)
	require.NotNil(t, donation.DonorRef)
	assert.Equal(t, "u-1", *donation.DonorRef)
	assert.Equal(t, "Foundation", *donation.DonorName)
}

func TestDonorServiceAddDonationUnknownDonor(t *testing.T) {
	svc := NewDonorService(newMockDonorRepo(), nil, zap.NewNop(), DonorServiceConfig{})

	_, err := svc.AddDonation(context.Background(), "DNR-404", dto.AddDonationRequest{Amount: 500})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDonorServiceAddDonationRejectsUnknownStatus(t *testing.T) {
	repo := newMockDonorRepo()
	repo.donors["DNR-1"] = &models.Donor{ID: "u-1", DonorID: "DNR-1", Name: "Foundation"}
	svc := NewDonorService(repo, nil, zap.NewNop(), DonorServiceConfig{})

	_, err := svc.AddDonation(context.Background(), "DNR-1", dto.AddDonationRequest{Amount: 500, Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDonorServiceUpdateFollowUpDate(t *testing.T) {
	repo := newMockDonorRepo()
	repo.donors["DNR-1"] = &models.Donor{ID: "u-1", DonorID: "DNR-1", Name: "Foundation"}
	svc := NewDonorService(repo, nil, zap.NewNop(), DonorServiceConfig{})

	followUp := "2024-07-01"
	donor, err := svc.Update(context.Background(), "DNR-1", dto.UpdateDonorRequest{NextFollowUpAt: &followUp})
	require.NoError(t, err)
	require.NotNil(t, donor.NextFollowUpAt)
	assert.Equal(t, "2024-07-01", donor.NextFollowUpAt.Format("2006-01-02"))

	empty := ""
	donor, err = svc.Update(context.Background(), "DNR-1", dto.UpdateDonorRequest{NextFollowUpAt: &empty})
	require.NoError(t, err)
	assert.Nil(t, donor.NextFollowUpAt)
}

func TestDonorServiceFollowUpsHorizon(t *testing.T) {
	repo := newMockDonorRepo()
	svc := NewDonorService(repo, nil, zap.NewNop(), DonorServiceConfig{FollowUpHorizonDays: 14})

	_, err := svc.FollowUps(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 14), repo.followUpHorizon, time.Minute)
}
