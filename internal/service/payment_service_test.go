package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type mockPaymentRepo struct {
	payments        map[string]*models.Payment
	created         *models.Payment
	updated         *models.Payment
	donationStatus  models.DonationStatus
	donationUpdated string
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: map[string]*models.Payment{}}
}

func (m *mockPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) ListPending(ctx context.Context, page models.PageRequest) ([]models.Payment, int, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) GetByCode(ctx context.Context, code string) (*models.Payment, error) {
	payment, ok := m.payments[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *payment
	return &clone, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	m.created = p
	m.payments[p.PaymentID] = p
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, p *models.Payment) error {
	m.updated = p
	return nil
}

func (m *mockPaymentRepo) ListDonations(ctx context.Context, status models.DonationStatus, page models.PageRequest) ([]models.Donation, int, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) UpdateDonationStatus(ctx context.Context, code string, status models.DonationStatus) error {
	m.donationUpdated = code
	m.donationStatus = status
	return nil
}

type mockStudentResolver struct {
	student *models.Student
}

func (m *mockStudentResolver) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	if m.student == nil || m.student.StudentID != code {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

func TestPaymentServiceCreateDefaults(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := NewPaymentService(repo, &mockStudentResolver{}, nil, zap.NewNop())

	payment, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		Type:    "tuition",
		Amount:  1000,
		DueDate: "2024-06-01",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payment.PaymentID, "PAY-"))
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, "EUR", payment.Currency)
	assert.Nil(t, payment.StudentRef)
	require.NotNil(t, repo.created)
}

func TestPaymentServiceCreateResolvesStudent(t *testing.T) {
	repo := newMockPaymentRepo()
	resolver := &mockStudentResolver{student: &models.Student{ID: "u-1", StudentID: "STU-1", FullName: "Alice"}}
	svc := NewPaymentService(repo, resolver, nil, zap.NewNop())

	payment, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		StudentID: "STU-1",
		Type:      "tuition",
		Amount:    500,
		DueDate:   "2024-06-01",
	})
	require.NoError(t, err)
	require.NotNil(t, payment.StudentRef)
	assert.Equal(t, "u-1", *payment.StudentRef)
	assert.Equal(t, "Alice", *payment.StudentName)
}

func TestPaymentServiceCreateUnknownStudent(t *testing.T) {
	svc := NewPaymentService(newMockPaymentRepo(), &mockStudentResolver{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		StudentID: "STU-404",
		Type:      "tuition",
		Amount:    500,
		DueDate:   "2024-06-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceCreateInvalidDueDate(t *testing.T) {
	svc := NewPaymentService(newMockPaymentRepo(), &mockStudentResolver{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePaymentRequest{Type: "tuition", Amount: 100, DueDate: "June 1st"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceUpdateStatusStampsPaidDate(t *testing.T) {
	repo := newMockPaymentRepo()
	repo.payments["PAY-1"] = &models.Payment{PaymentID: "PAY-1", Status: models.PaymentPending}
	svc := NewPaymentService(repo, &mockStudentResolver{}, nil, zap.NewNop())

	payment, err := svc.UpdateStatus(context.Background(), "PAY-1", dto.UpdatePaymentStatusRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, payment.Status)
	require.NotNil(t, payment.PaidDate)
}

func TestPaymentServiceUpdateStatusExplicitPaidDate(t *testing.T) {
	repo := newMockPaymentRepo()
	repo.payments["PAY-1"] = &models.Payment{PaymentID: "PAY-1", Status: models.PaymentPending}
	svc := NewPaymentService(repo, &mockStudentResolver{}, nil, zap.NewNop())

	payment, err := svc.UpdateStatus(context.Background(), "PAY-1", dto.UpdatePaymentStatusRequest{Status: "paid", PaidDate: "2024-06-02"})
	require.NoError(t, err)
	require.NotNil(t, payment.PaidDate)
	assert.Equal(t, "2024-06-02", payment.PaidDate.Format("2006-01-02"))
}

func TestPaymentServiceUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewPaymentService(newMockPaymentRepo(), &mockStudentResolver{}, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "PAY-1", dto.UpdatePaymentStatusRequest{Status: "settled"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceUpdateDonationStatus(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := NewPaymentService(repo, &mockStudentResolver{}, nil, zap.NewNop())

	require.NoError(t, svc.UpdateDonationStatus(context.Background(), "DON-1", dto.UpdateDonationStatusRequest{Status: "refunded"}))
	assert.Equal(t, "DON-1", repo.donationUpdated)
	assert.Equal(t, models.DonationRefunded, repo.donationStatus)

	err := svc.UpdateDonationStatus(context.Background(), "DON-1", dto.UpdateDonationStatusRequest{Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
