package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type mockUserRepo struct {
	user             *models.User
	getByEmailErr    error
	getByIDErr       error
	lastLoginTouched bool
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	return m.user, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	return m.user, nil
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	m.lastLoginTouched = true
	return nil
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "admin@example.com",
		FullName:     "Admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockUserRepo{user: activeUser(t, "password")}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "admin@example.com", res.User.Email)
	assert.True(t, repo.lastLoginTouched)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockUserRepo{user: activeUser(t, "password")}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret"})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockUserRepo{getByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret"})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	user := activeUser(t, "password")
	user.Active = false
	repo := &mockUserRepo{user: user}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret"})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	repo := &mockUserRepo{user: activeUser(t, "password")}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	repo := &mockUserRepo{user: activeUser(t, "password")}
	issuer := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})
	verifier := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "other", Expiration: time.Hour})

	res, err := issuer.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceProfileNotFound(t *testing.T) {
	repo := &mockUserRepo{getByIDErr: sql.ErrNoRows}
	svc := NewAuthService(repo, zap.NewNop(), AuthConfig{Secret: "secret"})

	_, err := svc.Profile(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
