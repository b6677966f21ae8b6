package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/presensi-guru-api/internal/models"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
)

type mockAuthGuruRepo struct {
	byEmail map[string]*models.Guru
	byID    map[string]*models.Guru
}

func (m *mockAuthGuruRepo) FindByEmail(ctx context.Context, email string) (*models.Guru, error) {
	if guru, ok := m.byEmail[email]; ok {
		return guru, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthGuruRepo) FindByID(ctx context.Context, id string) (*models.Guru, error) {
	if guru, ok := m.byID[id]; ok {
		return guru, nil
	}
	return nil, sql.ErrNoRows
}

func testAuthService(t *testing.T, repo *mockAuthGuruRepo) *AuthService {
	t.Helper()
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "presensi-guru-api",
	})
}

func activeGuru(t *testing.T, password string) *models.Guru {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Guru{
		ID:           "g-1",
		Nama:         "Siti Rahma",
		Email:        "siti@sekolah.sch.id",
		PasswordHash: string(hash),
		Role:         models.RoleGuru,
		Active:       true,
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	guru := activeGuru(t, "rahasia123")
	repo := &mockAuthGuruRepo{byEmail: map[string]*models.Guru{guru.Email: guru}}
	svc := testAuthService(t, repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    guru.Email,
		Password: "rahasia123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "g-1", resp.Guru.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "g-1", claims.GuruID)
	assert.Equal(t, models.RoleGuru, claims.Role)
	assert.Equal(t, "presensi-guru-api", claims.Issuer)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	guru := activeGuru(t, "rahasia123")
	repo := &mockAuthGuruRepo{byEmail: map[string]*models.Guru{guru.Email: guru}}
	svc := testAuthService(t, repo)

	var appErr *appErrors.Error

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: guru.Email, Password: "salah"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)

	// An unknown email yields the same error as a wrong password.
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "lain@sekolah.sch.id", Password: "salah"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	guru := activeGuru(t, "rahasia123")
	guru.Active = false
	repo := &mockAuthGuruRepo{byEmail: map[string]*models.Guru{guru.Email: guru}}
	svc := testAuthService(t, repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: guru.Email, Password: "rahasia123"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthLoginValidation(t *testing.T) {
	svc := testAuthService(t, &mockAuthGuruRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthValidateTokenRejectsForgery(t *testing.T) {
	guru := activeGuru(t, "rahasia123")
	repo := &mockAuthGuruRepo{byEmail: map[string]*models.Guru{guru.Email: guru}}
	svc := testAuthService(t, repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: guru.Email, Password: "rahasia123"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Hour,
	})
	_, err = other.ValidateToken(resp.AccessToken)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
