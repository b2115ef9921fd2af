package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rverbytskyi/planora/internal/auth"
	"github.com/rverbytskyi/planora/internal/database/testutil"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         "auth-test-secret",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	svc, err := NewAuthService(db, jwtSvc)
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Traveller@Example.com ",
		Password:  "Password123!",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, "traveller@example.com", registered.User.Email)
	require.NotEmpty(t, registered.Token)
	require.NotEqual(t, "Password123!", registered.User.Password)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "traveller@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.User.LastLoginAt)
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	svc := newAuthFixture(t)

	first, err := svc.Register(context.Background(), RegisterInput{
		Email:    "owner@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
	require.True(t, first.User.IsAdmin)

	second, err := svc.Register(context.Background(), RegisterInput{
		Email:    "guest@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
	require.False(t, second.User.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)

	input := RegisterInput{Email: "dup@example.com", Password: "Password123!"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "traveller@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "traveller@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "Password123!",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
