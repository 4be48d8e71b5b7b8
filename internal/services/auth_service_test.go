package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/driprats/storefront-admin/internal/config"
	"github.com/driprats/storefront-admin/internal/utils"
)

func newTestAuthService(t *testing.T, throttle *LoginThrottle) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		JWT: config.JWTConfig{TTLHours: 168},
		Auth: config.AuthConfig{Accounts: []config.AdminAccount{
			{ID: 1, Email: "admin1@yourstore.com", PasswordHash: string(hash), Role: "admin"},
		}},
	}
	return NewAuthService(cfg, throttle)
}

func TestLoginIssuesToken(t *testing.T) {
	svc := newTestAuthService(t, nil)

	result, err := svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "correct-horse"}, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.User.ID)
	assert.Equal(t, "admin1@yourstore.com", result.User.Email)
	assert.Equal(t, "admin", result.User.Role)
	assert.Equal(t, 604800, result.ExpiresIn)

	user, err := svc.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User, *user)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t, nil)

	cases := []LoginRequest{
		{Email: "admin1@yourstore.com", Password: "wrong"},
		{Email: "nobody@yourstore.com", Password: "correct-horse"},
		{Email: "Admin1@YourStore.com", Password: "correct-horse"},
		{Email: " admin1@yourstore.com ", Password: "correct-horse"},
		{Email: "admin1@yourstore.com"},
		{},
	}
	for _, req := range cases {
		_, err := svc.Login(&req, "203.0.113.7")
		assert.ErrorIs(t, err, ErrInvalidCredentials, req.Email)
	}
}

func TestLoginMatchesEmailExactly(t *testing.T) {
	one, err := bcrypt.GenerateFromPassword([]byte("pw-one"), bcrypt.MinCost)
	require.NoError(t, err)
	two, err := bcrypt.GenerateFromPassword([]byte("pw-two"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&config.Config{Auth: config.AuthConfig{Accounts: []config.AdminAccount{
		{ID: 1, Email: "admin1@yourstore.com", PasswordHash: string(one), Role: "admin"},
		{ID: 2, Email: "Admin1@yourstore.com", PasswordHash: string(two), Role: "viewer"},
	}}}, nil)

	result, err := svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "pw-one"}, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.User.ID)

	result, err = svc.Login(&LoginRequest{Email: "Admin1@yourstore.com", Password: "pw-two"}, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.User.ID)

	_, err = svc.Login(&LoginRequest{Email: "ADMIN1@YOURSTORE.COM", Password: "pw-two"}, "203.0.113.7")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService(t, nil)

	_, err := svc.Authenticate("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	expired, err := utils.GenerateJWT(1, "admin1@yourstore.com", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = svc.Authenticate(expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	throttle := NewLoginThrottle(3, 15*time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	throttle.now = func() time.Time { return now }
	svc := newTestAuthService(t, throttle)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "wrong"}, "ip-1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "correct-horse"}, "ip-1")
	assert.ErrorIs(t, err, ErrLoginLocked)

	// Other clients are unaffected.
	_, err = svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "correct-horse"}, "ip-2")
	assert.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = svc.Login(&LoginRequest{Email: "admin1@yourstore.com", Password: "correct-horse"}, "ip-1")
	assert.NoError(t, err)
}

func TestLoginThrottleResetOnSuccess(t *testing.T) {
	throttle := NewLoginThrottle(2, time.Minute)

	assert.False(t, throttle.Fail("k"))
	throttle.Reset("k")
	assert.False(t, throttle.Fail("k"))
	assert.True(t, throttle.Fail("k"))

	locked, remaining := throttle.Locked("k")
	assert.True(t, locked)
	assert.Greater(t, remaining, time.Duration(0))
}
