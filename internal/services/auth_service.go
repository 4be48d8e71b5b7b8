// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/driprats/storefront-admin/internal/config"
	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrLoginLocked        = errors.New("too many failed login attempts")
)

// LoginRequest carries no validation tags: a missing field is just another
// wrong credential.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string             `json:"-"`
	User      models.SessionUser `json:"user"`
	ExpiresIn int                `json:"expires_in"` // seconds
}

// AuthService checks credentials against the configured admin table.
type AuthService struct {
	accounts map[string]config.AdminAccount
	ttl      time.Duration
	throttle *LoginThrottle
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// timingHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
func timingHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-admin-dummy"), bcrypt.DefaultCost)
	})
	return dummyHash
}

func NewAuthService(cfg *config.Config, throttle *LoginThrottle) *AuthService {
	accounts := make(map[string]config.AdminAccount, len(cfg.Auth.Accounts))
	for _, acct := range cfg.Auth.Accounts {
		accounts[acct.Email] = acct
	}

	ttl := time.Duration(cfg.JWT.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &AuthService{
		accounts: accounts,
		ttl:      ttl,
		throttle: throttle,
	}
}

// TTL is the lifetime of issued tokens and of the session cookie.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Login verifies credentials and issues a session token. clientKey identifies
// the caller for lockout purposes.
func (s *AuthService) Login(req *LoginRequest, clientKey string) (*LoginResult, error) {
	throttleKey := strings.ToLower(req.Email) + "|" + clientKey

	if s.throttle != nil {
		if locked, _ := s.throttle.Locked(throttleKey); locked {
			return nil, ErrLoginLocked
		}
	}

	acct, ok := s.accounts[req.Email]
	hash := []byte(acct.PasswordHash)
	if !ok {
		hash = timingHash()
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password))

	if !ok || err != nil || req.Password == "" {
		if s.throttle != nil {
			s.throttle.Fail(throttleKey)
		}
		return nil, ErrInvalidCredentials
	}

	if s.throttle != nil {
		s.throttle.Reset(throttleKey)
	}

	token, err := utils.GenerateJWT(acct.ID, acct.Email, acct.Role, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		User:      models.SessionUser{ID: acct.ID, Email: acct.Email, Role: acct.Role},
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

// Authenticate turns a token into the session user it was issued for.
func (s *AuthService) Authenticate(token string) (*models.SessionUser, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &models.SessionUser{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
