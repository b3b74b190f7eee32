// internal/auth/authenticator.go
//
// Email + password login for admins.
//
// Context
// -------
// Passwords are stored as bcrypt hashes.  Login compares in constant time
// and, for an unknown email, still runs one comparison against a dummy hash
// so both failure paths cost the same and return the same error.
//
// Notes
// -----
// • last_login_at is best-effort; a failed stamp is logged, not returned.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/agrocms/internal/metrics"
)

// ErrInvalidCredentials covers both unknown email and wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid email or password")

// ErrWeakPassword is returned by HashPassword for short passwords.
var ErrWeakPassword = errors.New("auth: password must be at least 10 characters")

// MinPasswordLen is enforced when hashing, not when logging in.
const MinPasswordLen = 10

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("agrocms-dummy-password"), bcrypt.DefaultCost)
	return h
})

// HashPassword returns the bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// AdminFinder is the lookup Authenticator needs; *Store satisfies it.
type AdminFinder interface {
	ByEmail(ctx context.Context, email string) (*Admin, error)
	TouchLogin(ctx context.Context, id uint64, at time.Time) error
}

// Authenticator verifies admin credentials.
type Authenticator struct {
	admins AdminFinder
	now    func() time.Time
}

// NewAuthenticator returns an Authenticator backed by admins.
func NewAuthenticator(admins AdminFinder) *Authenticator {
	return &Authenticator{admins: admins, now: time.Now}
}

// Login returns the admin for email when password matches.  Storage errors
// other than "not found" are returned as-is so the caller can 500/503.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	adm, err := a.admins.ByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNoAdmin):
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	case err != nil:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	if err := a.admins.TouchLogin(ctx, adm.ID, now); err != nil {
		zap.L().Warn("last_login_at stamp failed", zap.Uint64("admin", adm.ID), zap.Error(err))
	} else {
		adm.LastLoginAt = &now
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return adm, nil
}
