package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/slogx"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrNoSession      = errors.New("no active session")
)

// SessionManager is the single source of truth for the authenticated agent.
// It is the only process-wide shared mutable state; writes happen on login,
// logout and expiry only.
type SessionManager struct {
	mu      sync.RWMutex
	session *domain.Session

	// Tokens persists the bearer credential so the session can be restored
	// after a restart. Persistence failure is non-fatal: the in-memory
	// session stays authoritative for the current run.
	Tokens corebank.TokenStore

	// DefaultDuration bounds restored sessions whose token carries no
	// usable expiry claim.
	DefaultDuration time.Duration
}

// Set replaces the session and persists its token.
func (m *SessionManager) Set(ctx context.Context, s domain.Session) {
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()

	if m.Tokens != nil {
		if err := m.Tokens.Save(ctx, s.Token); err != nil {
			slogx.FromContext(ctx).Warn("failed to persist session token", slog.Any("error", err))
		}
	}
}

// Get returns the current session, or ErrNoSession.
func (m *SessionManager) Get() (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return domain.Session{}, ErrNoSession
	}
	return *m.session, nil
}

// UserID returns the acting agent's id, or "" when logged out. Wired into the
// gateway's implicit device context.
func (m *SessionManager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return ""
	}
	return m.session.UserID
}

// Clear drops the session and the persisted token.
func (m *SessionManager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()

	if m.Tokens != nil {
		if err := m.Tokens.Delete(ctx); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete persisted token", slog.Any("error", err))
		}
	}
}

// CheckExpired reports whether the session is missing or past its duration.
// It does not mutate state; callers force logout on true.
func (m *SessionManager) CheckExpired(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return true
	}
	return m.session.Expired(now)
}

// Restore rebuilds a session from the persisted token after a restart. The
// token is a JWT issued by the core; claims are read unverified since the
// remote system is the authority on the token's validity. Restored sessions
// carry no business rules, so a fresh login is still required before starting
// flows; Restore only recovers identity for history and reprint screens.
func (m *SessionManager) Restore(ctx context.Context) error {
	if m.Tokens == nil {
		return ErrNoSession
	}

	token, err := m.Tokens.Token(ctx)
	if err != nil || token == "" {
		return ErrNoSession
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ErrNoSession
	}

	userID, _ := claims.GetSubject()
	if userID == "" {
		return ErrNoSession
	}

	now := time.Now()
	duration := m.DefaultDuration
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if remaining := exp.Time.Sub(now); remaining <= 0 {
			return ErrSessionExpired
		} else if remaining < duration {
			duration = remaining
		}
	}

	m.mu.Lock()
	m.session = &domain.Session{
		UserID:   userID,
		Token:    token,
		LoginAt:  now,
		Duration: duration,
	}
	m.mu.Unlock()

	return nil
}
