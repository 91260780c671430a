package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles agent login, logout and first-run device activation.
type AuthService struct {
	Gateway  Gateway
	Sessions *SessionManager
	Catalogs *CatalogService
}

// Login authenticates the agent against the core and establishes the session
// with the business rules delivered alongside the token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	if username == "" || password == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	result, err := s.Gateway.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}

	rules := domain.BusinessRules{
		Operations:    make(map[domain.OperationKind]domain.OperationRule, len(result.Rules)),
		ResendSeconds: result.ResendSeconds,
	}
	for _, r := range result.Rules {
		kind := domain.OperationKind(r.Operation)
		if !kind.Valid() {
			slogx.FromContext(ctx).Warn("ignoring rule for unknown operation",
				slog.String("operation", r.Operation))
			continue
		}
		rules.Operations[kind] = domain.OperationRule{
			Commission:        r.Commission,
			CommissionPending: r.CommissionPending,
			OTPClient:         r.OTPClient,
			OTPAgent:          r.OTPAgent,
		}
	}

	session := domain.Session{
		UserID:   result.UserID,
		FullName: result.FullName,
		Token:    result.Token,
		LoginAt:  time.Now(),
		Duration: result.SessionDuration,
		Rules:    rules,
	}
	s.Sessions.Set(ctx, session)

	if s.Catalogs != nil {
		s.Catalogs.Invalidate()
	}

	slogx.FromContext(ctx).Info("agent logged in", slog.String("user_id", result.UserID))
	return session, nil
}

// Logout ends the session remotely and locally. The local session is cleared
// even when the remote call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.Gateway.Logout(ctx)

	s.Sessions.Clear(ctx)
	if s.Catalogs != nil {
		s.Catalogs.Invalidate()
	}

	slogx.FromContext(ctx).Info("agent logged out")
	return err
}

// ActivateDevice redeems a first-run activation code for this terminal.
func (s *AuthService) ActivateDevice(ctx context.Context, activationCode string) error {
	return s.Gateway.ActivateDevice(ctx, activationCode)
}
