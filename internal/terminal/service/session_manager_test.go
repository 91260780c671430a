package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
)

type memoryTokens struct {
	token   string
	saveErr error
}

func (s *memoryTokens) Token(ctx context.Context) (string, error) { return s.token, nil }
func (s *memoryTokens) Save(ctx context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}
func (s *memoryTokens) Delete(ctx context.Context) error {
	s.token = ""
	return nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-core-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionManagerSetPersists(t *testing.T) {
	t.Parallel()

	tokens := &memoryTokens{}
	m := &SessionManager{Tokens: tokens}
	ctx := context.Background()

	m.Set(ctx, domain.Session{UserID: "agent-42", Token: "tok-1", LoginAt: time.Now(), Duration: time.Hour})
	require.Equal(t, "tok-1", tokens.token)
	require.Equal(t, "agent-42", m.UserID())

	m.Clear(ctx)
	require.Empty(t, tokens.token)
	require.Empty(t, m.UserID())
	require.True(t, m.CheckExpired(time.Now()))
}

func TestSessionManagerPersistFailureNonFatal(t *testing.T) {
	t.Parallel()

	tokens := &memoryTokens{saveErr: errors.New("disk full")}
	m := &SessionManager{Tokens: tokens}

	m.Set(context.Background(), domain.Session{UserID: "agent-42", Token: "tok-1", LoginAt: time.Now(), Duration: time.Hour})

	// In-memory session stays authoritative.
	session, err := m.Get()
	require.NoError(t, err)
	require.Equal(t, "tok-1", session.Token)
}

func TestSessionManagerRestore(t *testing.T) {
	t.Parallel()

	t.Run("recovers identity from persisted token", func(t *testing.T) {
		tokens := &memoryTokens{token: signedToken(t, jwt.MapClaims{
			"sub": "agent-42",
			"exp": time.Now().Add(10 * time.Minute).Unix(),
		})}
		m := &SessionManager{Tokens: tokens, DefaultDuration: time.Hour}

		require.NoError(t, m.Restore(context.Background()))
		session, err := m.Get()
		require.NoError(t, err)
		require.Equal(t, "agent-42", session.UserID)
		// Bounded by the token expiry, not the default.
		require.LessOrEqual(t, session.Duration, 10*time.Minute)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens := &memoryTokens{token: signedToken(t, jwt.MapClaims{
			"sub": "agent-42",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})}
		m := &SessionManager{Tokens: tokens, DefaultDuration: time.Hour}

		require.ErrorIs(t, m.Restore(context.Background()), ErrSessionExpired)
	})

	t.Run("no persisted token", func(t *testing.T) {
		m := &SessionManager{Tokens: &memoryTokens{}, DefaultDuration: time.Hour}
		require.ErrorIs(t, m.Restore(context.Background()), ErrNoSession)
	})

	t.Run("garbage token", func(t *testing.T) {
		m := &SessionManager{Tokens: &memoryTokens{token: "not-a-jwt"}, DefaultDuration: time.Hour}
		require.ErrorIs(t, m.Restore(context.Background()), ErrNoSession)
	})
}
