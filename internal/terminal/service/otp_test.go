package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
)

func newCoordinator(rule domain.OperationRule, now time.Time) *OtpCoordinator {
	return newOtpCoordinator(rule, 60, "retiro", "1020304050", "agent-42", now)
}

func TestResendLockedByCountdown(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	gw := defaultGateway()
	c := newCoordinator(domain.OperationRule{OTPClient: true}, now)
	require.NoError(t, c.GenerateAll(context.Background(), gw))

	err := c.Resend(context.Background(), gw, now.Add(30*time.Second))
	require.ErrorIs(t, err, ErrResendLocked)
	require.Equal(t, 1, gw.otpRequestCalls)

	require.NoError(t, c.Resend(context.Background(), gw, now.Add(61*time.Second)))
	require.Equal(t, 2, gw.otpRequestCalls)

	// Countdown restarted by the successful resend.
	status := c.Status(now.Add(61 * time.Second))
	require.Equal(t, 60, status.ResendRemaining)
	require.False(t, status.ResendAvailable)
}

func TestResendFailureKeepsCountdownExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	gw := defaultGateway()
	c := newCoordinator(domain.OperationRule{OTPClient: true, OTPAgent: true}, now)
	require.NoError(t, c.GenerateAll(context.Background(), gw))

	gw.otpRequestErr = errors.New("core unreachable")
	later := now.Add(2 * time.Minute)
	require.Error(t, c.Resend(context.Background(), gw, later))

	// A failed resend does not restart the lockout; the agent may retry at
	// once.
	status := c.Status(later)
	require.True(t, status.ResendAvailable)

	gw.otpRequestErr = nil
	require.NoError(t, c.Resend(context.Background(), gw, later))
	require.False(t, c.Status(later).ResendAvailable)
}

func TestResendResetsEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	gw := defaultGateway()
	c := newCoordinator(domain.OperationRule{OTPClient: true}, now)
	require.NoError(t, c.GenerateAll(context.Background(), gw))
	require.NoError(t, c.Enter(domain.OtpPartyClient, "123456"))

	require.NoError(t, c.Resend(context.Background(), gw, now.Add(time.Minute)))

	status := c.Status(now.Add(time.Minute))
	require.False(t, status.Parties[0].Complete)
}

func TestVerifySequencing(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	gw := defaultGateway()
	gw.otpVerifyErr = map[corebank.Party]error{
		corebank.PartyClient: corebank.ErrOTPRejected,
	}
	c := newCoordinator(domain.OperationRule{OTPClient: true, OTPAgent: true}, now)
	require.NoError(t, c.GenerateAll(context.Background(), gw))

	require.NoError(t, c.Enter(domain.OtpPartyClient, "111111"))
	require.NoError(t, c.Enter(domain.OtpPartyAgent, "222222"))

	// Client code is checked first; its rejection stops the sequence.
	err := c.Verify(context.Background(), gw)
	require.ErrorIs(t, err, corebank.ErrOTPRejected)
}

func TestEnterRoutesToMatchingParty(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	c := newCoordinator(domain.OperationRule{OTPClient: true, OTPAgent: true}, now)

	require.NoError(t, c.Enter(domain.OtpPartyClient, "123456"))

	status := c.Status(now)
	require.True(t, status.Parties[0].Complete)
	require.False(t, status.Parties[1].Complete)

	// Re-entry replaces that party's code without touching the other buffer.
	require.NoError(t, c.Enter(domain.OtpPartyClient, "654"))
	require.NoError(t, c.Enter(domain.OtpPartyAgent, "222222"))

	status = c.Status(now)
	require.False(t, status.Parties[0].Complete)
	require.True(t, status.Parties[1].Complete)

	require.Nil(t, c.challenge("voicemail"))
}

func TestEnterUnknownParty(t *testing.T) {
	t.Parallel()

	c := newCoordinator(domain.OperationRule{OTPClient: true}, time.Now())
	err := c.Enter(domain.OtpPartyAgent, "123456")
	require.ErrorIs(t, err, ErrUnknownParty)
}

func TestDeliveryWarningsSurface(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	gw := defaultGateway()
	gw.otpDelivery = corebank.OTPDelivery{EmailSent: true, Warnings: []string{"sms gateway unavailable"}}
	c := newCoordinator(domain.OperationRule{OTPClient: true}, now)

	require.NoError(t, c.GenerateAll(context.Background(), gw))

	status := c.Status(now)
	require.True(t, status.Parties[0].EmailSent)
	require.False(t, status.Parties[0].SMSSent)
	require.Equal(t, []string{"sms gateway unavailable"}, status.Parties[0].Warnings)
}
