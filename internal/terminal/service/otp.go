package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
)

var (
	ErrOTPIncomplete   = errors.New("otp entry incomplete")
	ErrResendLocked    = errors.New("otp resend locked by countdown")
	ErrOTPNotDelivered = errors.New("otp could not be delivered on any channel")
	ErrUnknownParty    = errors.New("unknown otp party")
)

// OtpCoordinator runs the OTP step of one flow: one challenge per required
// party, a shared resend countdown, sequential verification.
type OtpCoordinator struct {
	operation     string
	clientIdent   string
	agentID       string
	resendSeconds int
	challenges    []*domain.OtpChallenge
	countdown     *domain.Countdown
	lastTick      time.Time
}

// newOtpCoordinator builds the coordinator for the parties the rule requires.
// At least one party must be required; the flow skips the step otherwise.
func newOtpCoordinator(rule domain.OperationRule, resendSeconds int, operation, clientIdent, agentID string, now time.Time) *OtpCoordinator {
	c := &OtpCoordinator{
		operation:     operation,
		clientIdent:   clientIdent,
		agentID:       agentID,
		resendSeconds: resendSeconds,
		countdown:     domain.NewCountdown(resendSeconds),
		lastTick:      now,
	}
	if rule.OTPClient {
		c.challenges = append(c.challenges, domain.NewOtpChallenge(domain.OtpPartyClient))
	}
	if rule.OTPAgent {
		c.challenges = append(c.challenges, domain.NewOtpChallenge(domain.OtpPartyAgent))
	}
	return c
}

// challenge returns the party's challenge, nil when the rule does not
// require that party.
func (c *OtpCoordinator) challenge(party string) *domain.OtpChallenge {
	for _, challenge := range c.challenges {
		if challenge.Party == party {
			return challenge
		}
	}
	return nil
}

func (c *OtpCoordinator) wireParty(challenge *domain.OtpChallenge) (corebank.Party, string) {
	if challenge.Party == domain.OtpPartyAgent {
		return corebank.PartyAgent, c.agentID
	}
	return corebank.PartyClient, c.clientIdent
}

// otpGateway is the slice of the Gateway the coordinator needs. The flow
// service injects it per call so the coordinator holds no I/O references
// between events.
type otpGateway interface {
	RequestOTP(ctx context.Context, party corebank.Party, identification, operation string) (corebank.OTPDelivery, error)
	VerifyOTP(ctx context.Context, party corebank.Party, identification, operation, code string) error
}

// GenerateAll requests generation and delivery of a fresh code for every
// required party. Delivery failure on one channel is a warning as long as the
// other channel worked; a party reached on no channel at all fails the step.
func (c *OtpCoordinator) GenerateAll(ctx context.Context, gw otpGateway) error {
	for _, challenge := range c.challenges {
		party, ident := c.wireParty(challenge)

		delivery, err := gw.RequestOTP(ctx, party, ident, c.operation)
		if err != nil {
			return fmt.Errorf("otp generation for %s: %w", challenge.Party, err)
		}
		if !delivery.EmailSent && !delivery.SMSSent {
			return fmt.Errorf("%w: party %s", ErrOTPNotDelivered, challenge.Party)
		}

		challenge.EmailSent = delivery.EmailSent
		challenge.SMSSent = delivery.SMSSent
		challenge.Warnings = delivery.Warnings
	}
	return nil
}

// Enter types a full code into one party's buffer, replacing prior entry.
func (c *OtpCoordinator) Enter(party, code string) error {
	challenge := c.challenge(party)
	if challenge == nil {
		return fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}

	challenge.Reset()
	for i := 0; i < len(code); i++ {
		challenge.EnterDigit(code[i])
	}
	return nil
}

// Resend regenerates codes for all required parties. Locked while the
// countdown runs; the countdown resets only when every regeneration succeeds.
func (c *OtpCoordinator) Resend(ctx context.Context, gw otpGateway, now time.Time) error {
	c.advance(now)
	if !c.countdown.Expired() {
		return ErrResendLocked
	}

	for _, challenge := range c.challenges {
		challenge.Reset()
	}
	if err := c.GenerateAll(ctx, gw); err != nil {
		return err
	}

	c.countdown.Reset(c.resendSeconds)
	c.lastTick = now
	return nil
}

// Verify checks every required party's code against the core, client first
// then agent. The first rejection stops the sequence.
func (c *OtpCoordinator) Verify(ctx context.Context, gw otpGateway) error {
	for _, challenge := range c.challenges {
		if !challenge.Complete() {
			return fmt.Errorf("%w: party %s", ErrOTPIncomplete, challenge.Party)
		}
	}

	for _, challenge := range c.challenges {
		party, ident := c.wireParty(challenge)
		if err := gw.VerifyOTP(ctx, party, ident, c.operation, challenge.Code()); err != nil {
			return fmt.Errorf("otp verification for %s: %w", challenge.Party, err)
		}
	}
	return nil
}

// OtpStatus is the read-only snapshot exposed to the UI.
type OtpStatus struct {
	Parties         []OtpPartyStatus `json:"parties"`
	ResendRemaining int              `json:"resend_remaining_seconds"`
	ResendAvailable bool             `json:"resend_available"`
}

type OtpPartyStatus struct {
	Party     string   `json:"party"`
	Complete  bool     `json:"complete"`
	EmailSent bool     `json:"email_sent"`
	SMSSent   bool     `json:"sms_sent"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Status advances the countdown to now and snapshots the step.
func (c *OtpCoordinator) Status(now time.Time) OtpStatus {
	c.advance(now)

	status := OtpStatus{
		ResendRemaining: c.countdown.Remaining(),
		ResendAvailable: c.countdown.Expired(),
	}
	for _, challenge := range c.challenges {
		status.Parties = append(status.Parties, OtpPartyStatus{
			Party:     challenge.Party,
			Complete:  challenge.Complete(),
			EmailSent: challenge.EmailSent,
			SMSSent:   challenge.SMSSent,
			Warnings:  challenge.Warnings,
		})
	}
	return status
}

// advance ticks the countdown once per whole second elapsed since the last
// observation, so the timer needs no background goroutine.
func (c *OtpCoordinator) advance(now time.Time) {
	elapsed := int(now.Sub(c.lastTick) / time.Second)
	if elapsed <= 0 {
		return
	}
	for i := 0; i < elapsed; i++ {
		c.countdown.Tick()
	}
	c.lastTick = c.lastTick.Add(time.Duration(elapsed) * time.Second)
}
