package corebank

import (
	"context"
	"errors"
	"net/http"
)

// Party names the OTP recipient on the wire.
type Party string

const (
	PartyClient Party = "cliente"
	PartyAgent  Party = "corresponsal"
)

// ErrOTPRejected is returned by VerifyOTP when the core declines the code.
var ErrOTPRejected = errors.New("otp code rejected")

type otpRequest struct {
	Party          Party  `json:"destinatario"`
	Identification string `json:"identificacion"`
	Operation      string `json:"operacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type otpRequestResponse struct {
	EmailSent bool     `json:"correoEnviado"`
	SMSSent   bool     `json:"smsEnviado"`
	Warnings  []string `json:"advertencias"`
}

// RequestOTP asks the core to generate and deliver a fresh OTP for one party.
// Partial delivery failure is reported through OTPDelivery.Warnings; generation
// failure comes back as an error.
func (c *Client) RequestOTP(ctx context.Context, party Party, identification, operation string) (OTPDelivery, error) {
	req := otpRequest{
		Party:          party,
		Identification: identification,
		Operation:      operation,
		Device:         c.deviceContext(ctx),
	}

	var resp otpRequestResponse
	if err := c.do(ctx, http.MethodPost, "/v1/otp/request", req, &resp); err != nil {
		return OTPDelivery{}, err
	}
	return OTPDelivery{
		EmailSent: resp.EmailSent,
		SMSSent:   resp.SMSSent,
		Warnings:  resp.Warnings,
	}, nil
}

type otpVerifyRequest struct {
	Party          Party  `json:"destinatario"`
	Identification string `json:"identificacion"`
	Operation      string `json:"operacion"`
	Code           string `json:"codigo"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type otpVerifyResponse struct {
	Valid bool `json:"valido"`
}

// VerifyOTP submits an entered code for one party. A reachable core that
// declines the code yields ErrOTPRejected.
func (c *Client) VerifyOTP(ctx context.Context, party Party, identification, operation, code string) error {
	req := otpVerifyRequest{
		Party:          party,
		Identification: identification,
		Operation:      operation,
		Code:           code,
		Device:         c.deviceContext(ctx),
	}

	var resp otpVerifyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/otp/verify", req, &resp); err != nil {
		return err
	}
	if !resp.Valid {
		return ErrOTPRejected
	}
	return nil
}
