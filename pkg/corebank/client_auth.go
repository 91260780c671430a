package corebank

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type loginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"clave"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type loginResponse struct {
	Token          string  `json:"token"`
	UserID         string  `json:"idUsuario"`
	FullName       string  `json:"nombreCompleto"`
	SessionMinutes int     `json:"minutosSesion"`
	ResendSeconds  int     `json:"segundosReenvioOtp"`
	Rules          []ruleP `json:"reglasOperacion"`
}

type ruleP struct {
	Operation         string  `json:"operacion"`
	Commission        float64 `json:"comision"`
	CommissionPending bool    `json:"comisionPendiente"`
	OTPClient         bool    `json:"otpCliente"`
	OTPAgent          bool    `json:"otpCorresponsal"`
}

// Login authenticates the agent against the core and persists the issued
// bearer token through the TokenStore. Persistence failure is non-fatal: the
// returned token remains authoritative for this run.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := loginRequest{
		Username: username,
		Password: password,
		Device:   c.deviceContext(ctx),
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" || resp.UserID == "" {
		return nil, fmt.Errorf("%w: login response missing token or user", ErrInvalidResponse)
	}

	if c.Tokens != nil {
		_ = c.Tokens.Save(ctx, resp.Token)
	}

	rules := make([]OperationRule, 0, len(resp.Rules))
	for _, r := range resp.Rules {
		rules = append(rules, OperationRule{
			Operation:         r.Operation,
			Commission:        toCents(r.Commission),
			CommissionPending: r.CommissionPending,
			OTPClient:         r.OTPClient,
			OTPAgent:          r.OTPAgent,
		})
	}

	return &LoginResult{
		Token:           resp.Token,
		UserID:          resp.UserID,
		FullName:        resp.FullName,
		SessionDuration: time.Duration(resp.SessionMinutes) * time.Minute,
		ResendSeconds:   resp.ResendSeconds,
		Rules:           rules,
	}, nil
}

type activateRequest struct {
	ActivationCode string `json:"codigoActivacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type activateResponse struct {
	Token string `json:"token"`
}

// ActivateDevice redeems a first-run activation code for this terminal's
// device credential and persists it.
func (c *Client) ActivateDevice(ctx context.Context, activationCode string) error {
	req := activateRequest{
		ActivationCode: activationCode,
		Device:         c.deviceContext(ctx),
	}

	var resp activateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/activate", req, &resp); err != nil {
		return err
	}

	if resp.Token == "" {
		return fmt.Errorf("%w: activation response missing token", ErrInvalidResponse)
	}

	if c.Tokens != nil {
		_ = c.Tokens.Save(ctx, resp.Token)
	}
	return nil
}

type logoutRequest struct {
	Device DeviceContext `json:"contextoDispositivo"`
}

// Logout invalidates the session server-side and deletes the persisted token.
// The local token is deleted even if the remote call fails.
func (c *Client) Logout(ctx context.Context) error {
	remoteErr := c.do(ctx, http.MethodPost, "/v1/auth/logout", logoutRequest{Device: c.deviceContext(ctx)}, nil)

	if c.Tokens != nil {
		if err := c.Tokens.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete persisted token: %w", err)
		}
	}

	return remoteErr
}
