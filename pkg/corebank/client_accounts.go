package corebank

import (
	"context"
	"net/http"
)

type accountListRequest struct {
	Identification string `json:"identificacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type accountListResponse struct {
	Accounts []accountPayload `json:"cuentas"`
}

// ListAccounts returns the client's deposit accounts. An empty list is a
// valid result; callers present it as an explicit empty state.
func (c *Client) ListAccounts(ctx context.Context, identification string) ([]AccountRecord, error) {
	req := accountListRequest{
		Identification: identification,
		Device:         c.deviceContext(ctx),
	}

	var resp accountListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/accounts/list", req, &resp); err != nil {
		return nil, err
	}

	records := make([]AccountRecord, 0, len(resp.Accounts))
	for _, p := range resp.Accounts {
		rec, err := normalizeAccount(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

type cashBalanceRequest struct {
	Device DeviceContext `json:"contextoDispositivo"`
}

type cashBalanceResponse struct {
	Available float64 `json:"saldoDisponible"`
}

// AgentCashBalance returns the agent's own cash position held server-side.
// Withdrawals are prechecked against it before OTP is requested.
func (c *Client) AgentCashBalance(ctx context.Context) (int64, error) {
	var resp cashBalanceResponse
	if err := c.do(ctx, http.MethodPost, "/v1/agent/cash-balance", cashBalanceRequest{Device: c.deviceContext(ctx)}, &resp); err != nil {
		return 0, err
	}
	return toCents(resp.Available), nil
}
