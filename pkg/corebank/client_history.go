package corebank

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type historyRequest struct {
	Device DeviceContext `json:"contextoDispositivo"`
}

type historyEntryPayload struct {
	Date           string  `json:"fecha"`
	Operation      string  `json:"operacion"`
	Reference      string  `json:"referencia"`
	TransactionRef string  `json:"numeroTransaccion"`
	Amount         float64 `json:"valor"`
}

type historyResponse struct {
	Entries []historyEntryPayload `json:"movimientos"`
}

// TransactionHistory returns the agent's recent transactions, newest first as
// the core delivers them.
func (c *Client) TransactionHistory(ctx context.Context) ([]HistoryEntry, error) {
	req := historyRequest{Device: c.deviceContext(ctx)}

	var resp historyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/history", req, &resp); err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(resp.Entries))
	for _, p := range resp.Entries {
		date, err := time.Parse(time.RFC3339, p.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: history entry date %q", ErrInvalidResponse, p.Date)
		}
		entries = append(entries, HistoryEntry{
			Date:           date,
			Operation:      p.Operation,
			Reference:      p.Reference,
			TransactionRef: p.TransactionRef,
			Amount:         toCents(p.Amount),
		})
	}
	return entries, nil
}
