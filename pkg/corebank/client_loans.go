package corebank

import (
	"context"
	"net/http"
)

type loanListRequest struct {
	Identification string `json:"identificacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type loanListResponse struct {
	Loans []loanPayload `json:"prestamos"`
}

// ListLoans returns the client's outstanding loans.
func (c *Client) ListLoans(ctx context.Context, identification string) ([]LoanRecord, error) {
	req := loanListRequest{
		Identification: identification,
		Device:         c.deviceContext(ctx),
	}

	var resp loanListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/loans/list", req, &resp); err != nil {
		return nil, err
	}

	records := make([]LoanRecord, 0, len(resp.Loans))
	for _, p := range resp.Loans {
		rec, err := normalizeLoan(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
