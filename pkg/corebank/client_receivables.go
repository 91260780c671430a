package corebank

import (
	"context"
	"net/http"
)

type receivableListRequest struct {
	Identification string `json:"identificacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

type receivableListResponse struct {
	Receivables []receivablePayload `json:"obligaciones"`
}

// ListReceivables returns the client's pending receivables.
func (c *Client) ListReceivables(ctx context.Context, identification string) ([]ReceivableRecord, error) {
	req := receivableListRequest{
		Identification: identification,
		Device:         c.deviceContext(ctx),
	}

	var resp receivableListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/receivables/list", req, &resp); err != nil {
		return nil, err
	}

	records := make([]ReceivableRecord, 0, len(resp.Receivables))
	for _, p := range resp.Receivables {
		rec, err := normalizeReceivable(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
