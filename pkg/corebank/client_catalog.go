package corebank

import (
	"context"
	"net/http"
)

type catalogRequest struct {
	Device DeviceContext `json:"contextoDispositivo"`
}

// Catalogs fetches the reference data bundle (identification types, countries,
// marital statuses, alert types). Fetched once per session and cached by the
// caller.
func (c *Client) Catalogs(ctx context.Context) (*Catalogs, error) {
	var out Catalogs
	if err := c.do(ctx, http.MethodPost, "/v1/catalogs", catalogRequest{Device: c.deviceContext(ctx)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
