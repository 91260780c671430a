package corebank

import (
	"context"
	"net/http"
)

type clientSearchRequest struct {
	IdentificationType string `json:"tipoIdentificacion"`
	Identification     string `json:"identificacion"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// FindClient looks up a bank client by identification type and number.
func (c *Client) FindClient(ctx context.Context, idType, identification string) (*ClientRecord, error) {
	req := clientSearchRequest{
		IdentificationType: idType,
		Identification:     identification,
		Device:             c.deviceContext(ctx),
	}

	var payload clientPayload
	if err := c.do(ctx, http.MethodPost, "/v1/clients/search", req, &payload); err != nil {
		return nil, err
	}

	record, err := normalizeClient(payload)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
