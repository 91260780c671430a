package corebank

import (
	"context"
	"net/http"
)

type billSearchRequest struct {
	ServiceCode string `json:"codigoServicio"`
	Reference   string `json:"referencia"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// SearchBill looks up a utility bill by service code and reference.
func (c *Client) SearchBill(ctx context.Context, serviceCode, reference string) (BillRecord, error) {
	req := billSearchRequest{
		ServiceCode: serviceCode,
		Reference:   reference,
		Device:      c.deviceContext(ctx),
	}

	var resp billPayload
	if err := c.do(ctx, http.MethodPost, "/v1/bills/search", req, &resp); err != nil {
		return BillRecord{}, err
	}
	return normalizeBill(resp)
}
