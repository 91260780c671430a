package http

import (
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// ReceiptsHandler serves the archived receipts.
type ReceiptsHandler struct {
	ReceiptService *service.ReceiptService
}

type receiptResponse struct {
	ID             string `json:"id"`
	Sequence       int64  `json:"sequence"`
	Operation      string `json:"operation"`
	Date           string `json:"date"`
	ClientName     string `json:"client_name,omitempty"`
	Reference      string `json:"reference"`
	TransactionRef string `json:"transaction_ref"`
	Amount         int64  `json:"amount"`
	Commission     int64  `json:"commission"`
	Total          int64  `json:"total"`
}

func mapReceipt(r domain.Receipt) receiptResponse {
	return receiptResponse{
		ID:             r.ID,
		Sequence:       r.Sequence,
		Operation:      string(r.Operation),
		Date:           r.Date.Format(time.RFC3339),
		ClientName:     r.ClientName,
		Reference:      r.Reference,
		TransactionRef: r.TransactionRef,
		Amount:         r.Amount,
		Commission:     r.Commission,
		Total:          r.Total,
	}
}

// HandleGet godoc
//
//	@Summary	Archived Receipt
//	@Tags		Receipts
//	@Produce	json
//	@Param		id	path		string	true	"Receipt id"
//	@Success	200	{object}	receiptResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/v1/receipts/{id} [get].
func (h *ReceiptsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.ReceiptService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapReceipt(receipt))
}

// HandlePrint godoc
//
//	@Summary		Printable Receipt
//	@Description	Renders the receipt as an ESC/POS document ready to stream to the thermal printer.
//	@Tags			Receipts
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Receipt id"
//	@Success		200	{string}	binary	"ESC/POS document"
//	@Failure		404	{object}	map[string]string
//	@Router			/v1/receipts/{id}/print [get].
func (h *ReceiptsHandler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.ReceiptService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.ReceiptService.Render(receipt))
}
