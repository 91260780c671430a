package http

import (
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// localHistoryLimit caps the offline receipt listing.
const localHistoryLimit = 50

// HistoryHandler serves GET /v1/history.
type HistoryHandler struct {
	HistoryService *service.HistoryService
	SessionManager *service.SessionManager
}

type historyEntry struct {
	Date           string `json:"date"`
	Operation      string `json:"operation"`
	Reference      string `json:"reference"`
	TransactionRef string `json:"transaction_ref"`
	Amount         int64  `json:"amount"`
	ReceiptID      string `json:"receipt_id,omitempty"`
}

type historyResponse struct {
	Entries []historyEntry `json:"entries"`
	Source  string         `json:"source"`
}

// ServeHTTP godoc
//
//	@Summary		Transaction History
//	@Description	The agent's transaction listing from the core. With source=local, the offline receipt archive instead.
//	@Tags			History
//	@Produce		json
//	@Param			source	query		string	false	"remote (default) or local"
//	@Success		200		{object}	historyResponse
//	@Failure		401		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/v1/history [get].
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.SessionManager.CheckExpired(time.Now()) {
		writeServiceError(w, service.ErrSessionExpired)
		return
	}

	if r.URL.Query().Get("source") == "local" {
		receipts, err := h.HistoryService.Local(r.Context(), localHistoryLimit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := historyResponse{Source: "local", Entries: []historyEntry{}}
		for _, rec := range receipts {
			resp.Entries = append(resp.Entries, historyEntry{
				Date:           rec.Date.Format(time.RFC3339),
				Operation:      string(rec.Operation),
				Reference:      rec.Reference,
				TransactionRef: rec.TransactionRef,
				Amount:         rec.Amount,
				ReceiptID:      rec.ID,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
		return
	}

	entries, err := h.HistoryService.Remote(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := historyResponse{Source: "remote", Entries: []historyEntry{}}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, historyEntry{
			Date:           e.Date.Format(time.RFC3339),
			Operation:      e.Operation,
			Reference:      e.Reference,
			TransactionRef: e.TransactionRef,
			Amount:         e.Amount,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
