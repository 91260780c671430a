package service

import (
	"context"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
)

// HistoryService exposes the agent's transaction history: the core's listing
// plus the local receipt archive for offline reprints.
type HistoryService struct {
	Gateway  Gateway
	Receipts *ReceiptService
}

// Remote returns the core's per-agent transaction listing.
func (s *HistoryService) Remote(ctx context.Context) ([]corebank.HistoryEntry, error) {
	return s.Gateway.TransactionHistory(ctx)
}

// Local returns the newest locally archived receipts.
func (s *HistoryService) Local(ctx context.Context, limit int) ([]domain.Receipt, error) {
	return s.Receipts.List(ctx, limit)
}
