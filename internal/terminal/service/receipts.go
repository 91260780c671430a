package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/internal/terminal/store"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/escpos"
	"github.com/bancosur/corresponsal/pkg/idx"
)

// operationLabels are the printed names of the operation kinds.
var operationLabels = map[domain.OperationKind]string{
	domain.OpWithdrawal:  "RETIRO",
	domain.OpDeposit:     "DEPOSITO",
	domain.OpLoanPayment: "PAGO PRESTAMO",
	domain.OpReceivable:  "RECAUDO",
	domain.OpBillPayment: "PAGO SERVICIO",
}

// ReceiptService archives committed transactions locally and renders them as
// printable ESC/POS documents.
type ReceiptService struct {
	Store store.Store

	// Header appears at the top of every printed receipt.
	Header string
}

// Archive persists the receipt for a committed transaction. Sequence
// allocation and insert run in one transaction so numbers never collide.
func (s *ReceiptService) Archive(ctx context.Context, flowID string, kind domain.OperationKind, draft domain.TransactionDraft, result corebank.CommitResult, agentUserID string) (domain.Receipt, error) {
	clientName := ""
	if draft.Client != nil {
		clientName = draft.Client.FullName
	}

	receipt := domain.Receipt{
		ID:             idx.New().String(),
		Operation:      kind,
		Date:           result.Date,
		ClientName:     clientName,
		Reference:      result.Reference,
		TransactionRef: result.TransactionRef,
		Amount:         result.Amount,
		Commission:     draft.Commission,
		Total:          result.Amount + draft.Commission,
		AgentUserID:    agentUserID,
		CreatedAt:      time.Now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		seq, err := tx.Receipts().NextSequence(ctx)
		if err != nil {
			return err
		}
		receipt.Sequence = seq
		return tx.Receipts().CreateReceipt(ctx, receipt)
	})
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("failed to archive receipt: %w", err)
	}

	return receipt, nil
}

// Get returns an archived receipt by id.
func (s *ReceiptService) Get(ctx context.Context, id string) (domain.Receipt, error) {
	return s.Store.Receipts().GetReceiptByID(ctx, id)
}

// List returns the newest archived receipts.
func (s *ReceiptService) List(ctx context.Context, limit int) ([]domain.Receipt, error) {
	return s.Store.Receipts().ListReceipts(ctx, limit)
}

// Render produces the ESC/POS document for a receipt. The output is stable
// for a given receipt.
func (s *ReceiptService) Render(r domain.Receipt) []byte {
	label := operationLabels[r.Operation]
	if label == "" {
		label = strings.ToUpper(string(r.Operation))
	}

	b := escpos.NewBuilder()
	if s.Header != "" {
		b.CenterLine(s.Header)
	}
	b.CenterLine(label).
		Divider().
		Pair("FECHA", r.Date.Format("2006-01-02 15:04")).
		Pair("RECIBO", fmt.Sprintf("%06d", r.Sequence)).
		Pair("TRANSACCION", r.TransactionRef)

	if r.ClientName != "" {
		b.Line("CLIENTE: " + r.ClientName)
	}
	b.Pair("REFERENCIA", r.Reference).
		Divider().
		Pair("VALOR", formatCents(r.Amount)).
		Pair("COMISION", formatCents(r.Commission))
	b.BoldLine(padPair("TOTAL", formatCents(r.Total))).
		Divider().
		Pair("CORRESPONSAL", r.AgentUserID).
		Feed(3).
		Cut()

	return b.Bytes()
}

// formatCents renders centavos as a decimal amount with a currency marker.
func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// padPair lays out label/value like escpos.Pair but as a plain string, for
// lines that need emphasis.
func padPair(label, value string) string {
	pad := escpos.LineWidth - len(value) - len(label)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value
}
