package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
)

func TestRenderReceiptStable(t *testing.T) {
	t.Parallel()

	svc := &ReceiptService{Header: "BANCO SUR"}
	receipt := domain.Receipt{
		ID:             "01JABCDEF000000000000000R1",
		Sequence:       42,
		Operation:      domain.OpWithdrawal,
		Date:           time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC),
		ClientName:     "Ana Diaz",
		Reference:      "001-234",
		TransactionRef: "TX-9001",
		Amount:         25000,
		Commission:     150,
		Total:          25150,
		AgentUserID:    "agent-42",
	}

	first := svc.Render(receipt)
	second := svc.Render(receipt)
	require.Equal(t, first, second)

	doc := string(first)
	require.Contains(t, doc, "BANCO SUR")
	require.Contains(t, doc, "RETIRO")
	require.Contains(t, doc, "TX-9001")
	require.Contains(t, doc, "Ana Diaz")
	require.Contains(t, doc, "$250.00")
	require.Contains(t, doc, "$1.50")
	require.Contains(t, doc, "$251.50")
	require.Contains(t, doc, "000042")

	// Starts with the printer initialize sequence, ends with a cut.
	require.Equal(t, []byte{0x1B, 0x40}, first[:2])
	require.Equal(t, []byte{0x1D, 0x56, 0x00}, first[len(first)-3:])
}

func TestFormatCents(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$0.00", formatCents(0))
	require.Equal(t, "$0.05", formatCents(5))
	require.Equal(t, "$251.50", formatCents(25150))
	require.Equal(t, "-$1.25", formatCents(-125))
}
