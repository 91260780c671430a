package sqlite

import (
	"context"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
)

type receiptsRepo struct {
	db queryer
}

func (r *receiptsRepo) CreateReceipt(ctx context.Context, receipt domain.Receipt) error {
	createdAt := receipt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO receipts (
			id, sequence, operation, date, client_name, reference,
			transaction_ref, amount, commission, total, agent_user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID,
		receipt.Sequence,
		string(receipt.Operation),
		receipt.Date.UTC(),
		receipt.ClientName,
		receipt.Reference,
		receipt.TransactionRef,
		receipt.Amount,
		receipt.Commission,
		receipt.Total,
		receipt.AgentUserID,
		createdAt,
	)
	return err
}

func (r *receiptsRepo) GetReceiptByID(ctx context.Context, id string) (domain.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, sequence, operation, date, client_name, reference,
		       transaction_ref, amount, commission, total, agent_user_id, created_at
		FROM receipts WHERE id = ?`, id)

	receipt, err := scanReceipt(row)
	if err != nil {
		return domain.Receipt{}, mapNotFound(err)
	}
	return receipt, nil
}

func (r *receiptsRepo) ListReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sequence, operation, date, client_name, reference,
		       transaction_ref, amount, commission, total, agent_user_id, created_at
		FROM receipts
		ORDER BY sequence DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

func (r *receiptsRepo) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM receipts`,
	).Scan(&next)
	return next, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (domain.Receipt, error) {
	var (
		receipt   domain.Receipt
		operation string
	)
	err := row.Scan(
		&receipt.ID,
		&receipt.Sequence,
		&operation,
		&receipt.Date,
		&receipt.ClientName,
		&receipt.Reference,
		&receipt.TransactionRef,
		&receipt.Amount,
		&receipt.Commission,
		&receipt.Total,
		&receipt.AgentUserID,
		&receipt.CreatedAt,
	)
	if err != nil {
		return domain.Receipt{}, err
	}
	receipt.Operation = domain.OperationKind(operation)
	return receipt, nil
}
