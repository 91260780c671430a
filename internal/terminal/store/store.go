package store

import (
	"context"
	"errors"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the terminal's local database.
// Concrete drivers implement it; sub-repositories keep concerns tidy and
// stop anyone accidentally nesting transactions.
type Store interface {
	Credentials() Credentials
	Receipts() Receipts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Credentials holds the terminal's single persisted bearer credential. The
// value is stored sealed; the service layer owns encryption.
type Credentials interface {
	// GetToken returns the sealed token, or ErrNotFound when none persisted.
	GetToken(ctx context.Context) ([]byte, error)

	// SaveToken replaces the sealed token.
	SaveToken(ctx context.Context, sealed []byte) error

	// DeleteToken removes the persisted token. Deleting an absent token is
	// not an error.
	DeleteToken(ctx context.Context) error
}

// Receipts is the local archive of committed transactions, kept so past
// receipts reprint without the remote core.
type Receipts interface {
	// CreateReceipt inserts a new receipt (id is provided by app via ULID).
	CreateReceipt(ctx context.Context, r domain.Receipt) error

	// GetReceiptByID returns a receipt by id.
	GetReceiptByID(ctx context.Context, id string) (domain.Receipt, error)

	// ListReceipts returns the newest receipts first, up to limit.
	ListReceipts(ctx context.Context, limit int) ([]domain.Receipt, error)

	// NextSequence returns the next per-terminal receipt sequence number.
	// Call inside the transaction that inserts the receipt.
	NextSequence(ctx context.Context) (int64, error)
}
