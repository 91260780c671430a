package corebank

import (
	"fmt"
	"math"
	"time"
)

// Monetary values cross the wire as decimal numbers and are normalized to
// integer centavos as soon as they enter the SDK.

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(v int64) float64 {
	return float64(v) / 100
}

// ============================================================================
// Normalized record types (what the SDK returns)
// ============================================================================

// ClientRecord is a read-only projection of a bank client.
type ClientRecord struct {
	Identification     string
	IdentificationType string
	FullName           string
}

// AccountRecord is a read-only projection of a deposit account.
type AccountRecord struct {
	Number           string
	Type             string
	AvailableBalance int64 // centavos
}

// LoanRecord is a read-only projection of an outstanding loan.
type LoanRecord struct {
	Number             string
	OutstandingBalance int64 // centavos
	NextDueDate        string
}

// ReceivableRecord is a read-only projection of a pending receivable.
type ReceivableRecord struct {
	Reference   string
	Description string
	Amount      int64 // centavos
}

// BillRecord is a read-only projection of a utility bill pending payment.
type BillRecord struct {
	ServiceCode string
	Reference   string
	Holder      string
	Amount      int64 // centavos
}

// CommitResult is the uniform outcome of every commit operation, regardless
// of the operation kind's request shape.
type CommitResult struct {
	Date           time.Time
	Reference      string // account number or document reference
	TransactionRef string
	Amount         int64 // centavos
}

// OTPDelivery reports how a generated OTP was delivered. Partial delivery
// failure is a warning, not an error.
type OTPDelivery struct {
	EmailSent bool
	SMSSent   bool
	Warnings  []string
}

// HistoryEntry is one row of the agent's transaction history.
type HistoryEntry struct {
	Date           time.Time
	Operation      string
	Reference      string
	TransactionRef string
	Amount         int64 // centavos
}

// CatalogEntry is a single reference-data item.
type CatalogEntry struct {
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// Catalogs is the per-session reference data bundle.
type Catalogs struct {
	IdentificationTypes []CatalogEntry `json:"tiposIdentificacion"`
	Countries           []CatalogEntry `json:"paises"`
	MaritalStatuses     []CatalogEntry `json:"estadosCiviles"`
	AlertTypes          []CatalogEntry `json:"tiposAlerta"`
}

// OperationRule is the per-operation business-rule entry delivered at login.
type OperationRule struct {
	Operation         string
	Commission        int64 // centavos
	CommissionPending bool  // commission not yet defined server-side
	OTPClient         bool
	OTPAgent          bool
}

// LoginResult is the normalized outcome of Login.
type LoginResult struct {
	Token           string
	UserID          string
	FullName        string
	SessionDuration time.Duration
	ResendSeconds   int
	Rules           []OperationRule
}

// ============================================================================
// Wire payloads and their normalization
//
// The core's field naming drifted across versions, so a few payloads probe a
// documented pair of names. Each payload has exactly one normalization
// function; unrecognized shapes are rejected with ErrInvalidResponse instead
// of guessed at.
// ============================================================================

type clientPayload struct {
	Identification     string `json:"identificacion"`
	IdentificationType string `json:"tipoIdentificacion"`
	FullName           string `json:"nombreCompleto"`
	// Older core versions answer "nombres" instead of "nombreCompleto".
	Names string `json:"nombres"`
}

func normalizeClient(p clientPayload) (ClientRecord, error) {
	name := p.FullName
	if name == "" {
		name = p.Names
	}
	if p.Identification == "" || name == "" {
		return ClientRecord{}, fmt.Errorf("%w: client record missing identification or name", ErrInvalidResponse)
	}
	return ClientRecord{
		Identification:     p.Identification,
		IdentificationType: p.IdentificationType,
		FullName:           name,
	}, nil
}

type accountPayload struct {
	Number           string  `json:"numeroCuenta"`
	Type             string  `json:"tipoCuenta"`
	AvailableBalance float64 `json:"saldoDisponible"`
}

func normalizeAccount(p accountPayload) (AccountRecord, error) {
	if p.Number == "" {
		return AccountRecord{}, fmt.Errorf("%w: account record missing number", ErrInvalidResponse)
	}
	return AccountRecord{
		Number:           p.Number,
		Type:             p.Type,
		AvailableBalance: toCents(p.AvailableBalance),
	}, nil
}

type loanPayload struct {
	Number             string  `json:"numeroPrestamo"`
	OutstandingBalance float64 `json:"saldoPendiente"`
	NextDueDate        string  `json:"fechaProximoPago"`
}

func normalizeLoan(p loanPayload) (LoanRecord, error) {
	if p.Number == "" {
		return LoanRecord{}, fmt.Errorf("%w: loan record missing number", ErrInvalidResponse)
	}
	return LoanRecord{
		Number:             p.Number,
		OutstandingBalance: toCents(p.OutstandingBalance),
		NextDueDate:        p.NextDueDate,
	}, nil
}

type receivablePayload struct {
	Reference   string  `json:"referencia"`
	Description string  `json:"descripcion"`
	Amount      float64 `json:"valor"`
}

func normalizeReceivable(p receivablePayload) (ReceivableRecord, error) {
	if p.Reference == "" {
		return ReceivableRecord{}, fmt.Errorf("%w: receivable record missing reference", ErrInvalidResponse)
	}
	return ReceivableRecord{
		Reference:   p.Reference,
		Description: p.Description,
		Amount:      toCents(p.Amount),
	}, nil
}

type billPayload struct {
	ServiceCode string  `json:"codigoServicio"`
	Reference   string  `json:"referencia"`
	Holder      string  `json:"titular"`
	Amount      float64 `json:"valor"`
}

func normalizeBill(p billPayload) (BillRecord, error) {
	if p.Reference == "" {
		return BillRecord{}, fmt.Errorf("%w: bill record missing reference", ErrInvalidResponse)
	}
	return BillRecord{
		ServiceCode: p.ServiceCode,
		Reference:   p.Reference,
		Holder:      p.Holder,
		Amount:      toCents(p.Amount),
	}, nil
}

type commitPayload struct {
	Date string `json:"fecha"`
	// "referencia" for account operations, "documento" for bill/receivable.
	Reference      string  `json:"referencia"`
	Document       string  `json:"documento"`
	TransactionRef string  `json:"numeroTransaccion"`
	Amount         float64 `json:"valor"`
}

func normalizeCommit(p commitPayload) (CommitResult, error) {
	ref := p.Reference
	if ref == "" {
		ref = p.Document
	}
	if p.TransactionRef == "" || ref == "" {
		return CommitResult{}, fmt.Errorf("%w: commit result missing references", ErrInvalidResponse)
	}

	date, err := time.Parse(time.RFC3339, p.Date)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: commit result date %q", ErrInvalidResponse, p.Date)
	}

	return CommitResult{
		Date:           date,
		Reference:      ref,
		TransactionRef: p.TransactionRef,
		Amount:         toCents(p.Amount),
	}, nil
}
