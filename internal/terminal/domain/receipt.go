package domain

import "time"

// Receipt is the terminal record of a committed transaction: the core's
// normalized result plus the commission and total captured in the draft.
type Receipt struct {
	ID             string // ULID
	Sequence       int64  // per-terminal monotonic counter
	Operation      OperationKind
	Date           time.Time
	ClientName     string
	Reference      string // account number or document reference
	TransactionRef string
	Amount         int64 // centavos
	Commission     int64 // centavos
	Total          int64 // centavos
	AgentUserID    string
	CreatedAt      time.Time
}
