package domain

// Target is the selected account, loan, bill or receivable the transaction
// runs against. Balance carries the available or outstanding balance used for
// amount validation.
type Target struct {
	Kind        string // "account", "loan", "receivable", "bill"
	Reference   string // account/loan number, receivable reference, bill reference
	ServiceCode string // bill payment only
	Description string
	Holder      string // bill payment only
	Balance     int64  // centavos; 0 where the target has no balance concept
}

// DraftPatch is a partial update to a transaction draft. Nil fields are left
// untouched by Merge.
type DraftPatch struct {
	Client     *ClientSelection
	Target     *Target
	Amount     *int64
	Commission *int64
}

// ClientSelection is the identified bank client the draft operates on.
type ClientSelection struct {
	Identification     string
	IdentificationType string
	FullName           string
}

// TransactionDraft accumulates one in-progress transaction across the flow's
// steps. Each flow instance owns exactly one draft.
type TransactionDraft struct {
	Operation  OperationKind
	Client     *ClientSelection
	Target     *Target
	Amount     int64 // centavos
	Commission int64 // centavos
}

// Merge shallow-merges the patch into the draft. Fields add only; cross-field
// invariants are the orchestrator's job.
func (d *TransactionDraft) Merge(patch DraftPatch) {
	if patch.Client != nil {
		d.Client = patch.Client
	}
	if patch.Target != nil {
		d.Target = patch.Target
	}
	if patch.Amount != nil {
		d.Amount = *patch.Amount
	}
	if patch.Commission != nil {
		d.Commission = *patch.Commission
	}
}

// Total is the amount the client hands over or receives, commission included.
func (d *TransactionDraft) Total() int64 {
	return d.Amount + d.Commission
}

// Clear resets the draft to empty, keeping only the operation kind.
func (d *TransactionDraft) Clear() {
	*d = TransactionDraft{Operation: d.Operation}
}
