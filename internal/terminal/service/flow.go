package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/idx"
	"github.com/bancosur/corresponsal/pkg/slogx"
)

var (
	ErrFlowNotFound          = errors.New("flow not found")
	ErrFlowSuperseded        = errors.New("flow superseded by a newer flow")
	ErrFlowBusy              = errors.New("flow has a call in flight")
	ErrInvalidState          = errors.New("operation not valid in current flow step")
	ErrUnknownOperation      = errors.New("unknown operation kind")
	ErrMissingIdentification = errors.New("identification and type are required")
	ErrNoTargets             = errors.New("client has no targets for this operation")
	ErrUnknownTarget         = errors.New("target not in the fetched list")
	ErrAmountNotPositive     = errors.New("amount must be positive")
	ErrInsufficientFunds     = errors.New("amount exceeds available balance")
	ErrInsufficientAgentCash = errors.New("agent cash balance insufficient")
)

// Flow is one in-progress transaction. Exactly one flow is active at a time;
// steps addressed to a superseded flow are rejected so stale responses can
// never corrupt a newer flow's state.
type Flow struct {
	ID      idx.ID
	Kind    domain.OperationKind
	Step    domain.FlowStep
	Draft   domain.TransactionDraft
	Targets []domain.Target

	// OTP is only populated on snapshots; the live coordinator stays behind
	// the service mutex.
	OTP *OtpStatus
	otp *OtpCoordinator

	Result    *corebank.CommitResult
	ReceiptID string

	busy bool
}

// FlowService is the per-operation step machine. All transitions run under
// one mutex: the terminal serves a single agent, so contention is not a
// concern, correctness under stale HTTP retries is.
type FlowService struct {
	Gateway  Gateway
	Sessions *SessionManager
	Receipts *ReceiptService

	mu     sync.Mutex
	active *Flow
}

// snapshot copies the flow for return to callers outside the lock. The OTP
// coordinator is replaced by a value snapshot of its state so no mutable
// pointer escapes the mutex. Called with the mutex held.
func (s *FlowService) snapshot(flow *Flow) *Flow {
	copied := *flow
	copied.otp = nil
	if flow.otp != nil {
		status := flow.otp.Status(time.Now())
		copied.OTP = &status
	}
	return &copied
}

// Start abandons any active flow and opens a new one for the operation kind.
func (s *FlowService) Start(ctx context.Context, kind domain.OperationKind) (*Flow, error) {
	if !kind.Valid() {
		return nil, ErrUnknownOperation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}

	step := domain.StepFindClient
	if !kind.RequiresClient() {
		step = domain.StepSelectTarget
	}

	flow := &Flow{
		ID:    idx.New(),
		Kind:  kind,
		Step:  step,
		Draft: domain.TransactionDraft{Operation: kind},
	}
	s.active = flow

	slogx.FromContext(ctx).Info("flow started",
		slog.String("flow_id", flow.ID.String()),
		slog.String("operation", string(kind)))

	return s.snapshot(flow), nil
}

// Get returns a snapshot of the flow.
func (s *FlowService) Get(id string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowFor(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(flow), nil
}

// Abandon drops the flow and its draft.
func (s *FlowService) Abandon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowFor(id)
	if err != nil {
		return err
	}

	flow.Draft.Clear()
	s.active = nil

	slogx.FromContext(ctx).Info("flow abandoned", slog.String("flow_id", id))
	return nil
}

// FindClient resolves the client and fetches the operation's targets. On
// gateway failure the flow stays on the step so the agent can retry. An empty
// target list is surfaced as an explicit empty state, never advanced past.
func (s *FlowService) FindClient(ctx context.Context, id, idType, identification string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.stepFor(ctx, id, domain.StepFindClient)
	if err != nil {
		return nil, err
	}
	if idType == "" || identification == "" {
		return nil, ErrMissingIdentification
	}

	client, err := s.Gateway.FindClient(ctx, idType, identification)
	if err != nil {
		return nil, err
	}

	targets, err := s.fetchTargets(ctx, flow.Kind, client.Identification)
	if err != nil {
		return nil, err
	}

	flow.Draft.Merge(domain.DraftPatch{Client: &domain.ClientSelection{
		Identification:     client.Identification,
		IdentificationType: client.IdentificationType,
		FullName:           client.FullName,
	}})
	flow.Targets = targets
	flow.Step = domain.StepSelectTarget

	if len(targets) == 0 {
		return s.snapshot(flow), ErrNoTargets
	}

	// Auto-select the first target; the agent can still pick another.
	flow.Draft.Merge(domain.DraftPatch{Target: &targets[0]})

	return s.snapshot(flow), nil
}

// SelectTarget fixes the transaction target and advances to amount entry.
// For bill payment the target comes from a remote bill search; other kinds
// pick from the list fetched alongside the client.
func (s *FlowService) SelectTarget(ctx context.Context, id, serviceCode, reference string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.stepFor(ctx, id, domain.StepSelectTarget)
	if err != nil {
		return nil, err
	}

	var target domain.Target
	if flow.Kind == domain.OpBillPayment {
		if serviceCode == "" || reference == "" {
			return nil, ErrMissingIdentification
		}
		bill, err := s.Gateway.SearchBill(ctx, serviceCode, reference)
		if err != nil {
			return nil, err
		}
		target = domain.Target{
			Kind:        "bill",
			Reference:   bill.Reference,
			ServiceCode: bill.ServiceCode,
			Holder:      bill.Holder,
			Balance:     bill.Amount,
		}
	} else {
		found := false
		for _, t := range flow.Targets {
			if t.Reference == reference {
				target = t
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownTarget
		}
	}

	flow.Draft.Merge(domain.DraftPatch{Target: &target})
	flow.Step = domain.StepEnterAmount

	return s.snapshot(flow), nil
}

// EnterAmount validates the amount, runs the withdrawal prechecks, fixes the
// commission from the session rules and moves to the OTP step or straight to
// commit.
func (s *FlowService) EnterAmount(ctx context.Context, id string, amount int64) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.stepFor(ctx, id, domain.StepEnterAmount)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	session, err := s.Sessions.Get()
	if err != nil {
		return nil, err
	}

	if flow.Kind == domain.OpWithdrawal {
		if flow.Draft.Target == nil || amount > flow.Draft.Target.Balance {
			return nil, ErrInsufficientFunds
		}
		cash, err := s.Gateway.AgentCashBalance(ctx)
		if err != nil {
			return nil, err
		}
		if amount > cash {
			return nil, ErrInsufficientAgentCash
		}
	}

	rule := session.Rules.Rule(flow.Kind)
	if rule.CommissionPending {
		slogx.FromContext(ctx).Warn("commission schedule pending for operation",
			slog.String("operation", string(flow.Kind)))
	}

	commission := rule.Commission
	flow.Draft.Merge(domain.DraftPatch{Amount: &amount, Commission: &commission})

	if !session.Rules.RequiresOTP(flow.Kind) {
		flow.Step = domain.StepCommit
		return s.snapshot(flow), nil
	}

	clientIdent := ""
	if flow.Draft.Client != nil {
		clientIdent = flow.Draft.Client.Identification
	}
	otp := newOtpCoordinator(rule, session.Rules.ResendSeconds, string(flow.Kind), clientIdent, session.UserID, time.Now())

	// Generation failure aborts the flow back to the menu.
	if err := otp.GenerateAll(ctx, s.Gateway); err != nil {
		s.active = nil
		return nil, err
	}

	flow.otp = otp
	flow.Step = domain.StepOTP

	return s.snapshot(flow), nil
}

// EnterOTP records one party's code entry.
func (s *FlowService) EnterOTP(ctx context.Context, id, party, code string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.stepFor(ctx, id, domain.StepOTP)
	if err != nil {
		return nil, err
	}
	if flow.busy {
		return nil, ErrFlowBusy
	}
	if err := flow.otp.Enter(party, code); err != nil {
		return nil, err
	}

	return s.snapshot(flow), nil
}

// ResendOTP regenerates codes for all required parties, subject to the
// countdown.
func (s *FlowService) ResendOTP(ctx context.Context, id string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.stepFor(ctx, id, domain.StepOTP)
	if err != nil {
		return nil, err
	}
	if flow.busy {
		return nil, ErrFlowBusy
	}

	if err := flow.otp.Resend(ctx, s.Gateway, time.Now()); err != nil {
		return nil, err
	}

	return s.snapshot(flow), nil
}

// VerifyOTP checks all required codes and, on success, advances to commit.
// A failed verification keeps the flow on the OTP step.
func (s *FlowService) VerifyOTP(ctx context.Context, id string) (*Flow, error) {
	s.mu.Lock()
	flow, err := s.stepFor(ctx, id, domain.StepOTP)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if flow.busy {
		s.mu.Unlock()
		return nil, ErrFlowBusy
	}
	flow.busy = true
	otp := flow.otp
	s.mu.Unlock()

	verifyErr := otp.Verify(ctx, s.Gateway)

	s.mu.Lock()
	defer s.mu.Unlock()

	flow.busy = false
	if s.active == nil || s.active.ID != flow.ID {
		// The flow was superseded while the call was in flight; discard.
		return nil, ErrFlowSuperseded
	}
	if verifyErr != nil {
		return nil, verifyErr
	}

	flow.Step = domain.StepCommit
	return s.snapshot(flow), nil
}

// Commit executes the operation through the gateway. Failure keeps the draft
// and the step for retry; success archives a receipt and terminates the flow
// on the receipt step.
func (s *FlowService) Commit(ctx context.Context, id string) (*Flow, error) {
	s.mu.Lock()
	flow, err := s.stepFor(ctx, id, domain.StepCommit)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if flow.busy {
		s.mu.Unlock()
		return nil, ErrFlowBusy
	}
	flow.busy = true
	draft := flow.Draft
	kind := flow.Kind
	s.mu.Unlock()

	result, commitErr := s.dispatchCommit(ctx, kind, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	flow.busy = false
	if s.active == nil || s.active.ID != flow.ID {
		return nil, ErrFlowSuperseded
	}
	if commitErr != nil {
		slogx.FromContext(ctx).Warn("commit failed",
			slog.String("flow_id", flow.ID.String()),
			slog.Any("error", commitErr))
		return nil, commitErr
	}

	session, err := s.Sessions.Get()
	if err != nil {
		return nil, err
	}

	receipt, err := s.Receipts.Archive(ctx, flow.ID.String(), kind, draft, result, session.UserID)
	if err != nil {
		// The transaction is committed remotely; a failed local archive must
		// not look like a failed transaction.
		slogx.FromContext(ctx).Error("receipt archive failed",
			slog.String("flow_id", flow.ID.String()),
			slog.Any("error", err))
	} else {
		flow.ReceiptID = receipt.ID
	}

	flow.Result = &result
	flow.Step = domain.StepReceipt
	flow.Draft.Clear()

	slogx.FromContext(ctx).Info("transaction committed",
		slog.String("flow_id", flow.ID.String()),
		slog.String("transaction_ref", result.TransactionRef),
		slog.Int64("amount", result.Amount))

	return s.snapshot(flow), nil
}

func (s *FlowService) dispatchCommit(ctx context.Context, kind domain.OperationKind, draft domain.TransactionDraft) (corebank.CommitResult, error) {
	if draft.Target == nil {
		return corebank.CommitResult{}, ErrInvalidState
	}

	clientIdent := ""
	if draft.Client != nil {
		clientIdent = draft.Client.Identification
	}

	switch kind {
	case domain.OpWithdrawal:
		return s.Gateway.CommitWithdrawal(ctx, clientIdent, draft.Target.Reference, draft.Amount)
	case domain.OpDeposit:
		return s.Gateway.CommitDeposit(ctx, clientIdent, draft.Target.Reference, draft.Amount)
	case domain.OpLoanPayment:
		return s.Gateway.CommitLoanPayment(ctx, clientIdent, draft.Target.Reference, draft.Amount)
	case domain.OpReceivable:
		return s.Gateway.CommitReceivable(ctx, clientIdent, draft.Target.Reference, draft.Amount)
	case domain.OpBillPayment:
		return s.Gateway.CommitBillPayment(ctx, draft.Target.ServiceCode, draft.Target.Reference, draft.Amount)
	}
	return corebank.CommitResult{}, ErrUnknownOperation
}

func (s *FlowService) fetchTargets(ctx context.Context, kind domain.OperationKind, identification string) ([]domain.Target, error) {
	switch kind {
	case domain.OpWithdrawal, domain.OpDeposit:
		accounts, err := s.Gateway.ListAccounts(ctx, identification)
		if err != nil {
			return nil, err
		}
		targets := make([]domain.Target, 0, len(accounts))
		for _, a := range accounts {
			targets = append(targets, domain.Target{
				Kind:        "account",
				Reference:   a.Number,
				Description: a.Type,
				Balance:     a.AvailableBalance,
			})
		}
		return targets, nil

	case domain.OpLoanPayment:
		loans, err := s.Gateway.ListLoans(ctx, identification)
		if err != nil {
			return nil, err
		}
		targets := make([]domain.Target, 0, len(loans))
		for _, l := range loans {
			targets = append(targets, domain.Target{
				Kind:        "loan",
				Reference:   l.Number,
				Description: l.NextDueDate,
				Balance:     l.OutstandingBalance,
			})
		}
		return targets, nil

	case domain.OpReceivable:
		receivables, err := s.Gateway.ListReceivables(ctx, identification)
		if err != nil {
			return nil, err
		}
		targets := make([]domain.Target, 0, len(receivables))
		for _, r := range receivables {
			targets = append(targets, domain.Target{
				Kind:        "receivable",
				Reference:   r.Reference,
				Description: r.Description,
				Balance:     r.Amount,
			})
		}
		return targets, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, kind)
}

// checkSession enforces the expiry invariant every step entry honors. On
// expiry the session and any active flow are discarded (forced logout).
func (s *FlowService) checkSession(ctx context.Context) error {
	if s.Sessions.CheckExpired(time.Now()) {
		s.active = nil
		s.Sessions.Clear(ctx)
		return ErrSessionExpired
	}
	return nil
}

// flowFor resolves the flow id against the active flow.
func (s *FlowService) flowFor(id string) (*Flow, error) {
	if s.active == nil {
		return nil, ErrFlowNotFound
	}
	if s.active.ID.String() != id {
		return nil, ErrFlowSuperseded
	}
	return s.active, nil
}

// stepFor is flowFor plus the session and step gates shared by every
// transition.
func (s *FlowService) stepFor(ctx context.Context, id string, step domain.FlowStep) (*Flow, error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	flow, err := s.flowFor(id)
	if err != nil {
		return nil, err
	}
	if flow.Step != step {
		return nil, fmt.Errorf("%w: in %s, need %s", ErrInvalidState, flow.Step, step)
	}
	return flow, nil
}
