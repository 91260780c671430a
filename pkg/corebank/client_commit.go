package corebank

import (
	"context"
	"net/http"
)

// Every commit operation has its own request shape but the same response
// shape, normalized through normalizeCommit. Amounts are sent as decimals.

type withdrawalCommitRequest struct {
	Identification string  `json:"identificacion"`
	AccountNumber  string  `json:"numeroCuenta"`
	Amount         float64 `json:"valor"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// CommitWithdrawal executes a cash withdrawal against a client account.
func (c *Client) CommitWithdrawal(ctx context.Context, identification, accountNumber string, amount int64) (CommitResult, error) {
	req := withdrawalCommitRequest{
		Identification: identification,
		AccountNumber:  accountNumber,
		Amount:         fromCents(amount),
		Device:         c.deviceContext(ctx),
	}

	var resp commitPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/withdrawal", req, &resp); err != nil {
		return CommitResult{}, err
	}
	return normalizeCommit(resp)
}

type depositCommitRequest struct {
	Identification string  `json:"identificacion"`
	AccountNumber  string  `json:"numeroCuenta"`
	Amount         float64 `json:"valor"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// CommitDeposit executes a cash deposit into a client account.
func (c *Client) CommitDeposit(ctx context.Context, identification, accountNumber string, amount int64) (CommitResult, error) {
	req := depositCommitRequest{
		Identification: identification,
		AccountNumber:  accountNumber,
		Amount:         fromCents(amount),
		Device:         c.deviceContext(ctx),
	}

	var resp commitPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/deposit", req, &resp); err != nil {
		return CommitResult{}, err
	}
	return normalizeCommit(resp)
}

type loanPaymentCommitRequest struct {
	Identification string  `json:"identificacion"`
	LoanNumber     string  `json:"numeroPrestamo"`
	Amount         float64 `json:"valor"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// CommitLoanPayment executes a payment against an outstanding loan.
func (c *Client) CommitLoanPayment(ctx context.Context, identification, loanNumber string, amount int64) (CommitResult, error) {
	req := loanPaymentCommitRequest{
		Identification: identification,
		LoanNumber:     loanNumber,
		Amount:         fromCents(amount),
		Device:         c.deviceContext(ctx),
	}

	var resp commitPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/loan-payment", req, &resp); err != nil {
		return CommitResult{}, err
	}
	return normalizeCommit(resp)
}

type receivableCommitRequest struct {
	Identification string  `json:"identificacion"`
	Reference      string  `json:"referencia"`
	Amount         float64 `json:"valor"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// CommitReceivable collects a pending receivable.
func (c *Client) CommitReceivable(ctx context.Context, identification, reference string, amount int64) (CommitResult, error) {
	req := receivableCommitRequest{
		Identification: identification,
		Reference:      reference,
		Amount:         fromCents(amount),
		Device:         c.deviceContext(ctx),
	}

	var resp commitPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/receivable", req, &resp); err != nil {
		return CommitResult{}, err
	}
	return normalizeCommit(resp)
}

type billPaymentCommitRequest struct {
	ServiceCode string  `json:"codigoServicio"`
	Reference   string  `json:"referencia"`
	Amount      float64 `json:"valor"`

	Device DeviceContext `json:"contextoDispositivo"`
}

// CommitBillPayment pays a utility bill.
func (c *Client) CommitBillPayment(ctx context.Context, serviceCode, reference string, amount int64) (CommitResult, error) {
	req := billPaymentCommitRequest{
		ServiceCode: serviceCode,
		Reference:   reference,
		Amount:      fromCents(amount),
		Device:      c.deviceContext(ctx),
	}

	var resp commitPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/bill-payment", req, &resp); err != nil {
		return CommitResult{}, err
	}
	return normalizeCommit(resp)
}
