package service

import (
	"context"

	"github.com/bancosur/corresponsal/pkg/corebank"
)

// Gateway is the remote core-banking surface the services depend on. The only
// component performing network I/O is the corebank client behind it; tests
// substitute a fake.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*corebank.LoginResult, error)
	Logout(ctx context.Context) error
	ActivateDevice(ctx context.Context, activationCode string) error

	Catalogs(ctx context.Context) (*corebank.Catalogs, error)

	FindClient(ctx context.Context, idType, identification string) (*corebank.ClientRecord, error)
	ListAccounts(ctx context.Context, identification string) ([]corebank.AccountRecord, error)
	ListLoans(ctx context.Context, identification string) ([]corebank.LoanRecord, error)
	ListReceivables(ctx context.Context, identification string) ([]corebank.ReceivableRecord, error)
	SearchBill(ctx context.Context, serviceCode, reference string) (corebank.BillRecord, error)
	AgentCashBalance(ctx context.Context) (int64, error)

	RequestOTP(ctx context.Context, party corebank.Party, identification, operation string) (corebank.OTPDelivery, error)
	VerifyOTP(ctx context.Context, party corebank.Party, identification, operation, code string) error

	CommitWithdrawal(ctx context.Context, identification, accountNumber string, amount int64) (corebank.CommitResult, error)
	CommitDeposit(ctx context.Context, identification, accountNumber string, amount int64) (corebank.CommitResult, error)
	CommitLoanPayment(ctx context.Context, identification, loanNumber string, amount int64) (corebank.CommitResult, error)
	CommitReceivable(ctx context.Context, identification, reference string, amount int64) (corebank.CommitResult, error)
	CommitBillPayment(ctx context.Context, serviceCode, reference string, amount int64) (corebank.CommitResult, error)

	TransactionHistory(ctx context.Context) ([]corebank.HistoryEntry, error)
}

var _ Gateway = (*corebank.Client)(nil)
