package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDraftMerge(t *testing.T) {
	t.Parallel()

	draft := TransactionDraft{Operation: OpWithdrawal}

	client := &ClientSelection{Identification: "1020304050", IdentificationType: "CC", FullName: "Ana Diaz"}
	draft.Merge(DraftPatch{Client: client})

	target := &Target{Kind: "account", Reference: "001-234", Balance: 500000}
	draft.Merge(DraftPatch{Target: target})

	amount := int64(25000)
	commission := int64(150)
	draft.Merge(DraftPatch{Amount: &amount, Commission: &commission})

	// Earlier fields survive later merges.
	require.Equal(t, client, draft.Client)
	require.Equal(t, target, draft.Target)
	require.Equal(t, int64(25000), draft.Amount)
	require.Equal(t, int64(150), draft.Commission)
	require.Equal(t, int64(25150), draft.Total())
}

func TestDraftClear(t *testing.T) {
	t.Parallel()

	amount := int64(100)
	draft := TransactionDraft{Operation: OpDeposit}
	draft.Merge(DraftPatch{
		Client: &ClientSelection{Identification: "1020304050"},
		Amount: &amount,
	})

	draft.Clear()
	require.Equal(t, TransactionDraft{Operation: OpDeposit}, draft)
}

func TestOperationKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []OperationKind{OpWithdrawal, OpDeposit, OpLoanPayment, OpReceivable, OpBillPayment} {
		require.True(t, kind.Valid(), string(kind))
	}
	require.False(t, OperationKind("transferencia").Valid())

	require.True(t, OpWithdrawal.RequiresClient())
	require.False(t, OpBillPayment.RequiresClient())
}
