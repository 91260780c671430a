package domain

// OperationKind identifies one of the agent transaction types. The string
// values match the core's "operacion" codes.
type OperationKind string

const (
	OpWithdrawal  OperationKind = "retiro"
	OpDeposit     OperationKind = "deposito"
	OpLoanPayment OperationKind = "pago_prestamo"
	OpReceivable  OperationKind = "recaudo"
	OpBillPayment OperationKind = "pago_servicio"
)

// Valid reports whether k is one of the supported operation kinds.
func (k OperationKind) Valid() bool {
	switch k {
	case OpWithdrawal, OpDeposit, OpLoanPayment, OpReceivable, OpBillPayment:
		return true
	}
	return false
}

// RequiresClient reports whether the operation starts by looking up a bank
// client. Bill payment works from a service reference instead.
func (k OperationKind) RequiresClient() bool {
	return k != OpBillPayment
}

// FlowStep is a stage of the transaction flow state machine.
type FlowStep string

const (
	StepFindClient   FlowStep = "find_client"
	StepSelectTarget FlowStep = "select_target"
	StepEnterAmount  FlowStep = "enter_amount"
	StepOTP          FlowStep = "otp"
	StepCommit       FlowStep = "commit"
	StepReceipt      FlowStep = "receipt"
)
