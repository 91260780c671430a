package domain

import "time"

// OperationRule is the per-operation business rule the core delivers at login.
type OperationRule struct {
	Commission        int64 // centavos
	CommissionPending bool  // commission schedule not yet defined server-side
	OTPClient         bool
	OTPAgent          bool
}

// BusinessRules is the session-scoped rule set: commission schedule, OTP
// requirements per operation and party, and the OTP resend countdown.
type BusinessRules struct {
	Operations    map[OperationKind]OperationRule
	ResendSeconds int
}

// Rule returns the entry for the operation kind. A kind the core sent no rule
// for gets the zero rule: no commission, no OTP.
func (r BusinessRules) Rule(kind OperationKind) OperationRule {
	return r.Operations[kind]
}

// RequiresOTP reports whether the operation needs the OTP step for any party.
func (r BusinessRules) RequiresOTP(kind OperationKind) bool {
	rule := r.Rule(kind)
	return rule.OTPClient || rule.OTPAgent
}

// Session is the authenticated agent context held between login and logout.
type Session struct {
	UserID   string
	FullName string
	Token    string
	LoginAt  time.Time
	Duration time.Duration
	Rules    BusinessRules
}

// Expired reports whether the session has outlived its duration. The boundary
// instant counts as expired; negative elapsed (clock skew) does not.
func (s Session) Expired(now time.Time) bool {
	elapsed := now.Sub(s.LoginAt)
	if elapsed < 0 {
		return false
	}
	return elapsed >= s.Duration
}
