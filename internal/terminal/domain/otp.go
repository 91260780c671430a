package domain

// OtpPartyClient and OtpPartyAgent name the two possible OTP recipients.
const (
	OtpPartyClient = "client"
	OtpPartyAgent  = "agent"
)

// OtpCodeLength is the number of digit cells in a challenge buffer.
const OtpCodeLength = 6

// OtpChallenge is one party's in-progress code entry: a fixed 6-cell digit
// buffer with a focus cursor, plus the delivery outcome of the generated code.
type OtpChallenge struct {
	Party string

	EmailSent bool
	SMSSent   bool
	Warnings  []string

	cells [OtpCodeLength]byte
	focus int
}

// NewOtpChallenge creates an empty challenge for the party.
func NewOtpChallenge(party string) *OtpChallenge {
	return &OtpChallenge{Party: party}
}

// EnterDigit writes the digit into the focused cell and advances focus. A full
// buffer ignores further input. Non-digit input is ignored.
func (c *OtpChallenge) EnterDigit(d byte) {
	if d < '0' || d > '9' {
		return
	}
	if c.focus >= OtpCodeLength {
		return
	}
	c.cells[c.focus] = d
	c.focus++
}

// Backspace clears the cell before the focus and retreats. Empty buffer is a
// no-op.
func (c *OtpChallenge) Backspace() {
	if c.focus == 0 {
		return
	}
	c.focus--
	c.cells[c.focus] = 0
}

// Complete reports whether all cells are filled.
func (c *OtpChallenge) Complete() bool {
	return c.focus == OtpCodeLength
}

// Code returns the entered code. Only meaningful once Complete.
func (c *OtpChallenge) Code() string {
	return string(c.cells[:c.focus])
}

// Reset empties the buffer, keeping party and delivery status.
func (c *OtpChallenge) Reset() {
	c.cells = [OtpCodeLength]byte{}
	c.focus = 0
}

// Countdown is the resend lockout timer. It only moves on explicit Tick calls
// so the service layer owns the clock.
type Countdown struct {
	remaining int
}

// NewCountdown starts a countdown at the given number of seconds. Negative
// input counts as zero.
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds}
}

// Tick decrements one second. Idempotent at zero, never negative.
func (c *Countdown) Tick() {
	if c.remaining > 0 {
		c.remaining--
	}
}

// Remaining returns the seconds left until resend is allowed.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether resend is allowed.
func (c *Countdown) Expired() bool {
	return c.remaining == 0
}

// Reset restarts the countdown at the given number of seconds.
func (c *Countdown) Reset(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.remaining = seconds
}
