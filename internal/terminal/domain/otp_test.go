package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOtpChallengeEntry(t *testing.T) {
	t.Parallel()

	t.Run("fills and completes", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyClient)
		for _, d := range []byte("123456") {
			c.EnterDigit(d)
		}
		require.True(t, c.Complete())
		require.Equal(t, "123456", c.Code())
	})

	t.Run("ignores input past capacity", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyClient)
		for _, d := range []byte("1234567") {
			c.EnterDigit(d)
		}
		require.Equal(t, "123456", c.Code())
	})

	t.Run("ignores non-digits", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyClient)
		c.EnterDigit('a')
		c.EnterDigit(' ')
		c.EnterDigit('1')
		require.Equal(t, "1", c.Code())
	})

	t.Run("backspace retreats", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyAgent)
		c.EnterDigit('1')
		c.EnterDigit('2')
		c.Backspace()
		require.Equal(t, "1", c.Code())
		require.False(t, c.Complete())

		c.EnterDigit('9')
		require.Equal(t, "19", c.Code())
	})

	t.Run("backspace on empty buffer", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyAgent)
		c.Backspace()
		require.Empty(t, c.Code())
	})

	t.Run("reset empties buffer", func(t *testing.T) {
		c := NewOtpChallenge(OtpPartyClient)
		c.EmailSent = true
		for _, d := range []byte("123456") {
			c.EnterDigit(d)
		}
		c.Reset()
		require.False(t, c.Complete())
		require.Empty(t, c.Code())
		require.True(t, c.EmailSent)
	})
}

func TestCountdown(t *testing.T) {
	t.Parallel()

	t.Run("decrements to zero and stays", func(t *testing.T) {
		c := NewCountdown(2)
		require.False(t, c.Expired())

		c.Tick()
		require.Equal(t, 1, c.Remaining())

		c.Tick()
		require.True(t, c.Expired())

		// Idempotent at zero.
		c.Tick()
		require.Equal(t, 0, c.Remaining())
	})

	t.Run("negative seconds clamp to zero", func(t *testing.T) {
		c := NewCountdown(-5)
		require.True(t, c.Expired())

		c.Reset(-1)
		require.Equal(t, 0, c.Remaining())
	})

	t.Run("reset restarts", func(t *testing.T) {
		c := NewCountdown(1)
		c.Tick()
		c.Reset(60)
		require.Equal(t, 60, c.Remaining())
	})
}
