package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	ResetSealKeyForTesting()
	t.Setenv("TERMINAL_DEVICE_SECRET", "unit-test-device-secret")

	sealed, err := SealToken("eyJhbGciOiJIUzI1NiJ9.token")
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "token")

	opened, err := OpenToken(sealed)
	require.NoError(t, err)
	require.Equal(t, "eyJhbGciOiJIUzI1NiJ9.token", opened)
}

func TestSealProducesFreshNonce(t *testing.T) {
	ResetSealKeyForTesting()
	t.Setenv("TERMINAL_DEVICE_SECRET", "unit-test-device-secret")

	a, err := SealToken("same-token")
	require.NoError(t, err)
	b, err := SealToken("same-token")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOpenRejectsTampering(t *testing.T) {
	ResetSealKeyForTesting()
	t.Setenv("TERMINAL_DEVICE_SECRET", "unit-test-device-secret")

	sealed, err := SealToken("a-token")
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = OpenToken(sealed)
	require.Error(t, err)
}

func TestOpenRejectsShortInput(t *testing.T) {
	ResetSealKeyForTesting()
	t.Setenv("TERMINAL_DEVICE_SECRET", "unit-test-device-secret")

	_, err := OpenToken([]byte{0x01, 0x02})
	require.Error(t, err)
}
