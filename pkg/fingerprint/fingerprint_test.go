package fingerprint_test

import (
	"testing"

	"github.com/bancosur/corresponsal/pkg/fingerprint"
	"github.com/stretchr/testify/require"
)

func TestHashIsStable(t *testing.T) {
	a := fingerprint.Hash("A1B2-C3D4-E5F6")
	b := fingerprint.Hash("A1B2-C3D4-E5F6")
	require.Equal(t, a, b)
}

func TestHashFormat(t *testing.T) {
	h := fingerprint.Hash("terminal-001")
	require.Len(t, h, 16)
	require.Regexp(t, `^[0-9a-f]{16}$`, h)
}

func TestKnownValues(t *testing.T) {
	// h("") = 0; h("a") = 97; h("ab") = 97*31 + 98 = 3105.
	require.Equal(t, "0000000000000000", fingerprint.Hash(""))
	require.Equal(t, "0000000000000061", fingerprint.Hash("a"))
	require.Equal(t, "0000000000000c21", fingerprint.Hash("ab"))
}

func TestDistinctInputsDiffer(t *testing.T) {
	require.NotEqual(t, fingerprint.Hash("terminal-001"), fingerprint.Hash("terminal-002"))
}
