// Package fingerprint derives the stable per-device tag the core-banking API
// expects on every request.
//
// The hash is deliberately NOT cryptographic: it is a compatibility contract
// with the remote system, which computes the same rolling hash over the device
// identifier on its side. Do not replace it with a cryptographic digest without
// coordinating a format change with the core.
package fingerprint

import "fmt"

// Hash computes the device fingerprint for a device identifier: a rolling
// hash (h = h*31 + byte) truncated to 32 bits and rendered as a 16-digit
// zero-padded lowercase hex string.
func Hash(deviceID string) string {
	var h uint32
	for _, b := range []byte(deviceID) {
		h = h*31 + uint32(b)
	}
	return fmt.Sprintf("%016x", h)
}
