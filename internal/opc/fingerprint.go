// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint is the 32-byte BLAKE3 digest of a part's content. Equal
// fingerprints identify byte-identical parts across packages, which drives
// both the cheap content-changed test and rename detection.
type Fingerprint [32]byte

// displayLen is the number of hex characters shown in reports and carried
// in diff fields. The full digest stays available for equality tests.
const displayLen = 16

// FingerprintBytes computes the content fingerprint of a part.
func FingerprintBytes(data []byte) Fingerprint {
	return blake3.Sum256(data)
}

// String returns the full hex digest.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Display returns the truncated hex digest used in human-facing output.
func (f Fingerprint) Display() string {
	return f.String()[:displayLen]
}
