/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cryptoutil contains small helpers shared by the key derivation and
// random-material paths of the JWE engine.
package cryptoutil

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// LengthPrefix frames data with its 4-byte big-endian length, as required by
// the Concat KDF OtherInfo fields of NIST SP 800-56A.
func LengthPrefix(data []byte) []byte {
	out := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], data)

	return out
}

// RandomBytes returns size bytes from the platform CSPRNG.
func RandomBytes(size int) ([]byte, error) {
	buf := make([]byte, size)

	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptoutil: read random bytes: %w", err)
	}

	return buf, nil
}
