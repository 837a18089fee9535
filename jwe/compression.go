/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// maxInflatedSize bounds the inflated plaintext (64 MiB) so that a small
// hostile ciphertext cannot exhaust memory after tag verification.
const maxInflatedSize = 64 << 20

// deflate compresses plaintext for the zip="DEF" header (raw DEFLATE, no
// zlib wrapper, per RFC 7516 §4.1.3).
func deflate(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}

	return buf.Bytes(), nil
}

// inflate reverses deflate. It runs only after the authentication tag has
// verified, so failures here indicate a peer that authenticated garbage.
func inflate(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	plaintext, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, errInvalid("inflate: %v", err)
	}

	if len(plaintext) > maxInflatedSize {
		return nil, errInvalid("inflate: output exceeds %d bytes", maxInflatedSize)
	}

	return plaintext, nil
}

// applyCompression compresses plaintext according to the effective 'zip'
// claim. An unknown value is unsupported.
func applyCompression(zip string, plaintext []byte) ([]byte, error) {
	switch zip {
	case "":
		return plaintext, nil
	case CompressionDeflate:
		return deflate(plaintext)
	default:
		return nil, errUnsupported("compression %q", zip)
	}
}

// removeCompression inflates the decrypted content according to 'zip'.
func removeCompression(zip string, content []byte) ([]byte, error) {
	switch zip {
	case "":
		return content, nil
	case CompressionDeflate:
		return inflate(content)
	default:
		return nil, errUnsupported("compression %q", zip)
	}
}
