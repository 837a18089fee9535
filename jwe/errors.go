/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"errors"
	"fmt"
)

// Error kinds returned by this package. Callers classify failures with
// errors.Is; wrapped messages carry additional context.
var (
	// ErrInvalidJWE reports malformed input: invalid base64url, invalid JSON
	// structure, a wrong segment count in compact form, or a missing field.
	ErrInvalidJWE = errors.New("jwe: invalid JWE message")

	// ErrHeaderConflict reports a claim name appearing in more than one header
	// view, or a missing mandatory 'alg'/'enc' claim.
	ErrHeaderConflict = errors.New("jwe: header claim conflict")

	// ErrUnsupportedAlgorithm reports an 'alg', 'enc' or 'zip' value this
	// build does not recognize.
	ErrUnsupportedAlgorithm = errors.New("jwe: unsupported algorithm")

	// ErrInvalidKey reports key material of the wrong type or length for the
	// named algorithm.
	ErrInvalidKey = errors.New("jwe: invalid key")

	// ErrDecryption is the single opaque failure for every cryptographic
	// sub-step of decryption: tag verification, key unwrap, agreement and
	// padding failures all collapse into it so that callers (and remote
	// peers) cannot distinguish where decryption failed.
	ErrDecryption = errors.New("jwe: decryption failed")

	// ErrNoApplicableAlgorithm reports that no usable Encrypter or Decrypter
	// was found for the message headers.
	ErrNoApplicableAlgorithm = errors.New("jwe: no applicable algorithm")

	// ErrCriticalHeader reports a 'crit' claim this build cannot satisfy.
	ErrCriticalHeader = errors.New("jwe: unsupported critical header")
)

func errInvalid(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidJWE)...)
}

func errConflict(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrHeaderConflict)...)
}

func errUnsupported(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupportedAlgorithm)...)
}

func errKey(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidKey)...)
}
