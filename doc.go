/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jose provides JOSE encryption primitives.
//
// Packages for end developer usage
//
// jwe: JSON Web Encryption (RFC 7516) serialization and deserialization in
// the compact, flattened JSON and general JSON formats.
// Reference: https://pkg.go.dev/github.com/strixlab/jose/jwe
package jose
