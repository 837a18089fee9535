/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jwe implements JSON Web Encryption (RFC 7516) with the compact,
// flattened JSON and general JSON serializations.
//
// Key management covers direct encryption ("dir"), AES key wrap (A128KW,
// A192KW, A256KW), AES-GCM key wrap (A128GCMKW, A192GCMKW, A256GCMKW),
// password-based encryption (PBES2-HS256+A128KW and variants), RSA (RSA1_5,
// RSA-OAEP, RSA-OAEP-256/384/512) and ephemeral-static ECDH (ECDH-ES and
// the +A*KW variants, on P-256, P-384, P-521 and X25519). Content encryption
// covers A128GCM, A192GCM, A256GCM and A128CBC-HS256, A192CBC-HS384,
// A256CBC-HS512, with optional DEFLATE compression.
//
// Encryption and decryption run through a stateless Context; the
// package-level functions use a shared default. Every cryptographic
// decryption failure is reported as the single opaque ErrDecryption, so the
// error reveals nothing about which sub-step failed.
package jwe
