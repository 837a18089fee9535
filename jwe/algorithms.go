/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

// KeyAlg is a JWE key management algorithm name ('alg' header).
type KeyAlg string

// Key management algorithms (https://tools.ietf.org/html/rfc7518#section-4.1).
const (
	Direct        KeyAlg = "dir"
	A128KW        KeyAlg = "A128KW"
	A192KW        KeyAlg = "A192KW"
	A256KW        KeyAlg = "A256KW"
	A128GCMKW     KeyAlg = "A128GCMKW"
	A192GCMKW     KeyAlg = "A192GCMKW"
	A256GCMKW     KeyAlg = "A256GCMKW"
	PBES2HS256    KeyAlg = "PBES2-HS256+A128KW"
	PBES2HS384    KeyAlg = "PBES2-HS384+A192KW"
	PBES2HS512    KeyAlg = "PBES2-HS512+A256KW"
	RSA15         KeyAlg = "RSA1_5"
	RSAOAEP       KeyAlg = "RSA-OAEP"
	RSAOAEP256    KeyAlg = "RSA-OAEP-256"
	RSAOAEP384    KeyAlg = "RSA-OAEP-384"
	RSAOAEP512    KeyAlg = "RSA-OAEP-512"
	ECDHES        KeyAlg = "ECDH-ES"
	ECDHESA128KW  KeyAlg = "ECDH-ES+A128KW"
	ECDHESA192KW  KeyAlg = "ECDH-ES+A192KW"
	ECDHESA256KW  KeyAlg = "ECDH-ES+A256KW"
)

// EncAlg is a JWE content encryption algorithm name ('enc' header).
type EncAlg string

// Content encryption algorithms (https://tools.ietf.org/html/rfc7518#section-5.1).
const (
	A128GCM      EncAlg = "A128GCM"
	A192GCM      EncAlg = "A192GCM"
	A256GCM      EncAlg = "A256GCM"
	A128CBCHS256 EncAlg = "A128CBC-HS256"
	A192CBCHS384 EncAlg = "A192CBC-HS384"
	A256CBCHS512 EncAlg = "A256CBC-HS512"
)

// ContentCipher performs authenticated content encryption for one 'enc'
// algorithm. Implementations are stateless and safe for concurrent use.
type ContentCipher interface {
	// Algorithm returns the 'enc' name.
	Algorithm() EncAlg

	// KeySize returns the CEK length in bytes.
	KeySize() int

	// IVSize returns the initialization vector length in bytes.
	IVSize() int

	// Encrypt seals plaintext under cek and iv, binding aad, and returns the
	// ciphertext and authentication tag separately.
	Encrypt(cek, iv, plaintext, aad []byte) (ciphertext, tag []byte, err error)

	// Decrypt verifies the tag and opens the ciphertext. Any verification
	// failure is reported as ErrDecryption.
	Decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error)
}

// KeyEncrypter establishes and protects the CEK for one recipient.
//
// The engine first calls DeriveCEK: a non-nil result becomes the message CEK
// (direct and direct-agreement algorithms); a nil result tells the engine to
// generate a random CEK of the cipher's size. EncryptCEK then produces the
// encrypted-key segment (nil = no segment). Both calls may add claims to
// headers (epk, iv, tag, p2s, p2c).
type KeyEncrypter interface {
	// Algorithm returns the 'alg' name this encrypter implements.
	Algorithm() KeyAlg

	// KeyID returns the 'kid' to advertise, or "" for none.
	KeyID() string

	// DeriveCEK returns the CEK when the algorithm determines it, or nil to
	// have the engine generate one.
	DeriveCEK(cipher ContentCipher, headers Headers) ([]byte, error)

	// EncryptCEK protects the CEK for transport, or returns nil when the
	// algorithm carries no encrypted-key segment.
	EncryptCEK(cek []byte, headers Headers) ([]byte, error)
}

// KeyDecrypter recovers the CEK for one recipient. DecryptCEK reads any
// algorithm claims it needs from the merged headers. Failures that depend on
// secret data must be reported as ErrDecryption.
type KeyDecrypter interface {
	// Algorithm returns the 'alg' name this decrypter implements.
	Algorithm() KeyAlg

	// KeyID returns the 'kid' this decrypter matches, or "" for any.
	KeyID() string

	// DecryptCEK recovers the content encryption key from the encrypted-key
	// segment (nil for algorithms without one) and the merged headers.
	DecryptCEK(encryptedKey []byte, cipher ContentCipher, headers Headers) ([]byte, error)
}

// EncrypterSelector picks the KeyEncrypter for a recipient from its merged
// (but not yet serialized) header. Returning (nil, nil) declines the
// recipient, which the engine reports as ErrNoApplicableAlgorithm.
type EncrypterSelector func(headers Headers) (KeyEncrypter, error)

// DecrypterSelector picks the KeyDecrypter for a recipient from its merged,
// NOT YET AUTHENTICATED header. Implementations must treat the claims as
// attacker-controlled hints. Returning (nil, nil) declines the recipient.
type DecrypterSelector func(headers Headers) (KeyDecrypter, error)

// derivesCEK reports whether alg determines the CEK itself, which restricts
// a message to a single recipient.
func derivesCEK(alg KeyAlg) bool {
	return alg == Direct || alg == ECDHES
}

// contentCipherFor resolves an 'enc' name. Unknown names are unsupported,
// not invalid: the message may be well formed for a newer implementation.
func contentCipherFor(enc EncAlg) (ContentCipher, error) {
	cipher, ok := contentCiphers[enc]
	if !ok {
		return nil, errUnsupported("content encryption %q", enc)
	}

	return cipher, nil
}
