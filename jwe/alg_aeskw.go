/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/aes"

	josecipher "github.com/go-jose/go-jose/v3/cipher"
)

var kwKeySizes = map[KeyAlg]int{
	A128KW: 16,
	A192KW: 24,
	A256KW: 32,
}

// AESKWKey wraps the CEK with AES Key Wrap (RFC 3394) under a pre-shared
// KEK ('alg'="A128KW"/"A192KW"/"A256KW"). The same value serves as
// encrypter and decrypter.
type AESKWKey struct {
	alg KeyAlg
	kek []byte
	kid string
}

// NewAESKWKey returns an AES key-wrapping key. The KEK length must match the
// algorithm exactly.
func NewAESKWKey(alg KeyAlg, kek []byte, kid string) (*AESKWKey, error) {
	size, ok := kwKeySizes[alg]
	if !ok {
		return nil, errUnsupported("key wrapping %q", alg)
	}

	if len(kek) != size {
		return nil, errKey("%s: KEK must be %d bytes", alg, size)
	}

	k := &AESKWKey{alg: alg, kek: make([]byte, size), kid: kid}
	copy(k.kek, kek)

	return k, nil
}

// Algorithm returns the configured wrapping algorithm.
func (k *AESKWKey) Algorithm() KeyAlg {
	return k.alg
}

// KeyID returns the configured key id.
func (k *AESKWKey) KeyID() string {
	return k.kid
}

// DeriveCEK lets the engine generate a random CEK.
func (k *AESKWKey) DeriveCEK(_ ContentCipher, _ Headers) ([]byte, error) {
	return nil, nil
}

// EncryptCEK wraps the CEK under the KEK.
func (k *AESKWKey) EncryptCEK(cek []byte, _ Headers) ([]byte, error) {
	block, err := aes.NewCipher(k.kek)
	if err != nil {
		return nil, errKey("%s: %v", k.alg, err)
	}

	wrapped, err := josecipher.KeyWrap(block, cek)
	if err != nil {
		return nil, errKey("%s: wrap CEK: %v", k.alg, err)
	}

	return wrapped, nil
}

// DecryptCEK unwraps the encrypted-key segment. All unwrap failures are
// reported as ErrDecryption.
func (k *AESKWKey) DecryptCEK(encryptedKey []byte, cipher ContentCipher, _ Headers) ([]byte, error) {
	block, err := aes.NewCipher(k.kek)
	if err != nil {
		return nil, ErrDecryption
	}

	cek, err := josecipher.KeyUnwrap(block, encryptedKey)
	if err != nil || len(cek) != cipher.KeySize() {
		return nil, ErrDecryption
	}

	return cek, nil
}
