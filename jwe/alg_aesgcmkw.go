/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"

	"github.com/strixlab/jose/internal/cryptoutil"
)

var gcmKWKeySizes = map[KeyAlg]int{
	A128GCMKW: 16,
	A192GCMKW: 24,
	A256GCMKW: 32,
}

// AESGCMKWKey wraps the CEK with AES-GCM under a pre-shared KEK
// ('alg'="A128GCMKW"/"A192GCMKW"/"A256GCMKW"). Each wrap uses a fresh
// 96-bit nonce, carried with the 128-bit tag as the 'iv' and 'tag' header
// claims. The same value serves as encrypter and decrypter.
type AESGCMKWKey struct {
	alg KeyAlg
	kek []byte
	kid string
}

// NewAESGCMKWKey returns an AES-GCM key-wrapping key. The KEK length must
// match the algorithm exactly.
func NewAESGCMKWKey(alg KeyAlg, kek []byte, kid string) (*AESGCMKWKey, error) {
	size, ok := gcmKWKeySizes[alg]
	if !ok {
		return nil, errUnsupported("key wrapping %q", alg)
	}

	if len(kek) != size {
		return nil, errKey("%s: KEK must be %d bytes", alg, size)
	}

	k := &AESGCMKWKey{alg: alg, kek: make([]byte, size), kid: kid}
	copy(k.kek, kek)

	return k, nil
}

// Algorithm returns the configured wrapping algorithm.
func (k *AESGCMKWKey) Algorithm() KeyAlg {
	return k.alg
}

// KeyID returns the configured key id.
func (k *AESGCMKWKey) KeyID() string {
	return k.kid
}

// DeriveCEK lets the engine generate a random CEK.
func (k *AESGCMKWKey) DeriveCEK(_ ContentCipher, _ Headers) ([]byte, error) {
	return nil, nil
}

func (k *AESGCMKWKey) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(k.kek)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

// EncryptCEK seals the CEK under the KEK with a fresh nonce and records the
// 'iv' and 'tag' claims in headers.
func (k *AESGCMKWKey) EncryptCEK(cek []byte, headers Headers) ([]byte, error) {
	aead, err := k.aead()
	if err != nil {
		return nil, errKey("%s: %v", k.alg, err)
	}

	iv, err := cryptoutil.RandomBytes(gcmIVSize)
	if err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, iv, cek, nil)
	split := len(sealed) - gcmTagSize

	if err := headers.Set(HeaderIV, base64.RawURLEncoding.EncodeToString(iv)); err != nil {
		return nil, err
	}

	if err := headers.Set(HeaderTag, base64.RawURLEncoding.EncodeToString(sealed[split:])); err != nil {
		return nil, err
	}

	return sealed[:split], nil
}

// DecryptCEK opens the encrypted-key segment using the 'iv' and 'tag'
// claims. Malformed claims are invalid input; tag verification failures are
// ErrDecryption.
func (k *AESGCMKWKey) DecryptCEK(encryptedKey []byte, contentCipher ContentCipher, headers Headers) ([]byte, error) {
	iv, ok, err := headers.bytesValue(HeaderIV)
	if err != nil {
		return nil, err
	}

	if !ok || len(iv) != gcmIVSize {
		return nil, errInvalid("%s: missing or malformed %q header", k.alg, HeaderIV)
	}

	tag, ok, err := headers.bytesValue(HeaderTag)
	if err != nil {
		return nil, err
	}

	if !ok || len(tag) != gcmTagSize {
		return nil, errInvalid("%s: missing or malformed %q header", k.alg, HeaderTag)
	}

	aead, err := k.aead()
	if err != nil {
		return nil, ErrDecryption
	}

	sealed := make([]byte, 0, len(encryptedKey)+len(tag))
	sealed = append(sealed, encryptedKey...)
	sealed = append(sealed, tag...)

	cek, err := aead.Open(nil, iv, sealed, nil)
	if err != nil || len(cek) != contentCipher.KeySize() {
		return nil, ErrDecryption
	}

	return cek, nil
}
