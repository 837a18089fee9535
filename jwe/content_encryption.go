/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/aes"
	"crypto/cipher"

	josecipher "github.com/go-jose/go-jose/v3/cipher"
)

// contentCiphers holds one stateless ContentCipher per supported 'enc' name.
var contentCiphers = map[EncAlg]ContentCipher{
	A128GCM:      &gcmContentCipher{alg: A128GCM, keySize: 16},
	A192GCM:      &gcmContentCipher{alg: A192GCM, keySize: 24},
	A256GCM:      &gcmContentCipher{alg: A256GCM, keySize: 32},
	A128CBCHS256: &cbcHMACContentCipher{alg: A128CBCHS256, keySize: 32},
	A192CBCHS384: &cbcHMACContentCipher{alg: A192CBCHS384, keySize: 48},
	A256CBCHS512: &cbcHMACContentCipher{alg: A256CBCHS512, keySize: 64},
}

const (
	gcmIVSize  = 12
	gcmTagSize = 16
	cbcIVSize  = 16
)

// gcmContentCipher implements AES-GCM content encryption (A128GCM, A192GCM,
// A256GCM).
type gcmContentCipher struct {
	alg     EncAlg
	keySize int
}

func (c *gcmContentCipher) Algorithm() EncAlg {
	return c.alg
}

func (c *gcmContentCipher) KeySize() int {
	return c.keySize
}

func (c *gcmContentCipher) IVSize() int {
	return gcmIVSize
}

func (c *gcmContentCipher) aead(cek []byte) (cipher.AEAD, error) {
	if len(cek) != c.keySize {
		return nil, errKey("%s: CEK must be %d bytes", c.alg, c.keySize)
	}

	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, errKey("%s: %v", c.alg, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errKey("%s: %v", c.alg, err)
	}

	return aead, nil
}

func (c *gcmContentCipher) Encrypt(cek, iv, plaintext, aad []byte) ([]byte, []byte, error) {
	aead, err := c.aead(cek)
	if err != nil {
		return nil, nil, err
	}

	if len(iv) != gcmIVSize {
		return nil, nil, errInvalid("%s: IV must be %d bytes", c.alg, gcmIVSize)
	}

	sealed := aead.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - gcmTagSize

	return sealed[:split], sealed[split:], nil
}

func (c *gcmContentCipher) Decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	aead, err := c.aead(cek)
	if err != nil {
		return nil, ErrDecryption
	}

	if len(iv) != gcmIVSize || len(tag) != gcmTagSize {
		return nil, ErrDecryption
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, ErrDecryption
	}

	return plaintext, nil
}

// cbcHMACContentCipher implements the AES-CBC + HMAC-SHA2 composition
// (A128CBC-HS256, A192CBC-HS384, A256CBC-HS512). The CEK is the MAC key
// followed by the encryption key; the tag is the left half of the HMAC.
type cbcHMACContentCipher struct {
	alg     EncAlg
	keySize int
}

func (c *cbcHMACContentCipher) Algorithm() EncAlg {
	return c.alg
}

func (c *cbcHMACContentCipher) KeySize() int {
	return c.keySize
}

func (c *cbcHMACContentCipher) IVSize() int {
	return cbcIVSize
}

func (c *cbcHMACContentCipher) tagSize() int {
	return c.keySize / 2
}

func (c *cbcHMACContentCipher) aead(cek []byte) (cipher.AEAD, error) {
	if len(cek) != c.keySize {
		return nil, errKey("%s: CEK must be %d bytes", c.alg, c.keySize)
	}

	aead, err := josecipher.NewCBCHMAC(cek, aes.NewCipher)
	if err != nil {
		return nil, errKey("%s: %v", c.alg, err)
	}

	return aead, nil
}

func (c *cbcHMACContentCipher) Encrypt(cek, iv, plaintext, aad []byte) ([]byte, []byte, error) {
	aead, err := c.aead(cek)
	if err != nil {
		return nil, nil, err
	}

	if len(iv) != cbcIVSize {
		return nil, nil, errInvalid("%s: IV must be %d bytes", c.alg, cbcIVSize)
	}

	sealed := aead.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - c.tagSize()

	return sealed[:split], sealed[split:], nil
}

func (c *cbcHMACContentCipher) Decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	aead, err := c.aead(cek)
	if err != nil {
		return nil, ErrDecryption
	}

	if len(iv) != cbcIVSize || len(tag) != c.tagSize() {
		return nil, ErrDecryption
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, ErrDecryption
	}

	return plaintext, nil
}
