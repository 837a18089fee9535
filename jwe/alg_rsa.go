/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // RSA-OAEP with SHA-1 is the RFC 7518 default
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/strixlab/jose/internal/cryptoutil"
)

var rsaOAEPHashes = map[KeyAlg]func() hash.Hash{
	RSAOAEP:    sha1.New,
	RSAOAEP256: sha256.New,
	RSAOAEP384: sha512.New384,
	RSAOAEP512: sha512.New,
}

func rsaAlgSupported(alg KeyAlg) bool {
	if alg == RSA15 {
		return true
	}

	_, ok := rsaOAEPHashes[alg]

	return ok
}

// RSAEncrypter encrypts the CEK to an RSA public key ('alg'="RSA1_5",
// "RSA-OAEP", "RSA-OAEP-256", "RSA-OAEP-384" or "RSA-OAEP-512").
type RSAEncrypter struct {
	alg KeyAlg
	pub *rsa.PublicKey
	kid string
}

// NewRSAEncrypter returns an encrypter for the recipient's public key.
func NewRSAEncrypter(alg KeyAlg, pub *rsa.PublicKey, kid string) (*RSAEncrypter, error) {
	if !rsaAlgSupported(alg) {
		return nil, errUnsupported("key encryption %q", alg)
	}

	if pub == nil || pub.N == nil {
		return nil, errKey("%s: nil public key", alg)
	}

	return &RSAEncrypter{alg: alg, pub: pub, kid: kid}, nil
}

// Algorithm returns the configured key encryption algorithm.
func (e *RSAEncrypter) Algorithm() KeyAlg {
	return e.alg
}

// KeyID returns the configured key id.
func (e *RSAEncrypter) KeyID() string {
	return e.kid
}

// DeriveCEK lets the engine generate a random CEK.
func (e *RSAEncrypter) DeriveCEK(_ ContentCipher, _ Headers) ([]byte, error) {
	return nil, nil
}

// EncryptCEK encrypts the CEK with the recipient's public key.
func (e *RSAEncrypter) EncryptCEK(cek []byte, _ Headers) ([]byte, error) {
	if e.alg == RSA15 {
		out, err := rsa.EncryptPKCS1v15(rand.Reader, e.pub, cek)
		if err != nil {
			return nil, errKey("%s: encrypt CEK: %v", e.alg, err)
		}

		return out, nil
	}

	out, err := rsa.EncryptOAEP(rsaOAEPHashes[e.alg](), rand.Reader, e.pub, cek, nil)
	if err != nil {
		return nil, errKey("%s: encrypt CEK: %v", e.alg, err)
	}

	return out, nil
}

// RSADecrypter recovers the CEK with an RSA private key.
type RSADecrypter struct {
	alg  KeyAlg
	priv *rsa.PrivateKey
	kid  string
}

// NewRSADecrypter returns a decrypter for the recipient's private key.
func NewRSADecrypter(alg KeyAlg, priv *rsa.PrivateKey, kid string) (*RSADecrypter, error) {
	if !rsaAlgSupported(alg) {
		return nil, errUnsupported("key encryption %q", alg)
	}

	if priv == nil || priv.D == nil {
		return nil, errKey("%s: nil private key", alg)
	}

	return &RSADecrypter{alg: alg, priv: priv, kid: kid}, nil
}

// Algorithm returns the configured key encryption algorithm.
func (d *RSADecrypter) Algorithm() KeyAlg {
	return d.alg
}

// KeyID returns the configured key id.
func (d *RSADecrypter) KeyID() string {
	return d.kid
}

// DecryptCEK recovers the CEK from the encrypted-key segment.
//
// For RSA1_5 the padding check result is never surfaced: the candidate CEK
// starts as random bytes of the right size and is replaced only when the
// padding is valid (RFC 3218), so an invalid padding and a wrong CEK fail
// identically at content decryption.
func (d *RSADecrypter) DecryptCEK(encryptedKey []byte, cipher ContentCipher, _ Headers) ([]byte, error) {
	if d.alg == RSA15 {
		cek, err := cryptoutil.RandomBytes(cipher.KeySize())
		if err != nil {
			return nil, err
		}

		_ = rsa.DecryptPKCS1v15SessionKey(rand.Reader, d.priv, encryptedKey, cek)

		return cek, nil
	}

	cek, err := rsa.DecryptOAEP(rsaOAEPHashes[d.alg](), rand.Reader, d.priv, encryptedKey, nil)
	if err != nil || len(cek) != cipher.KeySize() {
		return nil, ErrDecryption
	}

	return cek, nil
}
