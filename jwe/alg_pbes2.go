/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/aes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"

	josecipher "github.com/go-jose/go-jose/v3/cipher"
	"golang.org/x/crypto/pbkdf2"

	"github.com/strixlab/jose/internal/cryptoutil"
)

const (
	pbes2DefaultSaltSize = 16
	pbes2DefaultCount    = 10000

	// RFC 7518 §4.8.1.2 requires at least 1000 iterations; the decrypt-side
	// ceiling bounds work a hostile header can demand.
	pbes2MinCount      = 1000
	pbes2MaxCountLimit = 1000000
)

var pbes2Params = map[KeyAlg]struct {
	newHash func() hash.Hash
	keySize int
}{
	PBES2HS256: {sha256.New, 16},
	PBES2HS384: {sha512.New384, 24},
	PBES2HS512: {sha512.New, 32},
}

// PBES2Key wraps the CEK with AES-KW under a key derived from a password
// with PBKDF2 ('alg'="PBES2-HS256+A128KW" and variants). The same value
// serves as encrypter and decrypter.
type PBES2Key struct {
	alg      KeyAlg
	password []byte
	kid      string
	saltSize int
	count    int
}

// NewPBES2Key returns a password-based key with a fresh 16-byte salt and
// 10000 iterations per message.
func NewPBES2Key(alg KeyAlg, password []byte, kid string) (*PBES2Key, error) {
	if _, ok := pbes2Params[alg]; !ok {
		return nil, errUnsupported("key wrapping %q", alg)
	}

	if len(password) == 0 {
		return nil, errKey("%s: empty password", alg)
	}

	k := &PBES2Key{
		alg:      alg,
		password: make([]byte, len(password)),
		kid:      kid,
		saltSize: pbes2DefaultSaltSize,
		count:    pbes2DefaultCount,
	}
	copy(k.password, password)

	return k, nil
}

// SetParameters overrides the salt length and iteration count used when
// encrypting. The salt must be at least 8 bytes and the count at least 1000
// (RFC 7518 §4.8.1).
func (k *PBES2Key) SetParameters(saltSize, count int) error {
	if saltSize < 8 {
		return errInvalid("%s: salt must be at least 8 bytes", k.alg)
	}

	if count < pbes2MinCount {
		return errInvalid("%s: iteration count must be at least %d", k.alg, pbes2MinCount)
	}

	k.saltSize = saltSize
	k.count = count

	return nil
}

// Algorithm returns the configured wrapping algorithm.
func (k *PBES2Key) Algorithm() KeyAlg {
	return k.alg
}

// KeyID returns the configured key id.
func (k *PBES2Key) KeyID() string {
	return k.kid
}

// DeriveCEK lets the engine generate a random CEK.
func (k *PBES2Key) DeriveCEK(_ ContentCipher, _ Headers) ([]byte, error) {
	return nil, nil
}

// deriveKEK runs PBKDF2 with the composed salt (alg || 0x00 || p2s) per
// RFC 7518 §4.8.1.1.
func (k *PBES2Key) deriveKEK(p2s []byte, count int) []byte {
	params := pbes2Params[k.alg]

	salt := make([]byte, 0, len(k.alg)+1+len(p2s))
	salt = append(salt, []byte(k.alg)...)
	salt = append(salt, 0)
	salt = append(salt, p2s...)

	return pbkdf2.Key(k.password, salt, count, params.keySize, params.newHash)
}

// EncryptCEK derives a fresh KEK and wraps the CEK, recording 'p2s' and
// 'p2c' in headers.
func (k *PBES2Key) EncryptCEK(cek []byte, headers Headers) ([]byte, error) {
	p2s, err := cryptoutil.RandomBytes(k.saltSize)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(k.deriveKEK(p2s, k.count))
	if err != nil {
		return nil, errKey("%s: %v", k.alg, err)
	}

	wrapped, err := josecipher.KeyWrap(block, cek)
	if err != nil {
		return nil, errKey("%s: wrap CEK: %v", k.alg, err)
	}

	if err := headers.Set(HeaderPBES2Salt, base64.RawURLEncoding.EncodeToString(p2s)); err != nil {
		return nil, err
	}

	if err := headers.Set(HeaderPBES2Count, k.count); err != nil {
		return nil, err
	}

	return wrapped, nil
}

// DecryptCEK re-derives the KEK from the 'p2s' and 'p2c' claims and unwraps
// the encrypted-key segment. The claimed count is bounded to [1000, 1000000]
// before any derivation work is done.
func (k *PBES2Key) DecryptCEK(encryptedKey []byte, cipher ContentCipher, headers Headers) ([]byte, error) {
	p2s, ok, err := headers.bytesValue(HeaderPBES2Salt)
	if err != nil {
		return nil, err
	}

	if !ok || len(p2s) == 0 {
		return nil, errInvalid("%s: missing %q header", k.alg, HeaderPBES2Salt)
	}

	count, ok := headers.PBES2Count()
	if !ok {
		return nil, errInvalid("%s: missing or malformed %q header", k.alg, HeaderPBES2Count)
	}

	if count < pbes2MinCount || count > pbes2MaxCountLimit {
		return nil, errInvalid("%s: iteration count %d outside [%d, %d]",
			k.alg, count, pbes2MinCount, pbes2MaxCountLimit)
	}

	block, err := aes.NewCipher(k.deriveKEK(p2s, count))
	if err != nil {
		return nil, ErrDecryption
	}

	cek, err := josecipher.KeyUnwrap(block, encryptedKey)
	if err != nil || len(cek) != cipher.KeySize() {
		return nil, ErrDecryption
	}

	return cek, nil
}
