/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

// DirectKey uses a pre-shared symmetric key as the CEK ('alg'="dir"). The
// same value serves as encrypter and decrypter; messages carry no
// encrypted-key segment and are limited to one recipient.
type DirectKey struct {
	key []byte
	kid string
}

// NewDirectKey returns a direct key-agreement key. The key length must match
// the content encryption algorithm in use; this is checked per message.
func NewDirectKey(key []byte, kid string) (*DirectKey, error) {
	if len(key) == 0 {
		return nil, errKey("dir: empty key")
	}

	k := &DirectKey{key: make([]byte, len(key)), kid: kid}
	copy(k.key, key)

	return k, nil
}

// Algorithm returns "dir".
func (k *DirectKey) Algorithm() KeyAlg {
	return Direct
}

// KeyID returns the configured key id.
func (k *DirectKey) KeyID() string {
	return k.kid
}

// DeriveCEK returns the pre-shared key as the CEK.
func (k *DirectKey) DeriveCEK(cipher ContentCipher, _ Headers) ([]byte, error) {
	if len(k.key) != cipher.KeySize() {
		return nil, errKey("dir: key is %d bytes, %s needs %d", len(k.key), cipher.Algorithm(), cipher.KeySize())
	}

	cek := make([]byte, len(k.key))
	copy(cek, k.key)

	return cek, nil
}

// EncryptCEK returns no encrypted-key segment.
func (k *DirectKey) EncryptCEK(_ []byte, _ Headers) ([]byte, error) {
	return nil, nil
}

// DecryptCEK returns the pre-shared key. The encrypted-key segment must be
// absent (RFC 7518 §4.5).
func (k *DirectKey) DecryptCEK(encryptedKey []byte, cipher ContentCipher, _ Headers) ([]byte, error) {
	if len(encryptedKey) != 0 {
		return nil, errInvalid("dir: unexpected encrypted key segment")
	}

	if len(k.key) != cipher.KeySize() {
		return nil, errKey("dir: key is %d bytes, %s needs %d", len(k.key), cipher.Algorithm(), cipher.KeySize())
	}

	cek := make([]byte, len(k.key))
	copy(cek, k.key)

	return cek, nil
}
