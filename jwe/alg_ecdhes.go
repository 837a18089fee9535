/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto"
	"crypto/aes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"io"

	josecipher "github.com/go-jose/go-jose/v3/cipher"
	"golang.org/x/crypto/curve25519"

	"github.com/strixlab/jose/internal/cryptoutil"
)

var ecdhKWKeySizes = map[KeyAlg]int{
	ECDHESA128KW: 16,
	ECDHESA192KW: 24,
	ECDHESA256KW: 32,
}

func ecdhAlgSupported(alg KeyAlg) bool {
	if alg == ECDHES {
		return true
	}

	_, ok := ecdhKWKeySizes[alg]

	return ok
}

// concatKDF derives size bytes from the shared secret z with the
// single-round Concat KDF of NIST SP 800-56A keyed by SHA-256, the framing
// RFC 7518 §4.6 prescribes.
func concatKDF(z []byte, algID string, apu, apv []byte, size int) ([]byte, error) {
	supPubInfo := make([]byte, 4)
	binary.BigEndian.PutUint32(supPubInfo, uint32(size)*8)

	reader := josecipher.NewConcatKDF(crypto.SHA256, z,
		cryptoutil.LengthPrefix([]byte(algID)),
		cryptoutil.LengthPrefix(apu),
		cryptoutil.LengthPrefix(apv),
		supPubInfo, []byte{})

	out := make([]byte, size)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, errKey("concat KDF: %v", err)
	}

	return out, nil
}

// ECDHESEncrypter derives key material by ephemeral-static Diffie-Hellman
// with a recipient public key ('alg'="ECDH-ES" directly determines the CEK;
// the "+A128KW"/"+A192KW"/"+A256KW" variants derive a KEK and wrap a random
// CEK). Supported curves are P-256, P-384, P-521 and X25519.
type ECDHESEncrypter struct {
	alg    KeyAlg
	ecPub  *ecdsa.PublicKey
	okpPub []byte
	apu    []byte
	apv    []byte
	kid    string
}

// NewECDHESEncrypter returns an encrypter for a NIST-curve recipient key.
// apu and apv are optional PartyUInfo/PartyVInfo values; when set they are
// published as header claims and bound into the KDF.
func NewECDHESEncrypter(alg KeyAlg, pub *ecdsa.PublicKey, apu, apv []byte, kid string) (*ECDHESEncrypter, error) {
	if !ecdhAlgSupported(alg) {
		return nil, errUnsupported("key agreement %q", alg)
	}

	if pub == nil || pub.Curve == nil {
		return nil, errKey("%s: nil public key", alg)
	}

	if _, ok := curveByName(curveName(pub.Curve)); !ok {
		return nil, errKey("%s: unsupported curve %q", alg, curveName(pub.Curve))
	}

	return &ECDHESEncrypter{alg: alg, ecPub: pub, apu: apu, apv: apv, kid: kid}, nil
}

// NewECDHESX25519Encrypter returns an encrypter for an X25519 recipient key.
func NewECDHESX25519Encrypter(alg KeyAlg, pub []byte, apu, apv []byte, kid string) (*ECDHESEncrypter, error) {
	if !ecdhAlgSupported(alg) {
		return nil, errUnsupported("key agreement %q", alg)
	}

	if len(pub) != x25519KeySize {
		return nil, errKey("%s: X25519 key must be %d bytes", alg, x25519KeySize)
	}

	k := make([]byte, x25519KeySize)
	copy(k, pub)

	return &ECDHESEncrypter{alg: alg, okpPub: k, apu: apu, apv: apv, kid: kid}, nil
}

// Algorithm returns the configured key agreement algorithm.
func (e *ECDHESEncrypter) Algorithm() KeyAlg {
	return e.alg
}

// KeyID returns the configured key id.
func (e *ECDHESEncrypter) KeyID() string {
	return e.kid
}

// deriveKey generates an ephemeral key pair, publishes it as 'epk' (with
// 'apu'/'apv' when configured) and derives size bytes keyed by algID.
func (e *ECDHESEncrypter) deriveKey(algID string, size int, headers Headers) ([]byte, error) {
	var (
		key []byte
		epk map[string]interface{}
	)

	if e.ecPub != nil {
		ephemeral, err := ecdsa.GenerateKey(e.ecPub.Curve, rand.Reader)
		if err != nil {
			return nil, errKey("%s: generate ephemeral key: %v", e.alg, err)
		}

		key = josecipher.DeriveECDHES(algID, e.apu, e.apv, ephemeral, e.ecPub, size)
		epk = epkFromECDSA(&ephemeral.PublicKey)
	} else {
		ephemeralPriv, err := cryptoutil.RandomBytes(x25519KeySize)
		if err != nil {
			return nil, err
		}

		ephemeralPub, err := curve25519.X25519(ephemeralPriv, curve25519.Basepoint)
		if err != nil {
			return nil, errKey("%s: generate ephemeral key: %v", e.alg, err)
		}

		z, err := curve25519.X25519(ephemeralPriv, e.okpPub)
		if err != nil {
			return nil, errKey("%s: key agreement: %v", e.alg, err)
		}

		key, err = concatKDF(z, algID, e.apu, e.apv, size)
		if err != nil {
			return nil, err
		}

		epk = epkFromX25519(ephemeralPub)
	}

	if err := headers.Set(HeaderEPK, epk); err != nil {
		return nil, err
	}

	if len(e.apu) > 0 {
		if err := headers.Set(HeaderAgreementPartyUInfo, base64.RawURLEncoding.EncodeToString(e.apu)); err != nil {
			return nil, err
		}
	}

	if len(e.apv) > 0 {
		if err := headers.Set(HeaderAgreementPartyVInfo, base64.RawURLEncoding.EncodeToString(e.apv)); err != nil {
			return nil, err
		}
	}

	return key, nil
}

// DeriveCEK derives the CEK directly for "ECDH-ES"; the wrapping variants
// let the engine generate a random CEK.
func (e *ECDHESEncrypter) DeriveCEK(cipher ContentCipher, headers Headers) ([]byte, error) {
	if e.alg != ECDHES {
		return nil, nil
	}

	return e.deriveKey(string(cipher.Algorithm()), cipher.KeySize(), headers)
}

// EncryptCEK derives a KEK and wraps the CEK for the "+A*KW" variants;
// "ECDH-ES" itself carries no encrypted-key segment.
func (e *ECDHESEncrypter) EncryptCEK(cek []byte, headers Headers) ([]byte, error) {
	if e.alg == ECDHES {
		return nil, nil
	}

	kek, err := e.deriveKey(string(e.alg), ecdhKWKeySizes[e.alg], headers)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, errKey("%s: %v", e.alg, err)
	}

	wrapped, err := josecipher.KeyWrap(block, cek)
	if err != nil {
		return nil, errKey("%s: wrap CEK: %v", e.alg, err)
	}

	return wrapped, nil
}

// ECDHESDecrypter recovers key material by static-ephemeral Diffie-Hellman
// with the recipient private key and the sender's 'epk' claim.
type ECDHESDecrypter struct {
	alg     KeyAlg
	ecPriv  *ecdsa.PrivateKey
	okpPriv []byte
	kid     string
}

// NewECDHESDecrypter returns a decrypter for a NIST-curve private key.
func NewECDHESDecrypter(alg KeyAlg, priv *ecdsa.PrivateKey, kid string) (*ECDHESDecrypter, error) {
	if !ecdhAlgSupported(alg) {
		return nil, errUnsupported("key agreement %q", alg)
	}

	if priv == nil || priv.Curve == nil {
		return nil, errKey("%s: nil private key", alg)
	}

	if _, ok := curveByName(curveName(priv.Curve)); !ok {
		return nil, errKey("%s: unsupported curve %q", alg, curveName(priv.Curve))
	}

	return &ECDHESDecrypter{alg: alg, ecPriv: priv, kid: kid}, nil
}

// NewECDHESX25519Decrypter returns a decrypter for an X25519 private key.
func NewECDHESX25519Decrypter(alg KeyAlg, priv []byte, kid string) (*ECDHESDecrypter, error) {
	if !ecdhAlgSupported(alg) {
		return nil, errUnsupported("key agreement %q", alg)
	}

	if len(priv) != x25519KeySize {
		return nil, errKey("%s: X25519 key must be %d bytes", alg, x25519KeySize)
	}

	k := make([]byte, x25519KeySize)
	copy(k, priv)

	return &ECDHESDecrypter{alg: alg, okpPriv: k, kid: kid}, nil
}

// Algorithm returns the configured key agreement algorithm.
func (d *ECDHESDecrypter) Algorithm() KeyAlg {
	return d.alg
}

// KeyID returns the configured key id.
func (d *ECDHESDecrypter) KeyID() string {
	return d.kid
}

// deriveKey recomputes the shared key from the 'epk', 'apu' and 'apv'
// claims. A missing or malformed claim is invalid input; agreement failures
// are ErrDecryption.
func (d *ECDHESDecrypter) deriveKey(algID string, size int, headers Headers) ([]byte, error) {
	epk, ok := headers.EphemeralKey()
	if !ok {
		return nil, errInvalid("%s: missing or malformed %q header", d.alg, HeaderEPK)
	}

	apu, _, err := headers.bytesValue(HeaderAgreementPartyUInfo)
	if err != nil {
		return nil, err
	}

	apv, _, err := headers.bytesValue(HeaderAgreementPartyVInfo)
	if err != nil {
		return nil, err
	}

	if d.ecPriv != nil {
		ephemeralPub, err := ecdsaFromEPK(epk, d.ecPriv.Curve)
		if err != nil {
			return nil, err
		}

		return josecipher.DeriveECDHES(algID, apu, apv, d.ecPriv, ephemeralPub, size), nil
	}

	ephemeralPub, err := x25519FromEPK(epk)
	if err != nil {
		return nil, err
	}

	z, err := curve25519.X25519(d.okpPriv, ephemeralPub)
	if err != nil {
		return nil, ErrDecryption
	}

	return concatKDF(z, algID, apu, apv, size)
}

// DecryptCEK recovers the CEK: directly for "ECDH-ES", by unwrap for the
// "+A*KW" variants.
func (d *ECDHESDecrypter) DecryptCEK(encryptedKey []byte, cipher ContentCipher, headers Headers) ([]byte, error) {
	if d.alg == ECDHES {
		if len(encryptedKey) != 0 {
			return nil, errInvalid("%s: unexpected encrypted key segment", d.alg)
		}

		return d.deriveKey(string(cipher.Algorithm()), cipher.KeySize(), headers)
	}

	kek, err := d.deriveKey(string(d.alg), ecdhKWKeySizes[d.alg], headers)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, ErrDecryption
	}

	cek, err := josecipher.KeyUnwrap(block, encryptedKey)
	if err != nil || len(cek) != cipher.KeySize() {
		return nil, ErrDecryption
	}

	return cek, nil
}
