/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"encoding/base64"
	"encoding/json"
)

// IANA registered JOSE headers (https://tools.ietf.org/html/rfc7516#section-4.1).
const (
	// HeaderAlgorithm identifies the cryptographic algorithm used to encrypt
	// or determine the value of the CEK.
	HeaderAlgorithm = "alg" // string

	// HeaderEncryption identifies the JWE content encryption algorithm.
	HeaderEncryption = "enc" // string

	// HeaderCompression identifies the compression algorithm applied to the
	// plaintext before encryption.
	HeaderCompression = "zip" // string

	// HeaderJWKSetURL is a URI that refers to a resource for a set of
	// JSON-encoded public keys, one of which corresponds to the public key
	// to which the JWE was encrypted.
	HeaderJWKSetURL = "jku" // string

	// HeaderJSONWebKey is the public key to which the JWE was encrypted.
	HeaderJSONWebKey = "jwk" // JSON

	// HeaderKeyID is a hint referencing the public key to which the JWE was
	// encrypted.
	HeaderKeyID = "kid" // string

	// HeaderX509URL is a URI that refers to a resource for the X.509 public
	// key certificate or certificate chain corresponding to the public key
	// to which the JWE was encrypted.
	HeaderX509URL = "x5u" // string

	// HeaderX509CertificateChain contains the X.509 public key certificate
	// or certificate chain corresponding to the public key to which the JWE
	// was encrypted.
	HeaderX509CertificateChain = "x5c" // array

	// HeaderX509CertificateDigestSha1 is a base64url-encoded SHA-1 thumbprint
	// of the DER encoding of the X.509 certificate.
	HeaderX509CertificateDigestSha1 = "x5t" // string

	// HeaderX509CertificateDigestSha256 is a base64url-encoded SHA-256
	// thumbprint of the DER encoding of the X.509 certificate.
	HeaderX509CertificateDigestSha256 = "x5t#S256" // string

	// HeaderType declares the media type of this complete JWE.
	HeaderType = "typ" // string

	// HeaderContentType declares the media type of the secured content (the
	// plaintext).
	HeaderContentType = "cty" // string

	// HeaderCritical indicates extensions to this specification that MUST be
	// understood and processed.
	HeaderCritical = "crit" // array

	// HeaderEPK carries the ephemeral public key for key-agreement
	// algorithms.
	HeaderEPK = "epk" // JSON

	// HeaderAgreementPartyUInfo carries producer information for the
	// key-agreement KDF.
	HeaderAgreementPartyUInfo = "apu" // base64url string

	// HeaderAgreementPartyVInfo carries consumer information for the
	// key-agreement KDF.
	HeaderAgreementPartyVInfo = "apv" // base64url string

	// HeaderIV carries the initialization vector used by AES-GCM key
	// wrapping.
	HeaderIV = "iv" // base64url string

	// HeaderTag carries the authentication tag produced by AES-GCM key
	// wrapping.
	HeaderTag = "tag" // base64url string

	// HeaderPBES2Salt carries the PBES2 salt input.
	HeaderPBES2Salt = "p2s" // base64url string

	// HeaderPBES2Count carries the PBES2 PBKDF2 iteration count.
	HeaderPBES2Count = "p2c" // integer
)

// CompressionDeflate is the only registered JWE compression algorithm.
const CompressionDeflate = "DEF"

// Headers represents one view of the JOSE headers of a message: protected,
// shared unprotected, or per-recipient unprotected.
type Headers map[string]interface{}

// Algorithm gets the key management algorithm from JOSE headers.
func (h Headers) Algorithm() (string, bool) {
	return h.stringValue(HeaderAlgorithm)
}

// Encryption gets the content encryption algorithm from JOSE headers.
func (h Headers) Encryption() (string, bool) {
	return h.stringValue(HeaderEncryption)
}

// Compression gets the compression algorithm from JOSE headers.
func (h Headers) Compression() (string, bool) {
	return h.stringValue(HeaderCompression)
}

// KeyID gets the key ID from JOSE headers.
func (h Headers) KeyID() (string, bool) {
	return h.stringValue(HeaderKeyID)
}

// Type gets the media type of the complete JWE from JOSE headers.
func (h Headers) Type() (string, bool) {
	return h.stringValue(HeaderType)
}

// ContentType gets the plaintext media type from JOSE headers.
func (h Headers) ContentType() (string, bool) {
	return h.stringValue(HeaderContentType)
}

// Critical gets the list of critical extension names from JOSE headers.
func (h Headers) Critical() ([]string, bool) {
	raw, ok := h[HeaderCritical]
	if !ok {
		return nil, false
	}

	switch names := raw.(type) {
	case []string:
		return names, true
	case []interface{}:
		out := make([]string, 0, len(names))

		for _, v := range names {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}

			out = append(out, s)
		}

		return out, true
	default:
		return nil, false
	}
}

// PBES2Count gets the PBES2 iteration count from JOSE headers.
func (h Headers) PBES2Count() (int, bool) {
	raw, ok := h[HeaderPBES2Count]
	if !ok {
		return 0, false
	}

	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}

		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}

		return int(i), true
	default:
		return 0, false
	}
}

// EphemeralKey gets the 'epk' claim from JOSE headers as a generic JSON
// object.
func (h Headers) EphemeralKey() (map[string]interface{}, bool) {
	raw, ok := h[HeaderEPK]
	if !ok {
		return nil, false
	}

	m, ok := raw.(map[string]interface{})

	return m, ok
}

func (h Headers) stringValue(key string) (string, bool) {
	raw, ok := h[key]
	if !ok {
		return "", false
	}

	str, ok := raw.(string)

	return str, ok
}

// bytesValue decodes a base64url string claim into raw bytes. The second
// return reports claim presence; an error means the claim is present but not
// valid base64url text.
func (h Headers) bytesValue(key string) ([]byte, bool, error) {
	str, ok := h.stringValue(key)
	if !ok {
		if _, present := h[key]; present {
			return nil, true, errInvalid("header %q is not a string", key)
		}

		return nil, false, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(str)
	if err != nil {
		return nil, true, errInvalid("header %q is not base64url text", key)
	}

	return raw, true, nil
}

// Clone returns a copy of h that can be mutated without affecting the
// original. Claim values are shared; they are treated as immutable.
func (h Headers) Clone() Headers {
	if h == nil {
		return Headers{}
	}

	out := make(Headers, len(h))

	for k, v := range h {
		out[k] = v
	}

	return out
}
