/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

// matchDecrypter adapts a fixed KeyDecrypter into a selector that accepts
// recipients whose claimed 'alg' matches, and whose 'kid' matches when both
// sides declare one.
func matchDecrypter(decrypter KeyDecrypter) DecrypterSelector {
	return func(headers Headers) (KeyDecrypter, error) {
		alg, ok := headers.Algorithm()
		if !ok || alg != string(decrypter.Algorithm()) {
			return nil, nil
		}

		if kid, ok := headers.KeyID(); ok && kid != "" && decrypter.KeyID() != "" && kid != decrypter.KeyID() {
			return nil, nil
		}

		return decrypter, nil
	}
}

// decrypt attempts recipients in wire order and returns the first recovered
// plaintext with that recipient's merged header. Cryptographic failures are
// indistinguishable from each other: once any recipient was attempted, the
// only failure is ErrDecryption.
func (c *Context) decrypt(message *JSONWebEncryption, selector DecrypterSelector) ([]byte, Headers, error) {
	if selector == nil {
		return nil, nil, errInvalid("nil decrypter selector")
	}

	zip, err := effectiveCompression(message.ProtectedHeaders, message.UnprotectedHeaders)
	if err != nil {
		return nil, nil, err
	}

	if zip != "" && zip != CompressionDeflate {
		return nil, nil, errUnsupported("compression %q", zip)
	}

	attempted := false

	for _, recipient := range message.Recipients {
		if _, outside := recipient.Header[HeaderCompression]; outside {
			return nil, nil, errInvalid("header %q must be integrity protected", HeaderCompression)
		}

		merged, err := mergeHeaders(message.ProtectedHeaders, message.UnprotectedHeaders, recipient.Header)
		if err != nil {
			return nil, nil, err
		}

		alg, ok := merged.Algorithm()
		if !ok {
			return nil, nil, errConflict("missing mandatory %q header", HeaderAlgorithm)
		}

		enc, ok := merged.Encryption()
		if !ok {
			return nil, nil, errConflict("missing mandatory %q header", HeaderEncryption)
		}

		if err := checkCritical(merged); err != nil {
			return nil, nil, err
		}

		cipher, err := contentCipherFor(EncAlg(enc))
		if err != nil {
			return nil, nil, err
		}

		// The selector sees header claims that are not yet authenticated.
		decrypter, err := selector(merged.Clone())
		if err != nil {
			return nil, nil, err
		}

		if decrypter == nil || string(decrypter.Algorithm()) != alg {
			continue
		}

		attempted = true

		cek, err := decrypter.DecryptCEK(recipient.EncryptedKey, cipher, merged)
		if err != nil {
			continue
		}

		plaintext, err := cipher.Decrypt(cek, message.IV, message.Ciphertext, message.Tag, message.buildAAD())
		if err != nil {
			continue
		}

		plaintext, err = removeCompression(zip, plaintext)
		if err != nil {
			return nil, nil, err
		}

		return plaintext, merged, nil
	}

	if attempted {
		return nil, nil, ErrDecryption
	}

	return nil, nil, ErrNoApplicableAlgorithm
}

// DeserializeCompact parses the compact serialization and decrypts it with
// the given decrypter. It returns the plaintext and the effective header.
func (c *Context) DeserializeCompact(text string, decrypter KeyDecrypter) ([]byte, Headers, error) {
	if decrypter == nil {
		return nil, nil, errInvalid("nil decrypter")
	}

	return c.DeserializeCompactWithSelector(text, matchDecrypter(decrypter))
}

// DeserializeCompactWithSelector is DeserializeCompact with the decrypter
// chosen by a callback from the unverified header claims.
func (c *Context) DeserializeCompactWithSelector(text string, selector DecrypterSelector) ([]byte, Headers, error) {
	message, err := parseCompact(text)
	if err != nil {
		return nil, nil, err
	}

	return c.decrypt(message, selector)
}

// DeserializeJSON parses either JSON serialization (flattened or general)
// and decrypts it with the given decrypter. It returns the plaintext and
// the effective header of the recipient that decrypted.
func (c *Context) DeserializeJSON(text []byte, decrypter KeyDecrypter) ([]byte, Headers, error) {
	if decrypter == nil {
		return nil, nil, errInvalid("nil decrypter")
	}

	return c.DeserializeJSONWithSelector(text, matchDecrypter(decrypter))
}

// DeserializeJSONWithSelector is DeserializeJSON with the decrypter chosen
// by a callback from the unverified header claims.
func (c *Context) DeserializeJSONWithSelector(text []byte, selector DecrypterSelector) ([]byte, Headers, error) {
	message, err := parseJSON(text)
	if err != nil {
		return nil, nil, err
	}

	return c.decrypt(message, selector)
}
