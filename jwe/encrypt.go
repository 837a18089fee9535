/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"github.com/strixlab/jose/internal/cryptoutil"
)

// RecipientEncrypter pairs one recipient's key encrypter with the extra
// per-recipient header claims to publish for it.
type RecipientEncrypter struct {
	Encrypter KeyEncrypter
	Header    Headers
}

// encrypt is the single code path behind every serialize operation. For the
// compact shape the per-recipient algorithm claims are folded into the
// protected header; for the JSON shapes they stay in the recipient header.
func (c *Context) encrypt(payload []byte, protected, unprotected Headers, aad []byte,
	recipients []*RecipientEncrypter, compact bool) (*JSONWebEncryption, error) {
	if len(recipients) == 0 {
		return nil, errInvalid("no recipients")
	}

	protected = protected.Clone()
	unprotected = unprotected.Clone()

	enc, err := effectiveEncryption(protected, unprotected)
	if err != nil {
		return nil, err
	}

	cipher, err := contentCipherFor(enc)
	if err != nil {
		return nil, err
	}

	zip, err := effectiveCompression(protected, unprotected)
	if err != nil {
		return nil, err
	}

	recipientHeaders := make([]Headers, len(recipients))

	for i, recipient := range recipients {
		if recipient == nil || recipient.Encrypter == nil {
			return nil, errInvalid("nil recipient encrypter")
		}

		headers, err := prepareRecipientHeaders(protected, unprotected, recipient, compact)
		if err != nil {
			return nil, err
		}

		recipientHeaders[i] = headers
	}

	cek, err := establishCEK(cipher, recipients, recipientHeaders)
	if err != nil {
		return nil, err
	}

	message := &JSONWebEncryption{
		ProtectedHeaders:   protected,
		UnprotectedHeaders: unprotected,
		AAD:                aad,
		origAAD:            encodeSegment(aad),
	}

	for i, recipient := range recipients {
		encryptedKey, err := recipient.Encrypter.EncryptCEK(cek, recipientHeaders[i])
		if err != nil {
			return nil, err
		}

		message.Recipients = append(message.Recipients, &Recipient{
			Header:       recipientHeaders[i],
			EncryptedKey: encryptedKey,
		})
	}

	if compact {
		// Single recipient by construction; its claims become protected.
		merged, err := mergeHeaders(protected, message.Recipients[0].Header)
		if err != nil {
			return nil, err
		}

		message.ProtectedHeaders = merged
		message.Recipients[0].Header = Headers{}
	}

	content, err := applyCompression(zip, payload)
	if err != nil {
		return nil, err
	}

	message.OrigProtected, err = encodeProtected(message.ProtectedHeaders)
	if err != nil {
		return nil, err
	}

	iv, err := cryptoutil.RandomBytes(cipher.IVSize())
	if err != nil {
		return nil, err
	}

	ciphertext, tag, err := cipher.Encrypt(cek, iv, content, message.buildAAD())
	if err != nil {
		return nil, err
	}

	message.IV = iv
	message.Ciphertext = ciphertext
	message.Tag = tag

	return message, nil
}

// effectiveEncryption resolves the mandatory 'enc' claim from the shared
// header views.
func effectiveEncryption(protected, unprotected Headers) (EncAlg, error) {
	if enc, ok := protected.Encryption(); ok {
		if _, dup := unprotected[HeaderEncryption]; dup {
			return "", errConflict("header %q occurs in multiple header views", HeaderEncryption)
		}

		return EncAlg(enc), nil
	}

	if enc, ok := unprotected.Encryption(); ok {
		return EncAlg(enc), nil
	}

	return "", errConflict("missing mandatory %q header", HeaderEncryption)
}

// effectiveCompression resolves the 'zip' claim, which must live in the
// integrity-protected header (RFC 7516 §4.1.3).
func effectiveCompression(protected, unprotected Headers) (string, error) {
	if _, outside := unprotected[HeaderCompression]; outside {
		return "", errInvalid("header %q must be integrity protected", HeaderCompression)
	}

	zip, ok := protected.Compression()
	if !ok {
		if _, present := protected[HeaderCompression]; present {
			return "", errInvalid("header %q is not a string", HeaderCompression)
		}

		return "", nil
	}

	return zip, nil
}

// prepareRecipientHeaders completes one recipient's header view with the
// 'alg' and 'kid' claims of its encrypter and validates the merged result.
func prepareRecipientHeaders(protected, unprotected Headers, recipient *RecipientEncrypter, compact bool) (Headers, error) {
	headers := recipient.Header.Clone()

	if compact && len(headers) > 0 {
		return nil, errInvalid("compact form cannot carry per-recipient headers")
	}

	merged, err := mergeHeaders(protected, unprotected, headers)
	if err != nil {
		return nil, err
	}

	alg := recipient.Encrypter.Algorithm()

	if claimed, ok := merged.Algorithm(); ok {
		if claimed != string(alg) {
			return nil, errConflict("header %q is %q but encrypter implements %q", HeaderAlgorithm, claimed, alg)
		}
	} else {
		if err := headers.Set(HeaderAlgorithm, string(alg)); err != nil {
			return nil, err
		}

		merged[HeaderAlgorithm] = string(alg)
	}

	if kid := recipient.Encrypter.KeyID(); kid != "" {
		if _, ok := merged.KeyID(); !ok {
			if err := headers.Set(HeaderKeyID, kid); err != nil {
				return nil, err
			}

			merged[HeaderKeyID] = kid
		}
	}

	if _, zipOutside := headers[HeaderCompression]; zipOutside {
		return nil, errInvalid("header %q must be integrity protected", HeaderCompression)
	}

	if err := checkCritical(merged); err != nil {
		return nil, err
	}

	return headers, nil
}

// establishCEK returns the single CEK used for all recipients: derived by a
// CEK-determining algorithm (which then must be the only recipient), or
// generated fresh.
func establishCEK(cipher ContentCipher, recipients []*RecipientEncrypter, recipientHeaders []Headers) ([]byte, error) {
	for i, recipient := range recipients {
		alg := recipient.Encrypter.Algorithm()

		if derivesCEK(alg) && len(recipients) > 1 {
			return nil, errInvalid("algorithm %q determines the CEK and allows only one recipient", alg)
		}

		cek, err := recipient.Encrypter.DeriveCEK(cipher, recipientHeaders[i])
		if err != nil {
			return nil, err
		}

		if cek != nil {
			if len(cek) != cipher.KeySize() {
				return nil, errKey("derived CEK is %d bytes, %s needs %d", len(cek), cipher.Algorithm(), cipher.KeySize())
			}

			return cek, nil
		}
	}

	return cryptoutil.RandomBytes(cipher.KeySize())
}

// selectEncrypter applies an EncrypterSelector to the merged header view of
// a prospective recipient.
func selectEncrypter(protected, unprotected, recipientHeader Headers, selector EncrypterSelector) (KeyEncrypter, error) {
	merged, err := mergeHeaders(protected, unprotected, recipientHeader)
	if err != nil {
		return nil, err
	}

	encrypter, err := selector(merged)
	if err != nil {
		return nil, err
	}

	if encrypter == nil {
		return nil, ErrNoApplicableAlgorithm
	}

	return encrypter, nil
}

// SerializeCompact encrypts payload for one recipient and renders the
// compact serialization. All header claims, including those the algorithm
// adds, are integrity protected. The compact shape cannot carry external
// AAD.
func (c *Context) SerializeCompact(payload []byte, header Headers, encrypter KeyEncrypter) (string, error) {
	if encrypter == nil {
		return "", errInvalid("nil encrypter")
	}

	message, err := c.encrypt(payload, header, nil, nil,
		[]*RecipientEncrypter{{Encrypter: encrypter}}, true)
	if err != nil {
		return "", err
	}

	return message.Compact()
}

// SerializeCompactWithSelector is SerializeCompact with the encrypter chosen
// by a callback from the prepared header claims.
func (c *Context) SerializeCompactWithSelector(payload []byte, header Headers, selector EncrypterSelector) (string, error) {
	encrypter, err := selectEncrypter(header, nil, nil, selector)
	if err != nil {
		return "", err
	}

	return c.SerializeCompact(payload, header, encrypter)
}

// SerializeFlattenedJSON encrypts payload for one recipient and renders the
// flattened JSON serialization. aad is optional external additional
// authenticated data.
func (c *Context) SerializeFlattenedJSON(payload []byte, protected, unprotected, recipientHeader Headers,
	aad []byte, encrypter KeyEncrypter) ([]byte, error) {
	if encrypter == nil {
		return nil, errInvalid("nil encrypter")
	}

	message, err := c.encrypt(payload, protected, unprotected, aad,
		[]*RecipientEncrypter{{Encrypter: encrypter, Header: recipientHeader}}, false)
	if err != nil {
		return nil, err
	}

	return message.FlattenedJSON()
}

// SerializeFlattenedJSONWithSelector is SerializeFlattenedJSON with the
// encrypter chosen by a callback from the merged header claims.
func (c *Context) SerializeFlattenedJSONWithSelector(payload []byte, protected, unprotected, recipientHeader Headers,
	aad []byte, selector EncrypterSelector) ([]byte, error) {
	encrypter, err := selectEncrypter(protected, unprotected, recipientHeader, selector)
	if err != nil {
		return nil, err
	}

	return c.SerializeFlattenedJSON(payload, protected, unprotected, recipientHeader, aad, encrypter)
}

// SerializeGeneralJSON encrypts payload for every recipient under a single
// CEK and renders the general JSON serialization. Recipient order is
// preserved on the wire.
func (c *Context) SerializeGeneralJSON(payload []byte, protected, unprotected Headers,
	aad []byte, recipients []*RecipientEncrypter) ([]byte, error) {
	message, err := c.encrypt(payload, protected, unprotected, aad, recipients, false)
	if err != nil {
		return nil, err
	}

	return message.GeneralJSON()
}
