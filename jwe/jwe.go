/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// JSONWebEncryption is the parsed (or freshly encrypted) form of a JWE
// message. It holds everything each wire shape carries, so a parsed message
// re-serializes to the same shape without information loss.
type JSONWebEncryption struct {
	// ProtectedHeaders are the integrity-protected header claims.
	ProtectedHeaders Headers

	// OrigProtected is the transmitted base64url text of the protected
	// header. The additional authenticated data is always rebuilt from this
	// exact text, never from re-marshalled claims.
	OrigProtected string

	// UnprotectedHeaders are the shared unprotected header claims (JSON
	// shapes only).
	UnprotectedHeaders Headers

	// Recipients holds one entry per recipient, in wire order.
	Recipients []*Recipient

	// AAD is the caller-supplied additional authenticated data (JSON shapes
	// only); origAAD keeps its transmitted base64url text.
	AAD     []byte
	origAAD string

	// IV, Ciphertext and Tag are the content encryption outputs.
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// Recipient pairs one recipient's unprotected header claims with its
// encrypted-key segment.
type Recipient struct {
	Header       Headers
	EncryptedKey []byte
}

type rawRecipient struct {
	Header       json.RawMessage `json:"header,omitempty"`
	EncryptedKey string          `json:"encrypted_key,omitempty"`
}

type rawJSONWebEncryption struct {
	Protected    string          `json:"protected,omitempty"`
	Unprotected  json.RawMessage `json:"unprotected,omitempty"`
	Header       json.RawMessage `json:"header,omitempty"`
	EncryptedKey string          `json:"encrypted_key,omitempty"`
	Recipients   []rawRecipient  `json:"recipients,omitempty"`
	AAD          string          `json:"aad,omitempty"`
	IV           string          `json:"iv,omitempty"`
	Ciphertext   string          `json:"ciphertext"`
	Tag          string          `json:"tag,omitempty"`
}

func decodeSegment(name, segment string) ([]byte, error) {
	if segment == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, errInvalid("segment %q is not base64url text", name)
	}

	return raw, nil
}

func encodeSegment(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeProtected parses the base64url protected-header text into claims.
func decodeProtected(segment string) (Headers, error) {
	if segment == "" {
		return Headers{}, nil
	}

	raw, err := decodeSegment("protected", segment)
	if err != nil {
		return nil, err
	}

	headers := Headers{}
	if err := json.Unmarshal(raw, &headers); err != nil {
		return nil, errInvalid("protected header is not a JSON object")
	}

	return headers, nil
}

// encodeProtected marshals claims into the base64url protected-header text.
func encodeProtected(headers Headers) (string, error) {
	if len(headers) == 0 {
		return "", nil
	}

	raw, err := json.Marshal(headers)
	if err != nil {
		return "", errInvalid("marshal protected header: %v", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// parseCompact parses the five-segment compact serialization.
func parseCompact(text string) (*JSONWebEncryption, error) {
	segments := strings.Split(text, ".")
	if len(segments) != 5 {
		return nil, errInvalid("compact JWE has %d segments, want 5", len(segments))
	}

	protected, err := decodeProtected(segments[0])
	if err != nil {
		return nil, err
	}

	encryptedKey, err := decodeSegment("encrypted_key", segments[1])
	if err != nil {
		return nil, err
	}

	iv, err := decodeSegment("iv", segments[2])
	if err != nil {
		return nil, err
	}

	ciphertext, err := decodeSegment("ciphertext", segments[3])
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 {
		return nil, errInvalid("empty ciphertext segment")
	}

	tag, err := decodeSegment("tag", segments[4])
	if err != nil {
		return nil, err
	}

	return &JSONWebEncryption{
		ProtectedHeaders: protected,
		OrigProtected:    segments[0],
		Recipients:       []*Recipient{{Header: Headers{}, EncryptedKey: encryptedKey}},
		IV:               iv,
		Ciphertext:       ciphertext,
		Tag:              tag,
	}, nil
}

// parseJSON parses both the flattened and the general JSON serialization.
func parseJSON(text []byte) (*JSONWebEncryption, error) {
	var raw rawJSONWebEncryption
	if err := json.Unmarshal(text, &raw); err != nil {
		return nil, errInvalid("not a JSON object: %v", err)
	}

	if raw.Recipients != nil && (raw.Header != nil || raw.EncryptedKey != "") {
		return nil, errInvalid("both flattened and general recipient members present")
	}

	protected, err := decodeProtected(raw.Protected)
	if err != nil {
		return nil, err
	}

	unprotected := Headers{}

	if raw.Unprotected != nil {
		if err := json.Unmarshal(raw.Unprotected, &unprotected); err != nil {
			return nil, errInvalid("member %q is not a JSON object", "unprotected")
		}
	}

	rawRecipients := raw.Recipients
	if rawRecipients == nil {
		rawRecipients = []rawRecipient{{Header: raw.Header, EncryptedKey: raw.EncryptedKey}}
	}

	recipients := make([]*Recipient, 0, len(rawRecipients))

	for _, rr := range rawRecipients {
		header := Headers{}

		if rr.Header != nil {
			if err := json.Unmarshal(rr.Header, &header); err != nil {
				return nil, errInvalid("member %q is not a JSON object", "header")
			}
		}

		encryptedKey, err := decodeSegment("encrypted_key", rr.EncryptedKey)
		if err != nil {
			return nil, err
		}

		recipients = append(recipients, &Recipient{Header: header, EncryptedKey: encryptedKey})
	}

	aad, err := decodeSegment("aad", raw.AAD)
	if err != nil {
		return nil, err
	}

	iv, err := decodeSegment("iv", raw.IV)
	if err != nil {
		return nil, err
	}

	ciphertext, err := decodeSegment("ciphertext", raw.Ciphertext)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 {
		return nil, errInvalid("missing ciphertext member")
	}

	tag, err := decodeSegment("tag", raw.Tag)
	if err != nil {
		return nil, err
	}

	return &JSONWebEncryption{
		ProtectedHeaders:   protected,
		OrigProtected:      raw.Protected,
		UnprotectedHeaders: unprotected,
		Recipients:         recipients,
		AAD:                aad,
		origAAD:            raw.AAD,
		IV:                 iv,
		Ciphertext:         ciphertext,
		Tag:                tag,
	}, nil
}

// buildAAD composes the additional authenticated data for the content
// cipher from the verbatim transmitted segments (RFC 7516 §5.1 step 14).
func (m *JSONWebEncryption) buildAAD() []byte {
	if m.origAAD == "" {
		return []byte(m.OrigProtected)
	}

	return []byte(m.OrigProtected + "." + m.origAAD)
}

// Compact renders the five-segment compact serialization. It fails when the
// message carries state only the JSON shapes can express.
func (m *JSONWebEncryption) Compact() (string, error) {
	if len(m.Recipients) != 1 {
		return "", errInvalid("compact form holds exactly one recipient")
	}

	if len(m.UnprotectedHeaders) > 0 || len(m.Recipients[0].Header) > 0 {
		return "", errInvalid("compact form cannot carry unprotected headers")
	}

	if len(m.AAD) > 0 {
		return "", errInvalid("compact form cannot carry external AAD")
	}

	return strings.Join([]string{
		m.OrigProtected,
		encodeSegment(m.Recipients[0].EncryptedKey),
		encodeSegment(m.IV),
		encodeSegment(m.Ciphertext),
		encodeSegment(m.Tag),
	}, "."), nil
}

func (m *JSONWebEncryption) raw() (*rawJSONWebEncryption, error) {
	raw := &rawJSONWebEncryption{
		Protected:  m.OrigProtected,
		AAD:        m.origAAD,
		IV:         encodeSegment(m.IV),
		Ciphertext: encodeSegment(m.Ciphertext),
		Tag:        encodeSegment(m.Tag),
	}

	if len(m.UnprotectedHeaders) > 0 {
		unprotected, err := json.Marshal(m.UnprotectedHeaders)
		if err != nil {
			return nil, errInvalid("marshal unprotected header: %v", err)
		}

		raw.Unprotected = unprotected
	}

	return raw, nil
}

// FlattenedJSON renders the single-recipient flattened JSON serialization.
func (m *JSONWebEncryption) FlattenedJSON() ([]byte, error) {
	if len(m.Recipients) != 1 {
		return nil, errInvalid("flattened form holds exactly one recipient")
	}

	raw, err := m.raw()
	if err != nil {
		return nil, err
	}

	recipient := m.Recipients[0]

	if len(recipient.Header) > 0 {
		header, err := json.Marshal(recipient.Header)
		if err != nil {
			return nil, errInvalid("marshal recipient header: %v", err)
		}

		raw.Header = header
	}

	raw.EncryptedKey = encodeSegment(recipient.EncryptedKey)

	return json.Marshal(raw)
}

// GeneralJSON renders the general JSON serialization with its recipients
// array, preserving recipient order.
func (m *JSONWebEncryption) GeneralJSON() ([]byte, error) {
	raw, err := m.raw()
	if err != nil {
		return nil, err
	}

	raw.Recipients = make([]rawRecipient, 0, len(m.Recipients))

	for _, recipient := range m.Recipients {
		rr := rawRecipient{EncryptedKey: encodeSegment(recipient.EncryptedKey)}

		if len(recipient.Header) > 0 {
			header, err := json.Marshal(recipient.Header)
			if err != nil {
				return nil, errInvalid("marshal recipient header: %v", err)
			}

			rr.Header = header
		}

		raw.Recipients = append(raw.Recipients, rr)
	}

	return json.Marshal(raw)
}
