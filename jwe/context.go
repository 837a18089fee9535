/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

// Context is the JWE engine. It holds no state and a single value is safe
// for concurrent use; it exists so that callers can thread their own engine
// through code that should not depend on the package-level default.
type Context struct{}

// NewContext returns a JWE engine.
func NewContext() *Context {
	return &Context{}
}

var defaultContext = NewContext()

// SerializeCompact encrypts payload with the default engine. See
// Context.SerializeCompact.
func SerializeCompact(payload []byte, header Headers, encrypter KeyEncrypter) (string, error) {
	return defaultContext.SerializeCompact(payload, header, encrypter)
}

// SerializeCompactWithSelector encrypts payload with the default engine. See
// Context.SerializeCompactWithSelector.
func SerializeCompactWithSelector(payload []byte, header Headers, selector EncrypterSelector) (string, error) {
	return defaultContext.SerializeCompactWithSelector(payload, header, selector)
}

// SerializeFlattenedJSON encrypts payload with the default engine. See
// Context.SerializeFlattenedJSON.
func SerializeFlattenedJSON(payload []byte, protected, unprotected, recipientHeader Headers,
	aad []byte, encrypter KeyEncrypter) ([]byte, error) {
	return defaultContext.SerializeFlattenedJSON(payload, protected, unprotected, recipientHeader, aad, encrypter)
}

// SerializeFlattenedJSONWithSelector encrypts payload with the default
// engine. See Context.SerializeFlattenedJSONWithSelector.
func SerializeFlattenedJSONWithSelector(payload []byte, protected, unprotected, recipientHeader Headers,
	aad []byte, selector EncrypterSelector) ([]byte, error) {
	return defaultContext.SerializeFlattenedJSONWithSelector(payload, protected, unprotected, recipientHeader, aad, selector)
}

// SerializeGeneralJSON encrypts payload with the default engine. See
// Context.SerializeGeneralJSON.
func SerializeGeneralJSON(payload []byte, protected, unprotected Headers,
	aad []byte, recipients []*RecipientEncrypter) ([]byte, error) {
	return defaultContext.SerializeGeneralJSON(payload, protected, unprotected, aad, recipients)
}

// DeserializeCompact decrypts text with the default engine. See
// Context.DeserializeCompact.
func DeserializeCompact(text string, decrypter KeyDecrypter) ([]byte, Headers, error) {
	return defaultContext.DeserializeCompact(text, decrypter)
}

// DeserializeCompactWithSelector decrypts text with the default engine. See
// Context.DeserializeCompactWithSelector.
func DeserializeCompactWithSelector(text string, selector DecrypterSelector) ([]byte, Headers, error) {
	return defaultContext.DeserializeCompactWithSelector(text, selector)
}

// DeserializeJSON decrypts text with the default engine. See
// Context.DeserializeJSON.
func DeserializeJSON(text []byte, decrypter KeyDecrypter) ([]byte, Headers, error) {
	return defaultContext.DeserializeJSON(text, decrypter)
}

// DeserializeJSONWithSelector decrypts text with the default engine. See
// Context.DeserializeJSONWithSelector.
func DeserializeJSONWithSelector(text []byte, selector DecrypterSelector) ([]byte, Headers, error) {
	return defaultContext.DeserializeJSONWithSelector(text, selector)
}
