/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"encoding/base64"
	"fmt"
	"reflect"
)

// registeredHeaders maps each registered JWE claim name to a validator for
// its value. Set rejects registered claims whose values do not have the
// registered type; unregistered claims carry any JSON-compatible value.
var registeredHeaders = map[string]func(interface{}) bool{
	HeaderAlgorithm:                   isString,
	HeaderEncryption:                  isString,
	HeaderCompression:                 isString,
	HeaderJWKSetURL:                   isString,
	HeaderJSONWebKey:                  isJSONObject,
	HeaderKeyID:                       isString,
	HeaderX509URL:                     isString,
	HeaderX509CertificateChain:        isStringArray,
	HeaderX509CertificateDigestSha1:   isString,
	HeaderX509CertificateDigestSha256: isString,
	HeaderType:                        isString,
	HeaderContentType:                 isString,
	HeaderCritical:                    isNonEmptyStringArray,
	HeaderEPK:                         isJSONObject,
	HeaderAgreementPartyUInfo:         isBase64URL,
	HeaderAgreementPartyVInfo:         isBase64URL,
	HeaderIV:                          isBase64URL,
	HeaderTag:                         isBase64URL,
	HeaderPBES2Salt:                   isBase64URL,
	HeaderPBES2Count:                  isPositiveInt,
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func isBase64URL(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}

	_, err := base64.RawURLEncoding.DecodeString(s)

	return err == nil
}

func isJSONObject(v interface{}) bool {
	_, ok := v.(map[string]interface{})
	return ok
}

func isStringArray(v interface{}) bool {
	switch arr := v.(type) {
	case []string:
		return true
	case []interface{}:
		for _, e := range arr {
			if _, ok := e.(string); !ok {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func isNonEmptyStringArray(v interface{}) bool {
	if !isStringArray(v) {
		return false
	}

	return reflect.ValueOf(v).Len() > 0
}

func isPositiveInt(v interface{}) bool {
	switch n := v.(type) {
	case int:
		return n > 0
	case int64:
		return n > 0
	case float64:
		return n > 0 && n == float64(int64(n))
	default:
		return false
	}
}

// Set stores a claim, validating the value type of registered claim names.
func (h Headers) Set(name string, value interface{}) error {
	if validate, ok := registeredHeaders[name]; ok && !validate(value) {
		return errInvalid("invalid value for header %q", name)
	}

	h[name] = value

	return nil
}

// mergeHeaders unions header views into the effective JOSE header of one
// recipient. A claim name present in more than one view is a conflict, even
// when the values agree (RFC 7516 §4: names MUST be disjoint).
func mergeHeaders(views ...Headers) (Headers, error) {
	merged := Headers{}

	for _, view := range views {
		for name, value := range view {
			if _, dup := merged[name]; dup {
				return nil, errConflict("header %q occurs in multiple header views", name)
			}

			merged[name] = value
		}
	}

	return merged, nil
}

// Equal reports structural equality of two claim sets.
func (h Headers) Equal(other Headers) bool {
	if len(h) != len(other) {
		return false
	}

	for name, value := range h {
		otherValue, ok := other[name]
		if !ok || !reflect.DeepEqual(value, otherValue) {
			return false
		}
	}

	return true
}

// supportedCriticalHeaders lists extension claim names this implementation
// fully processes and therefore accepts inside 'crit'.
var supportedCriticalHeaders = map[string]struct{}{}

// checkCritical enforces RFC 7516 §4.1.13 on a merged header: 'crit' entries
// must be non-registered names, present in the header, and understood by this
// implementation.
func checkCritical(merged Headers) error {
	names, ok := merged.Critical()
	if !ok {
		if _, present := merged[HeaderCritical]; present {
			return errInvalid("header %q is not a string array", HeaderCritical)
		}

		return nil
	}

	if len(names) == 0 {
		return errInvalid("header %q is empty", HeaderCritical)
	}

	for _, name := range names {
		if _, registered := registeredHeaders[name]; registered {
			return errInvalid("header %q lists registered claim %q", HeaderCritical, name)
		}

		if _, present := merged[name]; !present {
			return errInvalid("header %q lists absent claim %q", HeaderCritical, name)
		}

		if _, understood := supportedCriticalHeaders[name]; !understood {
			return errCritical(name)
		}
	}

	return nil
}

func errCritical(name string) error {
	return fmt.Errorf("critical header %q not supported: %w", name, ErrCriticalHeader)
}
