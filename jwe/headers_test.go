/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadersSet(t *testing.T) {
	t.Run("registered claims validate value types", func(t *testing.T) {
		h := Headers{}

		require.NoError(t, h.Set(HeaderAlgorithm, "A256KW"))
		require.NoError(t, h.Set(HeaderPBES2Count, 8192))
		require.NoError(t, h.Set(HeaderCritical, []string{"exp"}))

		require.ErrorIs(t, h.Set(HeaderAlgorithm, 42), ErrInvalidJWE)
		require.ErrorIs(t, h.Set(HeaderPBES2Count, -1), ErrInvalidJWE)
		require.ErrorIs(t, h.Set(HeaderPBES2Salt, "not!base64url"), ErrInvalidJWE)
		require.ErrorIs(t, h.Set(HeaderCritical, []string{}), ErrInvalidJWE)
	})

	t.Run("free-form claims stored as-is", func(t *testing.T) {
		h := Headers{}
		require.NoError(t, h.Set("custom", map[string]interface{}{"deep": true}))
		require.Contains(t, h, "custom")
	})
}

func TestHeadersAccessors(t *testing.T) {
	h := Headers{
		HeaderAlgorithm:  "dir",
		HeaderEncryption: "A256GCM",
		HeaderKeyID:      "key-1",
		HeaderPBES2Count: float64(4096),
		HeaderCritical:   []interface{}{"exp", "b64"},
	}

	alg, ok := h.Algorithm()
	require.True(t, ok)
	require.Equal(t, "dir", alg)

	enc, ok := h.Encryption()
	require.True(t, ok)
	require.Equal(t, "A256GCM", enc)

	kid, ok := h.KeyID()
	require.True(t, ok)
	require.Equal(t, "key-1", kid)

	count, ok := h.PBES2Count()
	require.True(t, ok)
	require.Equal(t, 4096, count)

	crit, ok := h.Critical()
	require.True(t, ok)
	require.Equal(t, []string{"exp", "b64"}, crit)

	_, ok = h.Compression()
	require.False(t, ok)
}

func TestMergeHeaders(t *testing.T) {
	t.Run("disjoint views union", func(t *testing.T) {
		merged, err := mergeHeaders(
			Headers{HeaderEncryption: "A128GCM"},
			Headers{HeaderType: "JOSE"},
			Headers{HeaderAlgorithm: "A128KW"},
		)
		require.NoError(t, err)
		require.Len(t, merged, 3)
	})

	t.Run("duplicate name conflicts even with equal values", func(t *testing.T) {
		_, err := mergeHeaders(
			Headers{HeaderAlgorithm: "A128KW"},
			Headers{HeaderAlgorithm: "A128KW"},
		)
		require.ErrorIs(t, err, ErrHeaderConflict)
	})
}

func TestHeadersEqualAndClone(t *testing.T) {
	h := Headers{HeaderAlgorithm: "dir", "n": float64(1)}

	require.True(t, h.Equal(Headers{"n": float64(1), HeaderAlgorithm: "dir"}))
	require.False(t, h.Equal(Headers{HeaderAlgorithm: "dir"}))
	require.False(t, h.Equal(Headers{HeaderAlgorithm: "dir", "n": float64(2)}))

	clone := h.Clone()
	clone[HeaderAlgorithm] = "A128KW"
	require.Equal(t, "dir", h[HeaderAlgorithm])
}

func TestCheckCritical(t *testing.T) {
	t.Run("absent crit accepted", func(t *testing.T) {
		require.NoError(t, checkCritical(Headers{HeaderAlgorithm: "dir"}))
	})

	t.Run("empty crit rejected", func(t *testing.T) {
		err := checkCritical(Headers{HeaderCritical: []interface{}{}})
		require.ErrorIs(t, err, ErrInvalidJWE)
	})

	t.Run("registered name in crit rejected", func(t *testing.T) {
		err := checkCritical(Headers{HeaderCritical: []string{HeaderAlgorithm}, HeaderAlgorithm: "dir"})
		require.ErrorIs(t, err, ErrInvalidJWE)
	})

	t.Run("crit naming absent claim rejected", func(t *testing.T) {
		err := checkCritical(Headers{HeaderCritical: []string{"exp"}})
		require.ErrorIs(t, err, ErrInvalidJWE)
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		err := checkCritical(Headers{HeaderCritical: []string{"exp"}, "exp": float64(1710000000)})
		require.ErrorIs(t, err, ErrCriticalHeader)
	})
}
