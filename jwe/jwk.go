/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwe

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"math/big"
)

// The 'epk' claim carries a minimal public JWK: EC keys as
// {"kty":"EC","crv":...,"x":...,"y":...} with fixed-width coordinates, OKP
// X25519 keys as {"kty":"OKP","crv":"X25519","x":...}.

const x25519KeySize = 32

func curveByName(crv string) (elliptic.Curve, bool) {
	switch crv {
	case "P-256":
		return elliptic.P256(), true
	case "P-384":
		return elliptic.P384(), true
	case "P-521":
		return elliptic.P521(), true
	default:
		return nil, false
	}
}

func curveName(curve elliptic.Curve) string {
	return curve.Params().Name
}

// curveCoordSize is the byte width of a coordinate on curve; JWK requires
// coordinates padded to the full field size (RFC 7518 §6.2.1.2).
func curveCoordSize(curve elliptic.Curve) int {
	return (curve.Params().BitSize + 7) / 8
}

func encodeCoord(v *big.Int, size int) string {
	buf := make([]byte, size)
	v.FillBytes(buf)

	return base64.RawURLEncoding.EncodeToString(buf)
}

func epkFromECDSA(pub *ecdsa.PublicKey) map[string]interface{} {
	size := curveCoordSize(pub.Curve)

	return map[string]interface{}{
		"kty": "EC",
		"crv": curveName(pub.Curve),
		"x":   encodeCoord(pub.X, size),
		"y":   encodeCoord(pub.Y, size),
	}
}

func epkFromX25519(pub []byte) map[string]interface{} {
	return map[string]interface{}{
		"kty": "OKP",
		"crv": "X25519",
		"x":   base64.RawURLEncoding.EncodeToString(pub),
	}
}

func epkString(epk map[string]interface{}, name string) (string, error) {
	raw, ok := epk[name]
	if !ok {
		return "", errInvalid("epk: missing %q", name)
	}

	str, ok := raw.(string)
	if !ok {
		return "", errInvalid("epk: %q is not a string", name)
	}

	return str, nil
}

func epkBytes(epk map[string]interface{}, name string) ([]byte, error) {
	str, err := epkString(epk, name)
	if err != nil {
		return nil, err
	}

	raw, err := base64.RawURLEncoding.DecodeString(str)
	if err != nil {
		return nil, errInvalid("epk: %q is not base64url text", name)
	}

	return raw, nil
}

// ecdsaFromEPK decodes an 'epk' claim into a public key on the expected
// curve, rejecting off-curve points.
func ecdsaFromEPK(epk map[string]interface{}, expected elliptic.Curve) (*ecdsa.PublicKey, error) {
	kty, err := epkString(epk, "kty")
	if err != nil {
		return nil, err
	}

	if kty != "EC" {
		return nil, errInvalid("epk: key type %q, want EC", kty)
	}

	crv, err := epkString(epk, "crv")
	if err != nil {
		return nil, err
	}

	curve, ok := curveByName(crv)
	if !ok || curve != expected {
		return nil, errInvalid("epk: curve %q does not match recipient key", crv)
	}

	xBytes, err := epkBytes(epk, "x")
	if err != nil {
		return nil, err
	}

	yBytes, err := epkBytes(epk, "y")
	if err != nil {
		return nil, err
	}

	pub := &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}

	if !curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errInvalid("epk: point is not on curve %q", crv)
	}

	return pub, nil
}

// x25519FromEPK decodes an 'epk' claim into a raw X25519 public key.
func x25519FromEPK(epk map[string]interface{}) ([]byte, error) {
	kty, err := epkString(epk, "kty")
	if err != nil {
		return nil, err
	}

	if kty != "OKP" {
		return nil, errInvalid("epk: key type %q, want OKP", kty)
	}

	crv, err := epkString(epk, "crv")
	if err != nil {
		return nil, err
	}

	if crv != "X25519" {
		return nil, errInvalid("epk: curve %q, want X25519", crv)
	}

	pub, err := epkBytes(epk, "x")
	if err != nil {
		return nil, err
	}

	if len(pub) != x25519KeySize {
		return nil, errInvalid("epk: X25519 key must be %d bytes", x25519KeySize)
	}

	return pub, nil
}
