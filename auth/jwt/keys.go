package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"os"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type keyFamily int

const (
	familyHMAC keyFamily = iota
	familyRSA
	familyEC
	familyEd
)

type algorithm struct {
	method gojwt.SigningMethod
	family keyFamily
}

var algorithms = map[SigningMethod]algorithm{
	HS256: {gojwt.SigningMethodHS256, familyHMAC},
	HS384: {gojwt.SigningMethodHS384, familyHMAC},
	HS512: {gojwt.SigningMethodHS512, familyHMAC},
	RS256: {gojwt.SigningMethodRS256, familyRSA},
	RS384: {gojwt.SigningMethodRS384, familyRSA},
	RS512: {gojwt.SigningMethodRS512, familyRSA},
	ES256: {gojwt.SigningMethodES256, familyEC},
	ES384: {gojwt.SigningMethodES384, familyEC},
	ES512: {gojwt.SigningMethodES512, familyEC},
	EdDSA: {gojwt.SigningMethodEdDSA, familyEd},
}

type pemParsers struct {
	private func([]byte) (any, error)
	public  func([]byte) (any, error)
}

func widen[K any](parse func([]byte) (K, error)) func([]byte) (any, error) {
	return func(b []byte) (any, error) { return parse(b) }
}

var parsers = map[keyFamily]pemParsers{
	familyRSA: {widen(gojwt.ParseRSAPrivateKeyFromPEM), widen(gojwt.ParseRSAPublicKeyFromPEM)},
	familyEC:  {widen(gojwt.ParseECPrivateKeyFromPEM), widen(gojwt.ParseECPublicKeyFromPEM)},
	familyEd:  {widen(gojwt.ParseEdPrivateKeyFromPEM), widen(gojwt.ParseEdPublicKeyFromPEM)},
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	return algorithms[c.Method].method
}

// loadKeys returns the signing and verification keys for a validated
// config. HMAC uses the secret for both.
func (c *Config) loadKeys() (sign, verify any, err error) {
	family := algorithms[c.Method].family
	if family == familyHMAC {
		return []byte(c.Secret), []byte(c.Secret), nil
	}
	p := parsers[family]

	sign = c.PrivateKey
	if sign == nil {
		if sign, err = readPEM(c.PrivateKeyFile, p.private); err != nil {
			return nil, nil, fmt.Errorf("%s private key: %w", c.Method, err)
		}
	}

	verify = c.PublicKey
	if verify == nil && c.PublicKeyFile != "" {
		if verify, err = readPEM(c.PublicKeyFile, p.public); err != nil {
			return nil, nil, fmt.Errorf("%s public key: %w", c.Method, err)
		}
	}
	if verify == nil {
		if verify, err = publicHalf(sign); err != nil {
			return nil, nil, err
		}
	}
	return sign, verify, nil
}

func readPEM(path string, parse func([]byte) (any, error)) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func publicHalf(priv crypto.PrivateKey) (crypto.PublicKey, error) {
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	case ed25519.PrivateKey:
		return k.Public(), nil
	}
	return nil, fmt.Errorf("unsupported private key type %T", priv)
}
