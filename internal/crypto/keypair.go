// Package crypto provides the cryptographic primitives for the digital
// cinema PKI: RSA key pair generation, PEM persistence and SMPTE 430-2
// public key thumbprints.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
)

// KeyBits is the RSA modulus size required by the SMPTE 430-2 profile.
// All four certificates in a hierarchy carry keys of this strength.
const KeyBits = 2048

// KeyPair holds an RSA public/private key pair.
type KeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// GenerateKeyPair generates a new RSA-2048 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	return GenerateKeyPairWithRand(rand.Reader)
}

// GenerateKeyPairWithRand generates a key pair using the provided random
// source. Useful for testing with deterministic randomness.
func GenerateKeyPairWithRand(random io.Reader) (*KeyPair, error) {
	priv, err := rsa.GenerateKey(random, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA-%d key: %w", KeyBits, err)
	}

	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  &priv.PublicKey,
	}, nil
}
