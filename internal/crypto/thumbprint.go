package crypto

import (
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by SMPTE 430-2 for thumbprints
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
)

// Thumbprint is the SMPTE 430-2 public key thumbprint: the SHA-1 digest of
// the DER-encoded ASN.1 SEQUENCE {modulus, publicExponent} of an RSA public
// key (the PKCS#1 RSAPublicKey encoding).
//
// Its base64 form is embedded in the certificate subject as the dnQualifier
// attribute, which validating software compares against a thumbprint it
// recomputes from the certificate's own public key.
type Thumbprint [sha1.Size]byte

// ComputeThumbprint derives the thumbprint of an RSA public key.
// The result is deterministic: the same key always yields the same digest.
func ComputeThumbprint(pub *rsa.PublicKey) Thumbprint {
	return sha1.Sum(x509.MarshalPKCS1PublicKey(pub)) //nolint:gosec
}

// Base64 returns the standard base64 encoding used for DN embedding.
func (t Thumbprint) Base64() string {
	return base64.StdEncoding.EncodeToString(t[:])
}

// Hex returns the lowercase hex encoding used for human display.
func (t Thumbprint) Hex() string {
	return hex.EncodeToString(t[:])
}

// Bytes returns the raw digest.
func (t Thumbprint) Bytes() []byte {
	out := make([]byte, len(t))
	copy(out, t[:])
	return out
}
