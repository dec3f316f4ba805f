// Package signature implements the two authentication mechanisms shared by
// the payment gateway integration: a symmetric SHA-256 digest used to verify
// inbound webhook notifications, and an RSA sign/verify pair used to
// authenticate outbound requests.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// Params are the canonical fields covered by both mechanisms. Field order and
// exact string formatting are part of the wire contract: signer and verifier
// must produce the same bytes.
type Params struct {
	MerchantCode   string
	OrderReference string
	Currency       string
	Amount         string
	CallbackURL    string
}

func (p Params) complete() bool {
	return p.MerchantCode != "" && p.OrderReference != "" &&
		p.Currency != "" && p.Amount != "" && p.CallbackURL != ""
}

// Canonical builds the canonical string: the fields concatenated in fixed
// order with no separators.
func Canonical(p Params) string {
	return p.MerchantCode + p.OrderReference + p.Currency + p.Amount + p.CallbackURL
}

// Digest computes the hex-encoded SHA-256 of the canonical string. The
// merchant code acts as the shared-secret component.
func Digest(p Params) string {
	sum := sha256.Sum256([]byte(Canonical(p)))
	return hex.EncodeToString(sum[:])
}

// Verify checks a received webhook digest against the locally computed one.
// It fails closed: a missing field, a decode error or a length mismatch all
// report "not authentic" rather than surfacing an error to the caller.
func Verify(p Params, received string) bool {
	if !p.complete() || received == "" {
		return false
	}

	got, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	want := sha256.Sum256([]byte(Canonical(p)))
	if len(got) != len(want) {
		return false
	}

	return subtle.ConstantTimeCompare(got, want[:]) == 1
}

// Signer produces base64-encoded RSA signatures over the canonical string
// for outbound gateway requests.
type Signer struct {
	key *rsa.PrivateKey
}

// NewSigner creates a Signer from a private key.
func NewSigner(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign signs the canonical string with PKCS#1 v1.5 over SHA-256 and returns
// the signature base64-encoded for transport.
func (s *Signer) Sign(p Params) (string, error) {
	sum := sha256.Sum256([]byte(Canonical(p)))

	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, sum[:])
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySignature checks a base64 RSA signature against the matching public
// key. It accepts exactly the signatures produced by Sign.
func VerifySignature(pub *rsa.PublicKey, p Params, encoded string) bool {
	if pub == nil || encoded == "" {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(Canonical(p)))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig) == nil
}
