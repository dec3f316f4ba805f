package signature

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

var scenarioParams = Params{
	MerchantCode:   "M1",
	OrderReference: "LNMB123",
	Currency:       "KES",
	Amount:         "850",
	CallbackURL:    "https://x/cb",
}

func TestCanonical_FixedOrderNoSeparators(t *testing.T) {
	t.Parallel()

	got := Canonical(scenarioParams)
	want := "M1LNMB123KES850https://x/cb"
	if got != want {
		t.Errorf("canonical string = %q, want %q", got, want)
	}
}

func TestDigest_MatchesSHA256OfCanonical(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("M1LNMB123KES850https://x/cb"))
	want := hex.EncodeToString(sum[:])

	if got := Digest(scenarioParams); got != want {
		t.Errorf("digest = %q, want %q", got, want)
	}
}

func TestVerify_AcceptsOwnDigest(t *testing.T) {
	t.Parallel()

	if !Verify(scenarioParams, Digest(scenarioParams)) {
		t.Error("digest produced by Digest should verify")
	}
}

func TestVerify_TamperedFieldsFail(t *testing.T) {
	t.Parallel()

	digest := Digest(scenarioParams)

	tampered := scenarioParams
	tampered.Amount = "851"
	if Verify(tampered, digest) {
		t.Error("digest over amount 850 must not verify against amount 851")
	}

	tampered = scenarioParams
	tampered.OrderReference = "LNMB124"
	if Verify(tampered, digest) {
		t.Error("digest must not verify against a different order reference")
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		params   Params
		received string
	}{
		{"empty digest", scenarioParams, ""},
		{"non-hex digest", scenarioParams, "not-hex!"},
		{"truncated digest", scenarioParams, Digest(scenarioParams)[:32]},
		{"missing merchant code", Params{OrderReference: "LNMB123", Currency: "KES", Amount: "850", CallbackURL: "https://x/cb"}, Digest(scenarioParams)},
		{"missing amount", Params{MerchantCode: "M1", OrderReference: "LNMB123", Currency: "KES", CallbackURL: "https://x/cb"}, Digest(scenarioParams)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Verify(tc.params, tc.received) {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	signer := NewSigner(key)
	sig, err := signer.Sign(scenarioParams)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if !VerifySignature(&key.PublicKey, scenarioParams, sig) {
		t.Error("signature produced by Sign should verify with the matching public key")
	}

	tampered := scenarioParams
	tampered.Amount = "9999"
	if VerifySignature(&key.PublicKey, tampered, sig) {
		t.Error("signature must not verify over tampered params")
	}
}

func TestVerifySignature_RejectsForeignKeyAndGarbage(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	sig, err := NewSigner(key).Sign(scenarioParams)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if VerifySignature(&other.PublicKey, scenarioParams, sig) {
		t.Error("signature must not verify with a different public key")
	}
	if VerifySignature(&key.PublicKey, scenarioParams, "%%%not-base64%%%") {
		t.Error("undecodable signature must not verify")
	}
	if VerifySignature(nil, scenarioParams, sig) {
		t.Error("nil public key must not verify")
	}
}
