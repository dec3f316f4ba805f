package signature

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"lnmbpay/internal/config"
)

// ErrNoKeySource is returned when no private key source is configured.
var ErrNoKeySource = errors.New("no private key source configured")

// LoadPrivateKey resolves the signing key from configuration. Sources are
// tried in a fixed priority order: base64-encoded inline key, raw inline
// key, then file path. The order is a contract; misordering silently picks
// the wrong key in deployments that set more than one source.
func LoadPrivateKey(cfg config.PaymentConfig) (*rsa.PrivateKey, error) {
	switch {
	case cfg.PrivateKeyB64 != "":
		raw, err := base64.StdEncoding.DecodeString(cfg.PrivateKeyB64)
		if err != nil {
			return nil, fmt.Errorf("decode base64 private key: %w", err)
		}
		return parsePrivateKey(raw)

	case cfg.PrivateKey != "":
		return parsePrivateKey([]byte(cfg.PrivateKey))

	case cfg.PrivateKeyFile != "":
		raw, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key file: %w", err)
		}
		return parsePrivateKey(raw)

	default:
		return nil, ErrNoKeySource
	}
}

// parsePrivateKey parses a PEM-encoded RSA private key in either PKCS#1 or
// PKCS#8 form.
func parsePrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("private key is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not an RSA key")
	}
	return key, nil
}
