// Package gateway holds the outbound HTTP client for the payment gateway.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"lnmbpay/internal/config"
	"lnmbpay/internal/signature"
)

// ErrSigningUnavailable is returned when no signing key is configured for
// outbound requests.
var ErrSigningUnavailable = errors.New("outbound signing is not configured")

// initiateRequest is the gateway's initiate payload. The gateway expects the
// amount as a string.
type initiateRequest struct {
	MerchantCode   string `json:"merchantCode"`
	OrderReference string `json:"orderReference"`
	Currency       string `json:"currency"`
	Amount         string `json:"amount"`
	CallbackURL    string `json:"callbackUrl"`
	Channel        string `json:"desc,omitempty"`
}

// initiateResponse is the gateway's acknowledgement of an initiate call.
type initiateResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

// apiError is the gateway's error body for non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}

// Client calls the payment gateway. Requests carry a base64 RSA signature
// over the same canonical string the gateway later echoes back through the
// webhook digest.
type Client struct {
	http   *resty.Client
	signer *signature.Signer
}

// NewClient creates a gateway client. signer may be nil when no private key
// is configured; Initiate then refuses to run rather than send an unsigned
// request.
func NewClient(cfg config.PaymentConfig, signer *signature.Signer) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.GatewayBaseURL).
			SetTimeout(cfg.GatewayTimeout),
		signer: signer,
	}
}

// Initiate asks the gateway to start a charge and returns the gateway's
// transaction id.
func (c *Client) Initiate(ctx context.Context, p signature.Params, channel string) (string, error) {
	if c.signer == nil {
		return "", ErrSigningUnavailable
	}

	sig, err := c.signer.Sign(p)
	if err != nil {
		return "", fmt.Errorf("sign initiate request for %s: %w", p.OrderReference, err)
	}

	var out initiateResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Signature", sig).
		SetBody(initiateRequest{
			MerchantCode:   p.MerchantCode,
			OrderReference: p.OrderReference,
			Currency:       p.Currency,
			Amount:         p.Amount,
			CallbackURL:    p.CallbackURL,
			Channel:        channel,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/payments/initiate")
	if err != nil {
		return "", fmt.Errorf("could not reach payment gateway: %w", err)
	}

	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("gateway rejected initiate for %s: %s", p.OrderReference, apiErr.Message)
		}
		return "", fmt.Errorf("gateway rejected initiate for %s: status %s", p.OrderReference, resp.Status())
	}

	if !out.Success {
		return "", fmt.Errorf("gateway declined initiate for %s: %s", p.OrderReference, out.Message)
	}

	return out.TransactionID, nil
}
