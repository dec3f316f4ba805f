package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lnmbpay/internal/config"
	"lnmbpay/internal/domain"
	"lnmbpay/internal/repository"
	"lnmbpay/internal/signature"
)

// Gateway is the interface to the external payment gateway's initiate
// endpoint. The canonical params are signed with the merchant's private key
// before transport.
type Gateway interface {
	Initiate(ctx context.Context, p signature.Params, channel string) (transactionID string, err error)
}

// PaymentService creates payment records and starts charges against the
// gateway. Inbound verification lives in CallbackService; both share the
// signature package.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	gateway     Gateway
	cfg         config.PaymentConfig
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, gateway Gateway, cfg config.PaymentConfig) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		cfg:         cfg,
	}
}

// InitiateRequest contains the parameters for starting a payment.
type InitiateRequest struct {
	OrderReference string
	Amount         string
	Currency       string
	Channel        string
}

// Initiate creates the payment in pending state and asks the gateway to
// start the charge. Re-initiating an existing reference returns the existing
// payment unchanged; the reference is the unique business key.
func (s *PaymentService) Initiate(ctx context.Context, req InitiateRequest) (*domain.Payment, error) {
	ref := domain.NormalizeReference(req.OrderReference)
	if ref == "" {
		return nil, ErrInvalidOrderReference
	}
	if req.Currency == "" {
		return nil, ErrInvalidCurrency
	}

	// Amounts stay strings end to end so the canonical signature string is
	// byte-stable, but they still have to be positive decimals.
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	existing, err := s.paymentRepo.GetByReference(ctx, ref)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	payment := &domain.Payment{
		ID:             uuid.New().String(),
		OrderReference: ref,
		Status:         domain.PaymentStatusPending,
		Amount:         req.Amount,
		Currency:       req.Currency,
		PaymentChannel: req.Channel,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	transactionID, err := s.gateway.Initiate(ctx, signature.Params{
		MerchantCode:   s.cfg.MerchantCode,
		OrderReference: ref,
		Currency:       req.Currency,
		Amount:         req.Amount,
		CallbackURL:    s.cfg.CallbackURL,
	}, req.Channel)
	if err != nil {
		failed := domain.PaymentStatusFailed
		if patchErr := s.paymentRepo.Patch(ctx, ref, repository.PaymentPatch{Status: &failed}); patchErr != nil {
			log.Printf("ERROR: failed to mark payment %s failed after gateway error: %v", ref, patchErr)
		}
		payment.Status = failed
		return payment, err
	}

	initiated := domain.PaymentStatusInitiated
	patch := repository.PaymentPatch{Status: &initiated}
	if transactionID != "" {
		patch.TransactionID = &transactionID
	}
	if err := s.paymentRepo.Patch(ctx, ref, patch); err != nil {
		return nil, err
	}

	payment.Status = initiated
	payment.TransactionID = transactionID
	return payment, nil
}

// GetPayment retrieves a payment by order reference.
func (s *PaymentService) GetPayment(ctx context.Context, ref string) (*domain.Payment, error) {
	ref = domain.NormalizeReference(ref)
	if ref == "" {
		return nil, ErrInvalidOrderReference
	}

	return s.paymentRepo.GetByReference(ctx, ref)
}
