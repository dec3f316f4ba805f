package service

import (
	"context"
	"errors"
	"log"

	"lnmbpay/internal/config"
	"lnmbpay/internal/domain"
	"lnmbpay/internal/idempotency"
	"lnmbpay/internal/repository"
	"lnmbpay/internal/signature"
)

// Notification is an authoritative status notification from the gateway.
type Notification struct {
	OrderReference string
	Status         string
	TransactionID  string
	Amount         string
	Channel        string
	Hash           string
}

// Acknowledgement is the outcome reported back to the gateway. The external
// contract is "always acknowledge": every notification terminates in one of
// these, never in an error escalated to the HTTP layer.
type Acknowledgement struct {
	Success   bool
	Message   string
	Duplicate bool
	Reason    string
}

// CallbackService processes authoritative gateway notifications: it
// authenticates them, collapses duplicates, and advances Payment and Order
// state exactly once per logical event.
type CallbackService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	guard       idempotency.Guard
	cfg         config.PaymentConfig
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	guard idempotency.Guard,
	cfg config.PaymentConfig,
) *CallbackService {
	return &CallbackService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		guard:       guard,
		cfg:         cfg,
	}
}

// HandleNotification runs the notification state machine. It never returns
// an error: structural problems, authentication failures, races and store
// failures all collapse into an Acknowledgement so the gateway gets its 200
// and does not retry-storm us.
func (s *CallbackService) HandleNotification(ctx context.Context, n Notification) (ack Acknowledgement) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: callback processing panicked for reference %q: %v", n.OrderReference, r)
			ack = Acknowledgement{Success: false, Message: "internal error"}
		}
	}()

	if n.OrderReference == "" || n.Status == "" {
		log.Printf("WARN: callback missing required fields (reference=%q, status=%q)", n.OrderReference, n.Status)
		return Acknowledgement{Success: false, Message: "orderReference and status are required"}
	}

	ref := domain.NormalizeReference(n.OrderReference)

	payment, err := s.paymentRepo.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Expected race: the gateway can notify before the local payment
			// record exists. The reconciliation sweep or a retry closes it.
			log.Printf("INFO: callback for unknown payment %s, may arrive later", ref)
			return Acknowledgement{Success: true, Message: "payment not found, may arrive later"}
		}
		log.Printf("ERROR: callback lookup failed for %s: %v", ref, err)
		return Acknowledgement{Success: false, Message: "temporary failure"}
	}

	amount := n.Amount
	if amount == "" {
		amount = payment.Amount
	}

	authentic := signature.Verify(signature.Params{
		MerchantCode:   s.cfg.MerchantCode,
		OrderReference: n.OrderReference,
		Currency:       payment.Currency,
		Amount:         amount,
		CallbackURL:    s.cfg.CallbackURL,
	}, n.Hash)
	if !authentic {
		// Audit line for security review; the caller only gets a generic
		// reason, never whether the digest was missing or mismatched.
		log.Printf("SECURITY: callback signature verification failed for %s (txn=%q)", ref, n.TransactionID)
		return Acknowledgement{Success: false, Reason: "signature verification failed"}
	}

	claimed, err := s.guard.TryClaim(ctx, idempotency.Key(ref, n.TransactionID), s.cfg.IdempotencyTTL)
	if err != nil {
		// Fail open: reprocessing an already applied status is a no-op under
		// the monotonic rule, so availability wins over strict dedupe here.
		log.Printf("WARN: idempotency claim failed for %s, processing anyway: %v", ref, err)
		claimed = true
	}
	if !claimed {
		return Acknowledgement{Success: true, Duplicate: true, Message: "duplicate notification"}
	}

	next := domain.Normalize(n.Status)
	if payment.Status == next || !domain.CanTransition(payment.Status, next) {
		log.Printf("INFO: notification for %s keeps status %s (gateway sent %q), nothing to apply", ref, payment.Status, n.Status)
		return Acknowledgement{Success: true, Message: "status already applied"}
	}

	// The request may be aborted by the caller at any point, but once the
	// notification is authenticated the Payment/Order writes must be allowed
	// to finish together or the two records drift.
	writeCtx := context.WithoutCancel(ctx)

	patch := repository.PaymentPatch{Status: &next}
	if n.TransactionID != "" {
		patch.TransactionID = &n.TransactionID
	}
	if n.Channel != "" {
		patch.PaymentChannel = &n.Channel
	}

	if err := s.paymentRepo.Patch(writeCtx, ref, patch); err != nil {
		log.Printf("ERROR: failed to patch payment %s to %s: %v", ref, next, err)
		return Acknowledgement{Success: false, Message: "failed to update payment"}
	}

	if next == domain.PaymentStatusPaid {
		s.markOrderPaid(writeCtx, ref)
	}

	return Acknowledgement{Success: true}
}

// markOrderPaid flips the linked order to paid. A missing order or a failed
// patch is logged and tolerated; the reconciliation sweep closes the gap.
func (s *CallbackService) markOrderPaid(ctx context.Context, ref string) {
	order, err := s.orderRepo.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: payment %s is paid but no order exists yet, reconciliation will repair", ref)
		} else {
			log.Printf("ERROR: order lookup failed for %s: %v", ref, err)
		}
		return
	}

	if order.Paid {
		return
	}

	paid := true
	if err := s.orderRepo.Patch(ctx, ref, repository.OrderPatch{Paid: &paid}); err != nil {
		log.Printf("ERROR: failed to mark order %s paid, reconciliation will repair: %v", ref, err)
	}
}
