package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lnmbpay/internal/domain"
	"lnmbpay/internal/repository"
)

// ReconciliationResult summarises a sweep run.
type ReconciliationResult struct {
	Reconciled int      `json:"reconciled"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

// ReconciliationService repairs orders left unpaid by ordering races: a
// webhook can settle a payment before its order exists, or the order patch
// can fail after the payment patch succeeded. The sweep only reads payments
// and writes orders, never payments, and is idempotent by construction.
type ReconciliationService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) *ReconciliationService {
	return &ReconciliationService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

// Run scans all paid payments and marks any linked order that is not yet
// paid. Counts are for observability, not control flow; a second run over
// the same data reconciles nothing.
func (s *ReconciliationService) Run(ctx context.Context) (*ReconciliationResult, error) {
	payments, err := s.listPaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("list paid payments: %w", err)
	}

	result := &ReconciliationResult{Errors: []string{}}

	for _, payment := range payments {
		ref := payment.OrderReference

		order, err := s.orderRepo.GetByReference(ctx, ref)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("no order found for paid payment %s", ref))
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("order lookup failed for %s: %v", ref, err))
			continue
		}

		if order.Paid {
			result.Skipped++
			continue
		}

		paid := true
		if err := s.orderRepo.Patch(ctx, ref, repository.OrderPatch{Paid: &paid}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to mark order %s paid: %v", ref, err))
			continue
		}
		result.Reconciled++
	}

	log.Printf("[reconciliation] swept %d paid payments: reconciled=%d, skipped=%d, errors=%d",
		len(payments), result.Reconciled, result.Skipped, len(result.Errors))

	return result, nil
}

// listPaid prefers the status-indexed query and falls back to a full scan
// with a filter for backends that cannot serve it.
func (s *ReconciliationService) listPaid(ctx context.Context) ([]*domain.Payment, error) {
	payments, err := s.paymentRepo.ListByStatus(ctx, domain.PaymentStatusPaid)
	if err == nil {
		return payments, nil
	}
	if !errors.Is(err, repository.ErrNotSupported) {
		return nil, err
	}

	all, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	paid := make([]*domain.Payment, 0, len(all))
	for _, p := range all {
		if p.Status == domain.PaymentStatusPaid {
			paid = append(paid, p)
		}
	}
	return paid, nil
}
