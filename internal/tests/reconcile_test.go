package tests

import (
	"context"
	"testing"
	"time"

	"lnmbpay/internal/domain"
	"lnmbpay/internal/service"
)

func addPaidPayment(repo *MockPaymentRepository, ref string) {
	repo.AddPayment(&domain.Payment{
		ID:             "pay-" + ref,
		OrderReference: ref,
		Status:         domain.PaymentStatusPaid,
		Amount:         "100",
		Currency:       "KES",
		CreatedAt:      time.Now().Add(-2 * time.Hour),
		UpdatedAt:      time.Now().Add(-time.Hour),
	})
}

func TestReconcile_RepairsUnpaidOrders(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	orderRepo := NewMockOrderRepository()

	addPaidPayment(paymentRepo, "ORD1") // order unpaid -> reconciled
	addPaidPayment(paymentRepo, "ORD2") // order already paid -> skipped
	paymentRepo.AddPayment(&domain.Payment{
		ID: "pay-ORD3", OrderReference: "ORD3", Status: domain.PaymentStatusPending,
	}) // not paid -> not in scope

	orderRepo.AddOrder(&domain.Order{ID: "ord-1", OrderReference: "ORD1"})
	orderRepo.AddOrder(&domain.Order{ID: "ord-2", OrderReference: "ORD2", Paid: true})
	orderRepo.AddOrder(&domain.Order{ID: "ord-3", OrderReference: "ORD3"})

	svc := service.NewReconciliationService(paymentRepo, orderRepo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reconciled != 1 {
		t.Errorf("reconciled = %d, want 1", result.Reconciled)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}

	if !orderRepo.GetOrder("ORD1").Paid {
		t.Error("ORD1 should have been marked paid")
	}
	if orderRepo.GetOrder("ORD3").Paid {
		t.Error("ORD3 must not be touched: its payment is not paid")
	}
}

func TestReconcile_SecondRunIsANoOp(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	orderRepo := NewMockOrderRepository()

	addPaidPayment(paymentRepo, "ORD1")
	addPaidPayment(paymentRepo, "ORD2")
	orderRepo.AddOrder(&domain.Order{ID: "ord-1", OrderReference: "ORD1"})
	orderRepo.AddOrder(&domain.Order{ID: "ord-2", OrderReference: "ORD2"})

	svc := service.NewReconciliationService(paymentRepo, orderRepo)
	ctx := context.Background()

	first, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Reconciled != 2 {
		t.Fatalf("first run reconciled = %d, want 2", first.Reconciled)
	}

	firstPatchCount := orderRepo.PatchCallCount
	updatedAt := orderRepo.GetOrder("ORD1").UpdatedAt

	second, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Reconciled != 0 {
		t.Errorf("second run reconciled = %d, want 0", second.Reconciled)
	}
	if second.Skipped != 2 {
		t.Errorf("second run skipped = %d, want 2", second.Skipped)
	}
	if orderRepo.PatchCallCount != firstPatchCount {
		t.Error("second run must not issue any order patches")
	}
	if !orderRepo.GetOrder("ORD1").UpdatedAt.Equal(updatedAt) {
		t.Error("second run must leave orders untouched")
	}
}

func TestReconcile_MissingOrderIsSkippedWithDiagnostic(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	orderRepo := NewMockOrderRepository()
	addPaidPayment(paymentRepo, "ORPHAN")

	svc := service.NewReconciliationService(paymentRepo, orderRepo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one diagnostic", result.Errors)
	}
}

func TestReconcile_FallsBackToFullScan(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentRepo.ListByStatusUnsupported = true
	orderRepo := NewMockOrderRepository()

	addPaidPayment(paymentRepo, "ORD1")
	paymentRepo.AddPayment(&domain.Payment{
		ID: "pay-ORD2", OrderReference: "ORD2", Status: domain.PaymentStatusFailed,
	})
	orderRepo.AddOrder(&domain.Order{ID: "ord-1", OrderReference: "ORD1"})

	svc := service.NewReconciliationService(paymentRepo, orderRepo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reconciled != 1 {
		t.Errorf("reconciled = %d, want 1 via the full-scan fallback", result.Reconciled)
	}
}

func TestReconcile_PatchErrorsAreCollectedAndSweepContinues(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	orderRepo := NewMockOrderRepository()
	orderRepo.PatchError = ErrMockTimeout

	addPaidPayment(paymentRepo, "ORD1")
	addPaidPayment(paymentRepo, "ORD2")
	orderRepo.AddOrder(&domain.Order{ID: "ord-1", OrderReference: "ORD1"})
	orderRepo.AddOrder(&domain.Order{ID: "ord-2", OrderReference: "ORD2"})

	svc := service.NewReconciliationService(paymentRepo, orderRepo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("patch errors must not abort the sweep: %v", err)
	}

	if result.Reconciled != 0 {
		t.Errorf("reconciled = %d, want 0", result.Reconciled)
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v, want one per failed patch", result.Errors)
	}
}
