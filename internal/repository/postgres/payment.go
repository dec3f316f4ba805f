package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lnmbpay/internal/domain"
	"lnmbpay/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, order_reference, status, transaction_id, payment_channel, amount, currency, created_at, updated_at`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_reference, status, transaction_id, payment_channel, amount, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.OrderReference,
		payment.Status,
		payment.TransactionID,
		payment.PaymentChannel,
		payment.Amount,
		payment.Currency,
	)

	return err
}

// GetByReference retrieves a payment by its order reference.
func (r *PaymentRepository) GetByReference(ctx context.Context, ref string) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE order_reference = $1`, paymentColumns)

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// Patch applies a partial update to the payment with the given reference.
// Only non-nil fields are written; updated_at is always bumped.
func (r *PaymentRepository) Patch(ctx context.Context, ref string, patch repository.PaymentPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{ref}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.TransactionID != nil {
		args = append(args, *patch.TransactionID)
		sets = append(sets, fmt.Sprintf("transaction_id = $%d", len(args)))
	}
	if patch.PaymentChannel != nil {
		args = append(args, *patch.PaymentChannel)
		sets = append(sets, fmt.Sprintf("payment_channel = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE payments SET %s WHERE order_reference = $1`, strings.Join(sets, ", "))

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByStatus returns all payments in the given status. The status column
// is indexed, so this never falls back to a full scan on Postgres.
func (r *PaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE status = $1 ORDER BY created_at`, paymentColumns)

	rows, err := r.q.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// List returns all payments.
func (r *PaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments ORDER BY created_at`, paymentColumns)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var transactionID, paymentChannel sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.OrderReference,
		&payment.Status,
		&transactionID,
		&paymentChannel,
		&payment.Amount,
		&payment.Currency,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.TransactionID = transactionID.String
	payment.PaymentChannel = paymentChannel.String
	return &payment, nil
}

func collectPayments(rows *sql.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
