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

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// GetByReference retrieves an order by its order reference.
func (r *OrderRepository) GetByReference(ctx context.Context, ref string) (*domain.Order, error) {
	query := `
		SELECT id, order_reference, paid, total_amount, created_at, updated_at
		FROM orders WHERE order_reference = $1
	`

	var order domain.Order
	err := r.q.QueryRowContext(ctx, query, ref).Scan(
		&order.ID,
		&order.OrderReference,
		&order.Paid,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// Patch applies a partial update to the order with the given reference.
func (r *OrderRepository) Patch(ctx context.Context, ref string, patch repository.OrderPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{ref}

	if patch.Paid != nil {
		args = append(args, *patch.Paid)
		sets = append(sets, fmt.Sprintf("paid = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE order_reference = $1`, strings.Join(sets, ", "))

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
