package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/repository/postgres"
)

// postgres error codes
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
)

const (
	setLockTimeoutQuery = `SET LOCAL lock_timeout = '5s'`
	lockBillingQuery    = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	selectBillingQuery = `
						SELECT order_id, billing_month, status, amount, finalized_at, finalized_by, created_at, updated_at
						FROM order_billings
						WHERE order_id = $1 AND billing_month = $2
`
	// finalized rows are never overwritten
	upsertBillingQuery = `
						INSERT INTO order_billings (order_id, billing_month, status, amount, finalized_at, finalized_by)
						VALUES ($1, $2, $3, $4, $5, $6)
						ON CONFLICT (order_id, billing_month) DO UPDATE
						SET status = EXCLUDED.status,
						    amount = EXCLUDED.amount,
						    finalized_at = EXCLUDED.finalized_at,
						    finalized_by = EXCLUDED.finalized_by,
						    updated_at = now()
						WHERE order_billings.status <> 'finalized'
						RETURNING created_at, updated_at
`
	selectBillingsQuery = `
						SELECT order_id, billing_month, status, amount, finalized_at, finalized_by, created_at, updated_at
						FROM order_billings
						WHERE billing_month = $1 AND order_id = ANY($2)
						ORDER BY order_id
`
)

// BillingTx reads and writes order billing inside locked transaction
type BillingTx interface {
	// GetOrder returns order or models.ErrDataNotFound. Order edits wait
	// until transaction ends.
	GetOrder(ctx context.Context, orderID uint64) (*models.Order, error)
	// GetBilling returns billing or models.ErrDataNotFound
	GetBilling(ctx context.Context, orderID uint64, month string) (*models.OrderBilling, error)
	// SaveBilling inserts or updates billing
	SaveBilling(ctx context.Context, billing *models.OrderBilling) error
}

// BillingRepository is order_billings store
type BillingRepository struct {
	db *postgres.DB
}

// NewBillingRepository creates new BillingRepository instance
func NewBillingRepository(db *postgres.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// WithinBillingLock runs fn in transaction holding lock on (orderID, month) key.
// Lock contention and serialization errors are returned as models.ErrConcurrencyConflict.
func (br *BillingRepository) WithinBillingLock(ctx context.Context, orderID uint64, month string, fn func(ctx context.Context, tx BillingTx) error) error {
	err := br.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, setLockTimeoutQuery); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, lockBillingQuery, billingLockKey(orderID, month)); err != nil {
			return err
		}
		return fn(ctx, &billingTx{tx: tx})
	})

	return mapConflict(err)
}

// GetBillings returns billings of orders for month, missing billings are skipped
func (br *BillingRepository) GetBillings(ctx context.Context, orderIDs []uint64, month string) ([]models.OrderBilling, error) {
	ids := make([]int64, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, int64(id))
	}

	rows, err := br.db.Query(ctx, selectBillingsQuery, month, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	billings := []models.OrderBilling{}

	for rows.Next() {
		billing, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		billings = append(billings, *billing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return billings, nil
}

type billingTx struct {
	tx pgx.Tx
}

func (bt *billingTx) GetOrder(ctx context.Context, orderID uint64) (*models.Order, error) {
	order, err := scanOrder(bt.tx.QueryRow(ctx, selectOrderForBillingQuery, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (bt *billingTx) GetBilling(ctx context.Context, orderID uint64, month string) (*models.OrderBilling, error) {
	billing, err := scanBilling(bt.tx.QueryRow(ctx, selectBillingQuery, orderID, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return billing, nil
}

func (bt *billingTx) SaveBilling(ctx context.Context, billing *models.OrderBilling) error {
	err := bt.tx.QueryRow(ctx, upsertBillingQuery,
		billing.OrderID, billing.BillingMonth, billing.Status, billing.Amount,
		billing.FinalizedAt, billing.FinalizedBy).Scan(&billing.CreatedAt, &billing.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// row is finalized
			return models.ErrConflictData
		}
		return err
	}

	return nil
}

func scanBilling(row pgx.Row) (*models.OrderBilling, error) {
	billing := models.OrderBilling{}
	err := row.Scan(&billing.OrderID, &billing.BillingMonth, &billing.Status, &billing.Amount,
		&billing.FinalizedAt, &billing.FinalizedBy, &billing.CreatedAt, &billing.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &billing, nil
}

func billingLockKey(orderID uint64, month string) string {
	return fmt.Sprintf("order_billings:%d:%s", orderID, month)
}

// mapConflict converts retryable postgres errors to models.ErrConcurrencyConflict
func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	switch postgres.ErrorCode(err) {
	case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
		return fmt.Errorf("%w: %v", models.ErrConcurrencyConflict, err)
	}

	return err
}
