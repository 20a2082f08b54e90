package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/rookgm/tiffin/internal/logger"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/repository"
	"github.com/rookgm/tiffin/internal/schedule"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"time"
)

// DefaultFinalizer is finalized_by value used when identity is unknown
const DefaultFinalizer = "system"

// BillingRepository is interface for interacting with order billings
type BillingRepository interface {
	// WithinBillingLock runs fn in transaction holding lock on (orderID, month) key
	WithinBillingLock(ctx context.Context, orderID uint64, month string, fn func(ctx context.Context, tx repository.BillingTx) error) error
	// GetBillings returns billings of orders for month
	GetBillings(ctx context.Context, orderIDs []uint64, month string) ([]models.OrderBilling, error)
}

// BillingService calculates and finalizes order billings
type BillingService struct {
	orders    OrderRepository
	billings  BillingRepository
	retries   uint64
	finalizer string
	now       func() time.Time
}

// BillingOption configures BillingService
type BillingOption func(*BillingService)

// WithConflictRetries sets number of retries of conflicting transaction
func WithConflictRetries(n uint64) BillingOption {
	return func(bs *BillingService) {
		bs.retries = n
	}
}

// WithDefaultFinalizer sets finalized_by used when caller identity is empty
func WithDefaultFinalizer(name string) BillingOption {
	return func(bs *BillingService) {
		if name != "" {
			bs.finalizer = name
		}
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) BillingOption {
	return func(bs *BillingService) {
		bs.now = now
	}
}

// NewBillingService creates new BillingService instance
func NewBillingService(orders OrderRepository, billings BillingRepository, opts ...BillingOption) *BillingService {
	bs := &BillingService{
		orders:    orders,
		billings:  billings,
		retries:   defaultConflictRetries,
		finalizer: DefaultFinalizer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(bs)
	}
	return bs
}

// Calculate computes order billing for month and stores it.
// Finalized billing is returned unchanged.
func (bs *BillingService) Calculate(ctx context.Context, orderID uint64, month string) (*models.OrderBilling, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	_, billing, err := bs.calculate(ctx, orderID, m)
	if err != nil {
		return nil, err
	}

	return billing, nil
}

// calculate is Calculate for parsed month. It also returns the order as it
// was read under the billing lock.
func (bs *BillingService) calculate(ctx context.Context, orderID uint64, m schedule.Month) (*models.Order, *models.OrderBilling, error) {
	var (
		order   *models.Order
		billing *models.OrderBilling
	)
	err := retryOnConflict(ctx, bs.retries, func() error {
		return bs.billings.WithinBillingLock(ctx, orderID, m.String(), func(ctx context.Context, tx repository.BillingTx) error {
			o, b, err := bs.recalculate(ctx, tx, orderID, m)
			if err != nil {
				return err
			}
			order, billing = o, b
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Debug("billing calculated",
		zap.Uint64("order", orderID),
		zap.String("month", m.String()),
		zap.String("status", billing.Status),
		zap.String("amount", billing.Amount.StringFixed(2)))

	return order, billing, nil
}

// recalculate loads order inside tx and applies its prorated amount, so the
// stored amount always matches the order terms read under the lock
func (bs *BillingService) recalculate(ctx context.Context, tx repository.BillingTx, orderID uint64, m schedule.Month) (*models.Order, *models.OrderBilling, error) {
	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if !order.Recurrence.OverlapsMonth(m) {
		return nil, nil, fmt.Errorf("%w: order %d, month %s", models.ErrNotApplicable, order.ID, m)
	}

	billing, err := bs.apply(ctx, tx, order.ID, m.String(), ProratedAmount(*order, m))
	if err != nil {
		return nil, nil, err
	}

	return order, billing, nil
}

// Finalize locks order billing for month. Billing is recalculated first.
// Finalizing finalized billing is no-op, reported by FinalizeResult.AlreadyFinalized.
func (bs *BillingService) Finalize(ctx context.Context, orderID uint64, month, finalizedBy string) (*models.FinalizeResult, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	if finalizedBy == "" {
		finalizedBy = bs.finalizer
	}

	var result models.FinalizeResult

	err = retryOnConflict(ctx, bs.retries, func() error {
		result = models.FinalizeResult{}
		return bs.billings.WithinBillingLock(ctx, orderID, m.String(), func(ctx context.Context, tx repository.BillingTx) error {
			order, _, err := bs.recalculate(ctx, tx, orderID, m)
			if err != nil {
				return err
			}
			result.CustomerID = order.CustomerID

			billing, err := tx.GetBilling(ctx, orderID, m.String())
			if err != nil {
				if errors.Is(err, models.ErrDataNotFound) {
					return fmt.Errorf("billing of order %d for %s is missing after calculation: %w", orderID, m, err)
				}
				return err
			}

			if billing.IsFinalized() {
				result.Billing = *billing
				result.AlreadyFinalized = true
				return nil
			}

			now := bs.now().UTC()
			by := finalizedBy
			billing.Status = models.BillingStatusFinalized
			billing.FinalizedAt = &now
			billing.FinalizedBy = &by

			if err := tx.SaveBilling(ctx, billing); err != nil {
				return err
			}
			result.Billing = *billing
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyFinalized {
		logger.Log.Debug("billing already finalized",
			zap.Uint64("order", orderID),
			zap.String("month", m.String()))
	} else {
		logger.Log.Info("billing finalized",
			zap.Uint64("order", orderID),
			zap.String("month", m.String()),
			zap.String("amount", result.Billing.Amount.StringFixed(2)),
			zap.String("by", finalizedBy))
	}

	summary, err := bs.CustomerFinalization(ctx, result.CustomerID, m.String())
	if err != nil {
		return nil, err
	}
	result.Summary = summary

	return &result, nil
}

// CustomerFinalization counts customer root orders overlapping month and
// how many of them have finalized billing
func (bs *BillingService) CustomerFinalization(ctx context.Context, customerID uint64, month string) (models.FinalizationSummary, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return models.FinalizationSummary{}, err
	}

	orders, err := bs.orders.GetCustomerOrdersForMonth(ctx, customerID, m.String())
	if err != nil {
		return models.FinalizationSummary{}, err
	}

	ids := make([]uint64, 0, len(orders))
	for _, order := range orders {
		if order.IsRoot() && order.Recurrence.OverlapsMonth(m) {
			ids = append(ids, order.ID)
		}
	}

	summary := models.FinalizationSummary{TotalOrders: len(ids)}
	if len(ids) == 0 {
		return summary, nil
	}

	billings, err := bs.billings.GetBillings(ctx, ids, m.String())
	if err != nil {
		return models.FinalizationSummary{}, err
	}

	for _, billing := range billings {
		if billing.IsFinalized() {
			summary.FinalizedOrders++
		}
	}

	return summary, nil
}

// IsCustomerFullyFinalized reports whether every customer root order overlapping
// month is finalized. It is true for customer without orders.
func (bs *BillingService) IsCustomerFullyFinalized(ctx context.Context, customerID uint64, month string) (bool, error) {
	summary, err := bs.CustomerFinalization(ctx, customerID, month)
	if err != nil {
		return false, err
	}
	return summary.AllFinalized(), nil
}

// RefreshMonth recalculates billings of all orders overlapping month.
// It returns number of calculated billings.
func (bs *BillingService) RefreshMonth(ctx context.Context, month string) (int, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return 0, err
	}

	orders, err := bs.orders.GetOrdersForMonth(ctx, m.String())
	if err != nil {
		return 0, err
	}

	n := 0
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, _, err := bs.calculate(ctx, order.ID, m); err != nil {
			logger.Log.Error("refresh billing",
				zap.Uint64("order", order.ID),
				zap.String("month", m.String()),
				zap.Error(err))
			continue
		}
		n++
	}

	return n, nil
}

// apply creates or updates billing in calculating status. Finalized billing
// is returned as is.
func (bs *BillingService) apply(ctx context.Context, tx repository.BillingTx, orderID uint64, month string, amount decimal.Decimal) (*models.OrderBilling, error) {
	cur, err := tx.GetBilling(ctx, orderID, month)
	if err != nil && !errors.Is(err, models.ErrDataNotFound) {
		return nil, err
	}
	if cur != nil && cur.IsFinalized() {
		return cur, nil
	}

	billing := &models.OrderBilling{
		OrderID:      orderID,
		BillingMonth: month,
		Status:       models.BillingStatusCalculating,
		Amount:       amount,
	}
	if err := tx.SaveBilling(ctx, billing); err != nil {
		return nil, err
	}

	return billing, nil
}

// ProratedAmount returns order charge for month.
//
// The order price covers the period of the meal plan frequency:
//   - monthly: price × quantity × billed / nominal, nominal is the number of
//     pattern days in the whole month;
//   - weekly: price × quantity × billed / pattern days per week;
//   - daily: price × quantity × billed.
//
// Unknown frequency is billed as monthly. The result is rounded to cents.
func ProratedAmount(order models.Order, m schedule.Month) decimal.Decimal {
	rec := order.Recurrence

	from, to, ok := rec.Window(m)
	if !ok {
		return decimal.Zero
	}
	billed := rec.Occurrences(from, to)

	base := order.Price.Mul(decimal.NewFromInt(int64(order.Quantity)))
	occurrences := decimal.NewFromInt(int64(billed))

	var amount decimal.Decimal
	switch order.Frequency {
	case models.FrequencyDaily:
		amount = base.Mul(occurrences)
	case models.FrequencyWeekly:
		amount = base.Mul(occurrences).Div(decimal.NewFromInt(int64(rec.Days.Len())))
	default:
		nominal := rec.NominalOccurrences(m)
		if nominal == 0 {
			return decimal.Zero
		}
		amount = base.Mul(occurrences).Div(decimal.NewFromInt(int64(nominal)))
	}

	return amount.Round(2)
}
