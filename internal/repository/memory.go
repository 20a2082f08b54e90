package repository

import (
	"context"
	"errors"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"sort"
	"sync"
	"time"
)

// MemoryOrderRepository is in-process order directory
type MemoryOrderRepository struct {
	mu        sync.RWMutex
	orders    map[uint64]models.Order
	customers map[uint64]models.Customer
}

// NewMemoryOrderRepository creates empty MemoryOrderRepository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:    make(map[uint64]models.Order),
		customers: make(map[uint64]models.Customer),
	}
}

// PutCustomer adds or replaces customer
func (r *MemoryOrderRepository) PutCustomer(c models.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
}

// PutOrder adds or replaces order, customer name is taken from known customers
func (r *MemoryOrderRepository) PutOrder(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[o.CustomerID]; ok && o.CustomerName == "" {
		o.CustomerName = c.Name
	}
	r.orders[o.ID] = o
}

// GetOrderByID returns order by id
func (r *MemoryOrderRepository) GetOrderByID(_ context.Context, id uint64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &o, nil
}

// GetActiveOrders returns orders whose date range contains day
func (r *MemoryOrderRepository) GetActiveOrders(_ context.Context, day time.Time) ([]models.Order, error) {
	day = schedule.Day(day)
	return r.filter(func(o models.Order) bool {
		return !day.Before(o.Recurrence.Start) && !day.After(o.Recurrence.End)
	}), nil
}

// GetOrdersForMonth returns orders whose date range overlaps month
func (r *MemoryOrderRepository) GetOrdersForMonth(_ context.Context, month string) ([]models.Order, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return r.filter(func(o models.Order) bool {
		return o.Recurrence.OverlapsMonth(m)
	}), nil
}

// GetCustomerOrdersForMonth returns customer root orders overlapping month
func (r *MemoryOrderRepository) GetCustomerOrdersForMonth(_ context.Context, customerID uint64, month string) ([]models.Order, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return r.filter(func(o models.Order) bool {
		return o.CustomerID == customerID && o.IsRoot() && o.Recurrence.OverlapsMonth(m)
	}), nil
}

// GetCustomerByID returns customer by id
func (r *MemoryOrderRepository) GetCustomerByID(_ context.Context, id uint64) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &c, nil
}

func (r *MemoryOrderRepository) filter(keep func(o models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range r.orders {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})
	return orders
}

type billingKey struct {
	orderID uint64
	month   string
}

// OrderGetter loads order by id
type OrderGetter interface {
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
}

// keyLock is mutex of one billing key, refs counts holders and waiters
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// MemoryBillingRepository is in-process order_billings store
type MemoryBillingRepository struct {
	orders OrderGetter

	mu       sync.RWMutex
	billings map[billingKey]models.OrderBilling

	locksMu sync.Mutex
	locks   map[billingKey]*keyLock
}

// NewMemoryBillingRepository creates empty MemoryBillingRepository.
// Orders are read from orders inside billing transactions, nil orders means
// no order is found.
func NewMemoryBillingRepository(orders OrderGetter) *MemoryBillingRepository {
	return &MemoryBillingRepository{
		orders:   orders,
		billings: make(map[billingKey]models.OrderBilling),
		locks:    make(map[billingKey]*keyLock),
	}
}

// WithinBillingLock runs fn holding per key lock. Writes made by fn are
// applied only when fn returns nil.
func (r *MemoryBillingRepository) WithinBillingLock(ctx context.Context, orderID uint64, month string, fn func(ctx context.Context, tx BillingTx) error) error {
	key := billingKey{orderID: orderID, month: month}

	unlock := r.lockKey(key)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryBillingTx{repo: r, staged: make(map[billingKey]models.OrderBilling)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, b := range tx.staged {
		r.billings[k] = b
	}

	return nil
}

// GetBillings returns billings of orders for month, missing billings are skipped
func (r *MemoryBillingRepository) GetBillings(_ context.Context, orderIDs []uint64, month string) ([]models.OrderBilling, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	billings := []models.OrderBilling{}
	for _, id := range orderIDs {
		if b, ok := r.billings[billingKey{orderID: id, month: month}]; ok {
			billings = append(billings, b)
		}
	}
	sort.Slice(billings, func(i, j int) bool {
		return billings[i].OrderID < billings[j].OrderID
	})
	return billings, nil
}

// lockKey locks key and returns its unlock func. Lock of key is dropped
// when its last holder unlocks it.
func (r *MemoryBillingRepository) lockKey(key billingKey) func() {
	r.locksMu.Lock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &keyLock{}
		r.locks[key] = lock
	}
	lock.refs++
	r.locksMu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		r.locksMu.Lock()
		defer r.locksMu.Unlock()
		lock.refs--
		if lock.refs == 0 {
			delete(r.locks, key)
		}
	}
}

type memoryBillingTx struct {
	repo   *MemoryBillingRepository
	staged map[billingKey]models.OrderBilling
}

func (t *memoryBillingTx) GetOrder(ctx context.Context, orderID uint64) (*models.Order, error) {
	if t.repo.orders == nil {
		return nil, models.ErrDataNotFound
	}
	return t.repo.orders.GetOrderByID(ctx, orderID)
}

func (t *memoryBillingTx) GetBilling(_ context.Context, orderID uint64, month string) (*models.OrderBilling, error) {
	key := billingKey{orderID: orderID, month: month}
	if b, ok := t.staged[key]; ok {
		return &b, nil
	}

	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()
	b, ok := t.repo.billings[key]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &b, nil
}

func (t *memoryBillingTx) SaveBilling(ctx context.Context, billing *models.OrderBilling) error {
	cur, err := t.GetBilling(ctx, billing.OrderID, billing.BillingMonth)
	now := time.Now().UTC()
	switch {
	case err == nil:
		if cur.IsFinalized() {
			return models.ErrConflictData
		}
		billing.CreatedAt = cur.CreatedAt
	case errors.Is(err, models.ErrDataNotFound):
		billing.CreatedAt = now
	default:
		return err
	}
	billing.UpdatedAt = now

	t.staged[billingKey{orderID: billing.OrderID, month: billing.BillingMonth}] = *billing
	return nil
}
