package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/tiffin/internal/logger"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/repository/postgres"
	"github.com/rookgm/tiffin/internal/schedule"
	"go.uber.org/zap"
	"time"
)

const (
	selectOrderColumns = `
						SELECT o.id, o.customer_id, c.name, mp.meal_name, mp.frequency, o.quantity, o.price,
						       o.start_date, o.end_date, o.selected_days, o.parent_order_id
						FROM orders o
						JOIN customers c ON c.id = o.customer_id
						JOIN meal_plans mp ON mp.id = o.meal_plan_id
`
	selectOrderByIDQuery = selectOrderColumns + `
						WHERE o.id = $1
`
	// order row is share locked until billing transaction ends
	selectOrderForBillingQuery = selectOrderByIDQuery + `
						FOR SHARE OF o
`
	selectActiveOrdersQuery = selectOrderColumns + `
						WHERE o.start_date <= $1 AND o.end_date >= $1
						ORDER BY c.name, o.id
`
	selectMonthOrdersQuery = selectOrderColumns + `
						WHERE to_char(o.start_date, 'YYYY-MM') <= $1 AND to_char(o.end_date, 'YYYY-MM') >= $1
						ORDER BY c.name, o.id
`
	selectCustomerMonthOrdersQuery = selectOrderColumns + `
						WHERE o.customer_id = $1
						  AND (o.parent_order_id IS NULL OR o.parent_order_id = 0)
						  AND to_char(o.start_date, 'YYYY-MM') <= $2 AND to_char(o.end_date, 'YYYY-MM') >= $2
						ORDER BY o.id
`
	selectCustomerByIDQuery = `
						SELECT id, name FROM customers
						WHERE id = $1
`
)

// OrderRepository reads order directory
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetActiveOrders returns orders whose date range contains day
func (or *OrderRepository) GetActiveOrders(ctx context.Context, day time.Time) ([]models.Order, error) {
	return or.queryOrders(ctx, selectActiveOrdersQuery, schedule.Day(day))
}

// GetOrdersForMonth returns orders whose date range overlaps month
func (or *OrderRepository) GetOrdersForMonth(ctx context.Context, month string) ([]models.Order, error) {
	return or.queryOrders(ctx, selectMonthOrdersQuery, month)
}

// GetCustomerOrdersForMonth returns customer root orders overlapping month
func (or *OrderRepository) GetCustomerOrdersForMonth(ctx context.Context, customerID uint64, month string) ([]models.Order, error) {
	return or.queryOrders(ctx, selectCustomerMonthOrdersQuery, customerID, month)
}

// GetCustomerByID returns customer by id
func (or *OrderRepository) GetCustomerByID(ctx context.Context, id uint64) (*models.Customer, error) {
	customer := models.Customer{}
	err := or.db.QueryRow(ctx, selectCustomerByIDQuery, id).Scan(&customer.ID, &customer.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &customer, nil
}

func (or *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			if errors.Is(err, schedule.ErrInvalidRecurrence) {
				logger.Log.Warn("skip order with invalid recurrence", zap.Error(err))
				continue
			}
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// scanOrder scans order row, selected_days is normalized here
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		start, end   time.Time
		selectedDays string
	)

	err := row.Scan(&order.ID, &order.CustomerID, &order.CustomerName, &order.MealPlanName, &order.Frequency,
		&order.Quantity, &order.Price, &start, &end, &selectedDays, &order.ParentOrderID)
	if err != nil {
		return nil, err
	}

	rec, err := schedule.NewRecurrence(start, end, schedule.ParseDays(selectedDays))
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", order.ID, err)
	}
	order.Recurrence = rec

	return &order, nil
}
