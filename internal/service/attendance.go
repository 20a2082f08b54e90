package service

import (
	"context"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"time"
)

// OrderRepository is interface for reading the order directory
type OrderRepository interface {
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
	// GetActiveOrders returns orders whose date range contains day
	GetActiveOrders(ctx context.Context, day time.Time) ([]models.Order, error)
	// GetOrdersForMonth returns orders whose date range overlaps month
	GetOrdersForMonth(ctx context.Context, month string) ([]models.Order, error)
	// GetCustomerOrdersForMonth returns customer root orders overlapping month
	GetCustomerOrdersForMonth(ctx context.Context, customerID uint64, month string) ([]models.Order, error)
	// GetCustomerByID returns customer by id
	GetCustomerByID(ctx context.Context, id uint64) (*models.Customer, error)
}

// AttendanceService builds delivery rosters
type AttendanceService struct {
	repo OrderRepository
}

// NewAttendanceService creates new AttendanceService instance
func NewAttendanceService(repo OrderRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

// DailyRoster returns deliveries of day
func (as *AttendanceService) DailyRoster(ctx context.Context, day time.Time) (*models.DailyRoster, error) {
	orders, err := as.repo.GetActiveOrders(ctx, day)
	if err != nil {
		return nil, err
	}

	roster := BuildDailyRoster(day, orders)
	return &roster, nil
}

// MonthlyRoster returns orders overlapping month
func (as *AttendanceService) MonthlyRoster(ctx context.Context, month string) ([]models.Order, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	orders, err := as.repo.GetOrdersForMonth(ctx, m.String())
	if err != nil {
		return nil, err
	}

	return FilterMonthOrders(m, orders), nil
}

// BuildDailyRoster makes roster of orders delivering on day.
// Orders are expected to be active on day, the recurrence is checked anyway
// because the directory filters by date range only.
func BuildDailyRoster(day time.Time, orders []models.Order) models.DailyRoster {
	roster := models.DailyRoster{
		Date:    schedule.Day(day),
		Entries: []models.RosterEntry{},
	}

	for _, order := range orders {
		if !order.Recurrence.DeliversOn(day) {
			continue
		}
		roster.Entries = append(roster.Entries, models.RosterEntry{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			MealPlanName: order.MealPlanName,
			Quantity:     order.Quantity,
		})
		roster.TotalCount += order.Quantity
	}

	return roster
}

// FilterMonthOrders keeps orders whose recurrence overlaps month
func FilterMonthOrders(m schedule.Month, orders []models.Order) []models.Order {
	filtered := []models.Order{}
	for _, order := range orders {
		if order.Recurrence.OverlapsMonth(m) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}
