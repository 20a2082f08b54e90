package models

import (
	"github.com/rookgm/tiffin/internal/schedule"
	"github.com/shopspring/decimal"
)

// meal plan frequency, sets the period the order price covers
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Order is subscription order entity, read from the order directory
type Order struct {
	ID            uint64
	CustomerID    uint64
	CustomerName  string
	MealPlanName  string
	Frequency     string
	Quantity      int
	Price         decimal.Decimal
	Recurrence    schedule.Recurrence
	ParentOrderID *uint64
}

// IsRoot reports whether order is not a renewal of another order
func (o Order) IsRoot() bool {
	return o.ParentOrderID == nil || *o.ParentOrderID == 0
}

// Customer is customer directory entity
type Customer struct {
	ID   uint64
	Name string
}
