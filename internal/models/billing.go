package models

import (
	"github.com/shopspring/decimal"
	"time"
)

// calculating — сумма рассчитана и может быть пересчитана;
// finalized — сумма зафиксирована, запись больше не меняется.

// billing status
const (
	BillingStatusCalculating = "calculating"
	BillingStatusFinalized   = "finalized"
)

// OrderBilling is billing of one order for one billing month
type OrderBilling struct {
	OrderID      uint64
	BillingMonth string
	Status       string
	Amount       decimal.Decimal
	FinalizedAt  *time.Time
	FinalizedBy  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFinalized reports whether billing is locked
func (b OrderBilling) IsFinalized() bool {
	return b.Status == BillingStatusFinalized
}

// FinalizationSummary is finalization progress of customer orders for a month
type FinalizationSummary struct {
	TotalOrders     int
	FinalizedOrders int
}

// AllFinalized reports whether every order is finalized, true for no orders
func (s FinalizationSummary) AllFinalized() bool {
	return s.FinalizedOrders == s.TotalOrders
}

// InvoiceLine is order with its billing
type InvoiceLine struct {
	Order   Order
	Billing OrderBilling
}

// Invoice is combined customer invoice for a month, it is never stored
type Invoice struct {
	CustomerID   uint64
	CustomerName string
	BillingMonth string
	Lines        []InvoiceLine
	Summary      FinalizationSummary
	GrandTotal   decimal.Decimal
}

// AllFinalized reports whether invoice can be issued
func (i Invoice) AllFinalized() bool {
	return i.Summary.AllFinalized()
}

// RosterEntry is a delivery on a day
type RosterEntry struct {
	OrderID      uint64
	CustomerName string
	MealPlanName string
	Quantity     int
}

// DailyRoster contains deliveries of a day
type DailyRoster struct {
	Date       time.Time
	Entries    []RosterEntry
	TotalCount int
}

// FinalizeResult is result of billing finalization
type FinalizeResult struct {
	Billing          OrderBilling
	CustomerID       uint64
	AlreadyFinalized bool
	Summary          FinalizationSummary
}
