package service

import (
	"context"
	"errors"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"github.com/shopspring/decimal"
)

// InvoiceService combines customer order billings into invoice
type InvoiceService struct {
	orders  OrderRepository
	billing *BillingService
}

// NewInvoiceService creates new InvoiceService instance
func NewInvoiceService(orders OrderRepository, billing *BillingService) *InvoiceService {
	return &InvoiceService{
		orders:  orders,
		billing: billing,
	}
}

// BuildInvoice returns combined invoice of customer root orders for month.
// Every billing is calculated before it is read. The invoice is returned
// whether or not all billings are finalized.
func (is *InvoiceService) BuildInvoice(ctx context.Context, customerID uint64, month string) (*models.Invoice, error) {
	m, err := schedule.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	customer, err := is.orders.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	orders, err := is.orders.GetCustomerOrdersForMonth(ctx, customerID, m.String())
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		BillingMonth: m.String(),
		Lines:        []models.InvoiceLine{},
		GrandTotal:   decimal.Zero,
	}

	for _, order := range orders {
		// renewals are billed through their root order
		if !order.IsRoot() || !order.Recurrence.OverlapsMonth(m) {
			continue
		}

		current, billing, err := is.billing.calculate(ctx, order.ID, m)
		if err != nil {
			// order was edited out of month or removed after listing
			if errors.Is(err, models.ErrNotApplicable) || errors.Is(err, models.ErrDataNotFound) {
				continue
			}
			return nil, err
		}
		if !current.IsRoot() || current.CustomerID != customer.ID {
			continue
		}

		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			Order:   *current,
			Billing: *billing,
		})
		invoice.Summary.TotalOrders++
		if billing.IsFinalized() {
			invoice.Summary.FinalizedOrders++
		}
		invoice.GrandTotal = invoice.GrandTotal.Add(billing.Amount)
	}

	return &invoice, nil
}
