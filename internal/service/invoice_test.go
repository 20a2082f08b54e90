package service

import (
	"context"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestInvoiceService_BuildInvoice(t *testing.T) {
	parent := uint64(20)
	orders := []models.Order{
		newOrder(t, orderOpts{id: 20, customerID: 1, start: "2024-07-01", end: "2024-07-31", price: "3100"}),
		// 2024-07-15..31 has Mondays 15,22,29 and Tuesdays 16,23,30; July has 5 Mondays and 5 Tuesdays
		newOrder(t, orderOpts{id: 21, customerID: 1, start: "2024-07-15", end: "2024-08-15", days: "Mon,Tue", price: "1000"}),
		newOrder(t, orderOpts{id: 22, customerID: 1, start: "2024-07-20", end: "2024-08-20", price: "3100", parentID: &parent}),
		newOrder(t, orderOpts{id: 30, customerID: 2, start: "2024-07-01", end: "2024-07-31", price: "3100"}),
	}
	billing, _, _ := newTestBillingService(t, orders...)
	svc := NewInvoiceService(billing.orders, billing)
	ctx := context.Background()

	invoice, err := svc.BuildInvoice(ctx, 1, "2024-07")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), invoice.CustomerID)
	assert.Equal(t, "Asha", invoice.CustomerName)
	assert.Equal(t, "2024-07", invoice.BillingMonth)
	require.Len(t, invoice.Lines, 2)
	assert.Equal(t, uint64(20), invoice.Lines[0].Order.ID)
	assert.Equal(t, uint64(21), invoice.Lines[1].Order.ID)
	assert.Equal(t, "3100.00", invoice.Lines[0].Billing.Amount.StringFixed(2))
	assert.Equal(t, "600.00", invoice.Lines[1].Billing.Amount.StringFixed(2))
	assert.Equal(t, "3700.00", invoice.GrandTotal.StringFixed(2))
	assert.False(t, invoice.AllFinalized())
	assert.Equal(t, models.FinalizationSummary{TotalOrders: 2, FinalizedOrders: 0}, invoice.Summary)

	_, err = billing.Finalize(ctx, 20, "2024-07", "manager")
	require.NoError(t, err)
	_, err = billing.Finalize(ctx, 21, "2024-07", "manager")
	require.NoError(t, err)

	invoice, err = svc.BuildInvoice(ctx, 1, "2024-07")
	require.NoError(t, err)
	assert.True(t, invoice.AllFinalized())
	assert.Equal(t, "3700.00", invoice.GrandTotal.StringFixed(2))

	done, err := billing.IsCustomerFullyFinalized(ctx, 1, "2024-07")
	require.NoError(t, err)
	assert.Equal(t, done, invoice.AllFinalized())
}

func TestInvoiceService_BuildInvoice_NoOrders(t *testing.T) {
	billing, _, _ := newTestBillingService(t)
	svc := NewInvoiceService(billing.orders, billing)

	invoice, err := svc.BuildInvoice(context.Background(), 2, "2024-07")
	require.NoError(t, err)
	assert.Empty(t, invoice.Lines)
	assert.True(t, invoice.GrandTotal.IsZero())
	assert.Equal(t, 0, invoice.Summary.TotalOrders)
	assert.True(t, invoice.AllFinalized())
}

func TestInvoiceService_BuildInvoice_UnknownCustomer(t *testing.T) {
	billing, _, _ := newTestBillingService(t)
	svc := NewInvoiceService(billing.orders, billing)

	_, err := svc.BuildInvoice(context.Background(), 42, "2024-07")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
