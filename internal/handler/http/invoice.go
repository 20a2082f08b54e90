package handler

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/tiffin/internal/models"
	"net/http"
)

//go:generate mockgen -destination=mocks/invoice.go -package=mocks . InvoiceService

type InvoiceService interface {
	// BuildInvoice returns combined invoice of customer orders for month
	BuildInvoice(ctx context.Context, customerID uint64, month string) (*models.Invoice, error)
}

// InvoiceHandler represents HTTP handler for invoice requests
type InvoiceHandler struct {
	svc InvoiceService
}

// NewInvoiceHandler creates new InvoiceHandler instance
func NewInvoiceHandler(svc InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

type invoiceLineResponse struct {
	OrderID      uint64          `json:"order_id"`
	MealPlanName string          `json:"meal_plan_name"`
	Quantity     int             `json:"quantity"`
	Billing      billingResponse `json:"billing"`
}

type invoiceResponse struct {
	CustomerID      uint64                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	BillingMonth    string                `json:"billing_month"`
	Orders          []invoiceLineResponse `json:"orders"`
	AllFinalized    bool                  `json:"all_finalized"`
	TotalOrders     int                   `json:"total_orders"`
	FinalizedOrders int                   `json:"finalized_orders"`
	GrandTotal      string                `json:"grand_total"`
}

// GetCustomerInvoice returns combined customer invoice for month.
// Invoice may be issued only when all_finalized is true.
// GET /api/billing/customers/{customerID}/{month}/invoice
// 200 — успешная обработка запроса;
// 400 — неверный номер клиента или месяц;
// 404 — клиент не найден;
// 503 — конкурентное изменение, повторите запрос;
// 500 — внутренняя ошибка сервера.
func (ih *InvoiceHandler) GetCustomerInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := idParam(r, "customerID")
		if err != nil {
			writeError(w, err)
			return
		}

		invoice, err := ih.svc.BuildInvoice(r.Context(), customerID, chi.URLParam(r, "month"))
		if err != nil {
			writeError(w, err)
			return
		}

		resp := invoiceResponse{
			CustomerID:      invoice.CustomerID,
			CustomerName:    invoice.CustomerName,
			BillingMonth:    invoice.BillingMonth,
			Orders:          make([]invoiceLineResponse, 0, len(invoice.Lines)),
			AllFinalized:    invoice.AllFinalized(),
			TotalOrders:     invoice.Summary.TotalOrders,
			FinalizedOrders: invoice.Summary.FinalizedOrders,
			GrandTotal:      invoice.GrandTotal.StringFixed(2),
		}
		for _, line := range invoice.Lines {
			resp.Orders = append(resp.Orders, invoiceLineResponse{
				OrderID:      line.Order.ID,
				MealPlanName: line.Order.MealPlanName,
				Quantity:     line.Order.Quantity,
				Billing:      newBillingResponse(line.Billing),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
