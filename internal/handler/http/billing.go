package handler

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/tiffin/internal/middleware"
	"github.com/rookgm/tiffin/internal/models"
	"io"
	"net/http"
	"strings"
)

//go:generate mockgen -destination=mocks/billing.go -package=mocks . BillingService

type BillingService interface {
	// Calculate computes order billing for month and stores it
	Calculate(ctx context.Context, orderID uint64, month string) (*models.OrderBilling, error)
	// Finalize locks order billing for month
	Finalize(ctx context.Context, orderID uint64, month, finalizedBy string) (*models.FinalizeResult, error)
	// CustomerFinalization returns finalization progress of customer orders
	CustomerFinalization(ctx context.Context, customerID uint64, month string) (models.FinalizationSummary, error)
}

// BillingHandler represents HTTP handler for billing-related requests
type BillingHandler struct {
	svc BillingService
}

// NewBillingHandler creates new BillingHandler instance
func NewBillingHandler(svc BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// GetOrderBilling calculates and returns order billing for month
// GET /api/billing/orders/{orderID}/{month}
// 200 — успешная обработка запроса;
// 400 — неверный номер заказа или месяц;
// 404 — заказ не найден;
// 422 — месяц вне периода заказа;
// 503 — конкурентное изменение, повторите запрос;
// 500 — внутренняя ошибка сервера.
func (bh *BillingHandler) GetOrderBilling() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "orderID")
		if err != nil {
			writeError(w, err)
			return
		}

		billing, err := bh.svc.Calculate(r.Context(), orderID, chi.URLParam(r, "month"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newBillingResponse(*billing))
	}
}

type finalizeRequest struct {
	FinalizedBy string `json:"finalized_by"`
}

type finalizeResponse struct {
	Billing            billingResponse `json:"billing"`
	AlreadyFinalized   bool            `json:"already_finalized"`
	AllOrdersFinalized bool            `json:"all_orders_finalized"`
	TotalOrders        int             `json:"total_orders"`
	FinalizedOrders    int             `json:"finalized_orders"`
}

// FinalizeBilling finalizes order billing for month
// POST /api/billing/orders/{orderID}/{month}/finalize
// {"finalized_by": "<name>"}, тело необязательно
// 200 — успешная обработка запроса, в том числе повторная;
// 400 — неверный формат запроса;
// 404 — заказ не найден;
// 422 — месяц вне периода заказа;
// 503 — конкурентное изменение, повторите запрос;
// 500 — внутренняя ошибка сервера.
func (bh *BillingHandler) FinalizeBilling() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "orderID")
		if err != nil {
			writeError(w, err)
			return
		}

		var req finalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		finalizedBy := strings.TrimSpace(req.FinalizedBy)
		if finalizedBy == "" {
			finalizedBy, _ = middleware.IdentityFromContext(r.Context())
		}

		res, err := bh.svc.Finalize(r.Context(), orderID, chi.URLParam(r, "month"), finalizedBy)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, finalizeResponse{
			Billing:            newBillingResponse(res.Billing),
			AlreadyFinalized:   res.AlreadyFinalized,
			AllOrdersFinalized: res.Summary.AllFinalized(),
			TotalOrders:        res.Summary.TotalOrders,
			FinalizedOrders:    res.Summary.FinalizedOrders,
		})
	}
}

type customerStatusResponse struct {
	CustomerID         uint64 `json:"customer_id"`
	BillingMonth       string `json:"billing_month"`
	AllOrdersFinalized bool   `json:"all_orders_finalized"`
	TotalOrders        int    `json:"total_orders"`
	FinalizedOrders    int    `json:"finalized_orders"`
}

// GetCustomerStatus returns finalization progress of customer orders for month
// GET /api/billing/customers/{customerID}/{month}/status
// 200 — успешная обработка запроса;
// 400 — неверный номер клиента или месяц;
// 500 — внутренняя ошибка сервера.
func (bh *BillingHandler) GetCustomerStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := idParam(r, "customerID")
		if err != nil {
			writeError(w, err)
			return
		}
		month := chi.URLParam(r, "month")

		summary, err := bh.svc.CustomerFinalization(r.Context(), customerID, month)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, customerStatusResponse{
			CustomerID:         customerID,
			BillingMonth:       month,
			AllOrdersFinalized: summary.AllFinalized(),
			TotalOrders:        summary.TotalOrders,
			FinalizedOrders:    summary.FinalizedOrders,
		})
	}
}
