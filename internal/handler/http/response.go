package handler

import (
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/tiffin/internal/logger"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

var errInvalidID = errors.New("invalid id")

// writeJSON writes v as JSON response with status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encode response", zap.Error(err))
	}
}

// writeError maps error to status code and writes plain text response
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInvalidID),
		errors.Is(err, schedule.ErrInvalidMonth),
		errors.Is(err, schedule.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNotApplicable),
		errors.Is(err, schedule.ErrInvalidRecurrence):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrConcurrencyConflict):
		w.Header().Set("Retry-After", "1")
		http.Error(w, "billing is busy, retry later", http.StatusServiceUnavailable)
	default:
		logger.Log.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// idParam extracts numeric route parameter
func idParam(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}

type billingResponse struct {
	OrderID      uint64  `json:"order_id"`
	BillingMonth string  `json:"billing_month"`
	Status       string  `json:"status"`
	Amount       string  `json:"amount"`
	FinalizedAt  *string `json:"finalized_at"`
	FinalizedBy  *string `json:"finalized_by"`
}

func newBillingResponse(b models.OrderBilling) billingResponse {
	resp := billingResponse{
		OrderID:      b.OrderID,
		BillingMonth: b.BillingMonth,
		Status:       b.Status,
		Amount:       b.Amount.StringFixed(2),
		FinalizedBy:  b.FinalizedBy,
	}
	if b.FinalizedAt != nil {
		at := b.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &at
	}
	return resp
}
