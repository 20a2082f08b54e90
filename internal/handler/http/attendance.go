package handler

import (
	"context"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"net/http"
	"time"
)

//go:generate mockgen -destination=mocks/attendance.go -package=mocks . AttendanceService

type AttendanceService interface {
	// DailyRoster returns deliveries of day
	DailyRoster(ctx context.Context, day time.Time) (*models.DailyRoster, error)
	// MonthlyRoster returns orders overlapping month
	MonthlyRoster(ctx context.Context, month string) ([]models.Order, error)
}

// AttendanceHandler represents HTTP handler for attendance-related requests
type AttendanceHandler struct {
	svc AttendanceService
}

// NewAttendanceHandler creates new AttendanceHandler instance
func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type rosterEntryResponse struct {
	OrderID      uint64 `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Quantity     int    `json:"quantity"`
	MealPlanName string `json:"meal_plan_name"`
}

type dailyCountResponse struct {
	Date       string                `json:"date"`
	Entries    []rosterEntryResponse `json:"entries"`
	TotalCount int                   `json:"total_count"`
}

// DailyCount returns delivery roster and total count of day
// GET /api/attendance/daily?date=YYYY-MM-DD, без даты — сегодня
// 200 — успешная обработка запроса;
// 400 — неверный формат даты;
// 500 — внутренняя ошибка сервера.
func (ah *AttendanceHandler) DailyCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := schedule.Day(time.Now())
		if s := r.URL.Query().Get("date"); s != "" {
			d, err := schedule.ParseDate(s)
			if err != nil {
				writeError(w, err)
				return
			}
			day = d
		}

		roster, err := ah.svc.DailyRoster(r.Context(), day)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := dailyCountResponse{
			Date:       schedule.FormatDate(roster.Date),
			Entries:    make([]rosterEntryResponse, 0, len(roster.Entries)),
			TotalCount: roster.TotalCount,
		}
		for _, e := range roster.Entries {
			resp.Entries = append(resp.Entries, rosterEntryResponse{
				OrderID:      e.OrderID,
				CustomerName: e.CustomerName,
				Quantity:     e.Quantity,
				MealPlanName: e.MealPlanName,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type monthlyOrderResponse struct {
	OrderID       uint64   `json:"order_id"`
	CustomerID    uint64   `json:"customer_id"`
	CustomerName  string   `json:"customer_name"`
	MealPlanName  string   `json:"meal_plan_name"`
	Frequency     string   `json:"frequency"`
	Quantity      int      `json:"quantity"`
	Price         string   `json:"price"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	SelectedDays  []string `json:"selected_days"`
	ParentOrderID *uint64  `json:"parent_order_id"`
}

// MonthlyList returns orders overlapping month with parsed recurrence
// GET /api/attendance/monthly?month=YYYY-MM, без месяца — текущий
// 200 — успешная обработка запроса;
// 400 — неверный формат месяца;
// 500 — внутренняя ошибка сервера.
func (ah *AttendanceHandler) MonthlyList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month == "" {
			month = schedule.MonthOf(time.Now()).String()
		}

		orders, err := ah.svc.MonthlyRoster(r.Context(), month)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]monthlyOrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, monthlyOrderResponse{
				OrderID:       o.ID,
				CustomerID:    o.CustomerID,
				CustomerName:  o.CustomerName,
				MealPlanName:  o.MealPlanName,
				Frequency:     o.Frequency,
				Quantity:      o.Quantity,
				Price:         o.Price.StringFixed(2),
				StartDate:     schedule.FormatDate(o.Recurrence.Start),
				EndDate:       schedule.FormatDate(o.Recurrence.End),
				SelectedDays:  o.Recurrence.Days.Names(),
				ParentOrderID: o.ParentOrderID,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
