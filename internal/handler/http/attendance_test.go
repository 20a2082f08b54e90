package handler

import (
	"encoding/json"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/tiffin/internal/handler/http/mocks"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAttendanceHandler_DailyCount(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setup          func(t *testing.T) *mocks.MockAttendanceService
		wantStatusCode int
		wantBody       *dailyCountResponse
	}{
		{
			// 200 — успешная обработка запроса
			name:  "valid_request_return_200",
			query: "?date=2024-06-03",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().DailyRoster(gomock.Any(), day).Return(&models.DailyRoster{
					Date: day,
					Entries: []models.RosterEntry{
						{OrderID: 1, CustomerName: "Asha", MealPlanName: "Veg Lunch", Quantity: 2},
						{OrderID: 4, CustomerName: "Ravi", MealPlanName: "Thali", Quantity: 1},
					},
					TotalCount: 3,
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &dailyCountResponse{
				Date: "2024-06-03",
				Entries: []rosterEntryResponse{
					{OrderID: 1, CustomerName: "Asha", MealPlanName: "Veg Lunch", Quantity: 2},
					{OrderID: 4, CustomerName: "Ravi", MealPlanName: "Thali", Quantity: 1},
				},
				TotalCount: 3,
			},
		},
		{
			// 200 — нет доставок
			name:  "no_deliveries_return_200",
			query: "?date=2024-06-03",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().DailyRoster(gomock.Any(), day).Return(&models.DailyRoster{Date: day}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &dailyCountResponse{
				Date:       "2024-06-03",
				Entries:    []rosterEntryResponse{},
				TotalCount: 0,
			},
		},
		{
			// 400 — неверный формат даты
			name:  "invalid_date_return_400",
			query: "?date=03.06.2024",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().DailyRoster(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 500 — внутренняя ошибка сервера
			name:  "internal_error_return_500",
			query: "?date=2024-06-03",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().DailyRoster(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/attendance/daily"+tt.query, nil)
			w := httptest.NewRecorder()

			handler := NewAttendanceHandler(tt.setup(t))
			h := handler.DailyCount()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

				var got dailyCountResponse
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestAttendanceHandler_MonthlyList(t *testing.T) {
	parentID := uint64(1)
	rec, err := schedule.NewRecurrence(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		schedule.NewDays(time.Monday, time.Wednesday, time.Friday),
	)
	require.NoError(t, err)

	tests := []struct {
		name           string
		query          string
		setup          func(t *testing.T) *mocks.MockAttendanceService
		wantStatusCode int
		wantBody       []monthlyOrderResponse
	}{
		{
			// 200 — успешная обработка запроса
			name:  "valid_request_return_200",
			query: "?month=2024-06",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().MonthlyRoster(gomock.Any(), "2024-06").Return([]models.Order{
					{
						ID:            2,
						CustomerID:    7,
						CustomerName:  "Asha",
						MealPlanName:  "Veg Lunch",
						Frequency:     models.FrequencyMonthly,
						Quantity:      2,
						Price:         decimal.RequireFromString("300"),
						Recurrence:    rec,
						ParentOrderID: &parentID,
					},
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []monthlyOrderResponse{
				{
					OrderID:       2,
					CustomerID:    7,
					CustomerName:  "Asha",
					MealPlanName:  "Veg Lunch",
					Frequency:     models.FrequencyMonthly,
					Quantity:      2,
					Price:         "300.00",
					StartDate:     "2024-06-01",
					EndDate:       "2024-06-30",
					SelectedDays:  []string{"Monday", "Wednesday", "Friday"},
					ParentOrderID: &parentID,
				},
			},
		},
		{
			// 200 — заказов нет
			name:  "empty_month_return_200",
			query: "?month=2024-02",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().MonthlyRoster(gomock.Any(), "2024-02").Return(nil, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       []monthlyOrderResponse{},
		},
		{
			// 400 — неверный формат месяца
			name:  "invalid_month_return_400",
			query: "?month=2024-13",
			setup: func(t *testing.T) *mocks.MockAttendanceService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAttendanceService(ctrl)
				svcMock.EXPECT().MonthlyRoster(gomock.Any(), "2024-13").Return(nil, schedule.ErrInvalidMonth)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/attendance/monthly"+tt.query, nil)
			w := httptest.NewRecorder()

			handler := NewAttendanceHandler(tt.setup(t))
			h := handler.MonthlyList()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got []monthlyOrderResponse
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
