package repository

import (
	"context"
	"github.com/rookgm/tiffin/internal/models"
	"github.com/rookgm/tiffin/internal/repository/postgres"
	"github.com/rookgm/tiffin/internal/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"testing"
	"time"
)

// newTestDB starts postgres container and applies migrations
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres tests are skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tiffin_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate())

	return db
}

// seedOrder inserts customer, meal plan and order, returns order id
func seedOrder(t *testing.T, db *postgres.DB, start, end, days, price string) uint64 {
	t.Helper()
	ctx := context.Background()

	var customerID, planID, orderID uint64
	err := db.QueryRow(ctx, `INSERT INTO customers (name) VALUES ('Asha') RETURNING id`).Scan(&customerID)
	require.NoError(t, err)
	err = db.QueryRow(ctx, `INSERT INTO meal_plans (meal_name, frequency) VALUES ('Veg Thali', 'monthly') RETURNING id`).Scan(&planID)
	require.NoError(t, err)
	err = db.QueryRow(ctx, `
		INSERT INTO orders (customer_id, meal_plan_id, quantity, price, start_date, end_date, selected_days)
		VALUES ($1, $2, 2, $3::numeric, $4::date, $5::date, $6)
		RETURNING id`, customerID, planID, price, start, end, days).Scan(&orderID)
	require.NoError(t, err)

	return orderID
}

func TestPostgresStore(t *testing.T) {
	db := newTestDB(t)
	billings := NewBillingRepository(db)
	orders := NewOrderRepository(db)

	t.Run("get_order_in_billing_tx", func(t *testing.T) {
		ctx := context.Background()
		orderID := seedOrder(t, db, "2024-06-10", "2024-06-25", `["Monday","Wednesday","Friday"]`, "300")

		err := billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
			order, err := tx.GetOrder(ctx, orderID)
			require.NoError(t, err)
			assert.Equal(t, "Asha", order.CustomerName)
			assert.Equal(t, "Veg Thali", order.MealPlanName)
			assert.True(t, order.Price.Equal(decimal.NewFromInt(300)))
			assert.Equal(t, schedule.NewDays(time.Monday, time.Wednesday, time.Friday), order.Recurrence.Days)

			_, err = tx.GetOrder(ctx, orderID+1000)
			assert.ErrorIs(t, err, models.ErrDataNotFound)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("finalized_billing_is_not_overwritten", func(t *testing.T) {
		ctx := context.Background()
		orderID := seedOrder(t, db, "2024-06-01", "2024-06-30", "", "300")
		at := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
		by := "manager"

		err := billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
			return tx.SaveBilling(ctx, &models.OrderBilling{
				OrderID:      orderID,
				BillingMonth: "2024-06",
				Status:       models.BillingStatusCalculating,
				Amount:       decimal.RequireFromString("350"),
			})
		})
		require.NoError(t, err)

		err = billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
			b, err := tx.GetBilling(ctx, orderID, "2024-06")
			if err != nil {
				return err
			}
			b.Status = models.BillingStatusFinalized
			b.FinalizedAt = &at
			b.FinalizedBy = &by
			return tx.SaveBilling(ctx, b)
		})
		require.NoError(t, err)

		err = billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
			return tx.SaveBilling(ctx, &models.OrderBilling{
				OrderID:      orderID,
				BillingMonth: "2024-06",
				Status:       models.BillingStatusCalculating,
				Amount:       decimal.RequireFromString("900"),
			})
		})
		assert.ErrorIs(t, err, models.ErrConflictData)

		got, err := billings.GetBillings(ctx, []uint64{orderID}, "2024-06")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.BillingStatusFinalized, got[0].Status)
		assert.Equal(t, "350.00", got[0].Amount.StringFixed(2))
		require.NotNil(t, got[0].FinalizedAt)
		assert.True(t, at.Equal(*got[0].FinalizedAt))
		require.NotNil(t, got[0].FinalizedBy)
		assert.Equal(t, "manager", *got[0].FinalizedBy)
	})

	t.Run("same_key_is_serialized", func(t *testing.T) {
		ctx := context.Background()
		orderID := seedOrder(t, db, "2024-06-01", "2024-06-30", "", "300")

		entered := make(chan struct{})
		release := make(chan struct{})
		firstDone := make(chan error, 1)
		go func() {
			firstDone <- billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
				err := tx.SaveBilling(ctx, &models.OrderBilling{
					OrderID:      orderID,
					BillingMonth: "2024-06",
					Status:       models.BillingStatusCalculating,
					Amount:       decimal.RequireFromString("100"),
				})
				close(entered)
				<-release
				return err
			})
		}()
		<-entered

		secondDone := make(chan *models.OrderBilling, 1)
		go func() {
			var seen *models.OrderBilling
			err := billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
				b, err := tx.GetBilling(ctx, orderID, "2024-06")
				seen = b
				return err
			})
			assert.NoError(t, err)
			secondDone <- seen
		}()

		select {
		case <-secondDone:
			t.Fatal("second transaction entered locked key")
		case <-time.After(200 * time.Millisecond):
		}

		close(release)
		require.NoError(t, <-firstDone)

		seen := <-secondDone
		require.NotNil(t, seen)
		assert.Equal(t, "100.00", seen.Amount.StringFixed(2))
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		ctx := context.Background()
		orderID := seedOrder(t, db, "2024-06-01", "2024-06-30", "", "300")

		err := billings.WithinBillingLock(ctx, orderID, "2024-06", func(ctx context.Context, tx BillingTx) error {
			if err := tx.SaveBilling(ctx, &models.OrderBilling{
				OrderID:      orderID,
				BillingMonth: "2024-06",
				Status:       models.BillingStatusCalculating,
				Amount:       decimal.RequireFromString("100"),
			}); err != nil {
				return err
			}
			return models.ErrNotApplicable
		})
		assert.ErrorIs(t, err, models.ErrNotApplicable)

		got, err := billings.GetBillings(ctx, []uint64{orderID}, "2024-06")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid_recurrence_row_is_skipped", func(t *testing.T) {
		ctx := context.Background()
		goodID := seedOrder(t, db, "2023-03-01", "2023-03-31", "", "300")
		badID := seedOrder(t, db, "2023-03-01", "2023-03-31", "", "300")

		_, err := db.Exec(ctx, `ALTER TABLE orders DROP CONSTRAINT orders_check`)
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = db.Exec(context.Background(), `DELETE FROM orders WHERE end_date < start_date`)
			_, _ = db.Exec(context.Background(), `ALTER TABLE orders ADD CHECK (end_date >= start_date)`)
		})
		_, err = db.Exec(ctx, `UPDATE orders SET start_date = '2023-03-20', end_date = '2023-03-10' WHERE id = $1`, badID)
		require.NoError(t, err)

		got, err := orders.GetOrdersForMonth(ctx, "2023-03")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, goodID, got[0].ID)

		_, err = orders.GetOrderByID(ctx, badID)
		assert.ErrorIs(t, err, schedule.ErrInvalidRecurrence)
	})
}
