package worker

import (
	"context"
	"github.com/rookgm/tiffin/internal/logger"
	"github.com/rookgm/tiffin/internal/schedule"
	"go.uber.org/zap"
	"time"
)

type BillingService interface {
	RefreshMonth(ctx context.Context, month string) (int, error)
}

// BillingRefresher is worker recalculates billings of current month
type BillingRefresher struct {
	svc      BillingService
	interval time.Duration
	now      func() time.Time
}

// NewBillingRefresher create new billing refresher
func NewBillingRefresher(svc BillingService, interval time.Duration) *BillingRefresher {
	return &BillingRefresher{svc: svc, interval: interval, now: time.Now}
}

// Run refreshes billings on every tick until ctx is done
func (br *BillingRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(br.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("billing refresher is done")
			return
		case <-ticker.C:
			br.refresh(ctx)
		}
	}
}

func (br *BillingRefresher) refresh(ctx context.Context) {
	month := schedule.MonthOf(br.now()).String()

	n, err := br.svc.RefreshMonth(ctx, month)
	if err != nil {
		logger.Log.Error("error refresh billings", zap.String("month", month), zap.Error(err))
		return
	}
	logger.Log.Debug("billings refreshed", zap.String("month", month), zap.Int("count", n))
}
