package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
	"github.com/ridehub/ridehub-api/internal/pkg/push"
)

// BalanceLister lists drivers below a wallet balance threshold
type BalanceLister interface {
	ListBelowBalance(ctx context.Context, threshold int64) ([]*driver.Driver, error)
}

// LowBalanceJob reminds active drivers whose wallet balance has
// dropped below the configured threshold to top up.
type LowBalanceJob struct {
	drivers   BalanceLister
	push      *push.FCMClient
	threshold int64
	currency  string
}

// NewLowBalanceJob creates a low balance sweep job
func NewLowBalanceJob(drivers BalanceLister, fcm *push.FCMClient, threshold int64, currency string) *LowBalanceJob {
	if threshold <= 0 {
		threshold = 5000 // Default 50.00 in minor units
	}
	return &LowBalanceJob{
		drivers:   drivers,
		push:      fcm,
		threshold: threshold,
		currency:  currency,
	}
}

// Start starts the sweep with the given interval
func (j *LowBalanceJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Low balance sweep stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *LowBalanceJob) run(ctx context.Context) {
	notified, err := j.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Low balance sweep failed")
		return
	}
	if notified > 0 {
		log.Info().
			Int("notified", notified).
			Int64("threshold", j.threshold).
			Msg("Low balance reminders sent")
	}
}

// RunOnce runs the sweep once (for manual trigger or testing).
// Returns the number of drivers notified.
func (j *LowBalanceJob) RunOnce(ctx context.Context) (int, error) {
	drivers, err := j.drivers.ListBelowBalance(ctx, j.threshold)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, d := range drivers {
		if !d.DeviceToken.Valid {
			continue
		}
		j.push.SendAsync(&push.PushMessage{
			Token: d.DeviceToken.String,
			Title: "Low wallet balance",
			Body: fmt.Sprintf("Your wallet balance is %.2f %s. Top up to keep accepting rides.",
				float64(d.WalletBalance)/100, j.currency),
			Data: map[string]string{"balance": fmt.Sprintf("%d", d.WalletBalance)},
		})
		notified++
	}

	return notified, nil
}
