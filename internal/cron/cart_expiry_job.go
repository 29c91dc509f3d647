package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/kofimensah/emporium-backend/pkg/logger"
	"github.com/kofimensah/emporium-backend/pkg/metrics"
)

const emptyCartGraceDays = 1

// cartPurger is the persistence surface the expiry job needs.
type cartPurger interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteEmptyBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartExpiryJobParams configure the idle-cart cleanup job. Metrics may
// be nil.
type CartExpiryJobParams struct {
	Logger    *logger.Logger
	Carts     cartPurger
	Metrics   *metrics.CronMetrics
	Retention time.Duration
}

// NewCartExpiryJob builds the job that drops carts idle past the
// retention window and sweeps up empty cart rows.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart purger required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &cartExpiryJob{
		logg:      params.Logger,
		carts:     params.Carts,
		metrics:   params.Metrics,
		retention: params.Retention,
		now:       time.Now,
	}, nil
}

type cartExpiryJob struct {
	logg      *logger.Logger
	carts     cartPurger
	metrics   *metrics.CronMetrics
	retention time.Duration
	now       func() time.Time
}

func (j *cartExpiryJob) Name() string { return "cart-expiry" }

func (j *cartExpiryJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.purgeIdleCarts(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.purgeEmptyCarts(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *cartExpiryJob) purgeIdleCarts(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	count, err := j.carts.DeleteIdleBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete idle carts: %w", err)
	}
	j.metrics.AddCartsPurged(metrics.PurgeReasonIdle, count)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "cutoff": cutoff})
	j.logg.Info(logCtx, "idle cart purge complete")
	return nil
}

func (j *cartExpiryJob) purgeEmptyCarts(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-emptyCartGraceDays * 24 * time.Hour)
	count, err := j.carts.DeleteEmptyBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete empty carts: %w", err)
	}
	j.metrics.AddCartsPurged(metrics.PurgeReasonEmpty, count)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "cutoff": cutoff})
	j.logg.Info(logCtx, "empty cart sweep complete")
	return nil
}
