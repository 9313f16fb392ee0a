package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/coronelbarros/storefront/pkg/logger"
)

const defaultCartIdleTTL = 2 * time.Hour

type cartSweeper interface {
	SweepIdle(now time.Time, ttl time.Duration) int
	Len() int
}

type sweepRecorder interface {
	AddSwept(n int)
	SetActiveCarts(n int)
}

type CartSweepJobParams struct {
	Logger  *logger.Logger
	Carts   cartSweeper
	Metrics sweepRecorder
	IdleTTL time.Duration
}

// NewCartSweepJob evicts carts whose session has been idle longer than IdleTTL.
func NewCartSweepJob(params CartSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	ttl := params.IdleTTL
	if ttl <= 0 {
		ttl = defaultCartIdleTTL
	}
	return &cartSweepJob{
		logg:    params.Logger,
		carts:   params.Carts,
		metrics: params.Metrics,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

type cartSweepJob struct {
	logg    *logger.Logger
	carts   cartSweeper
	metrics sweepRecorder
	ttl     time.Duration
	now     func() time.Time
}

func (j *cartSweepJob) Name() string { return "cart-idle-sweep" }

func (j *cartSweepJob) Run(ctx context.Context) error {
	removed := j.carts.SweepIdle(j.now(), j.ttl)
	remaining := j.carts.Len()
	if j.metrics != nil {
		j.metrics.AddSwept(removed)
		j.metrics.SetActiveCarts(remaining)
	}
	if removed > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"idle_ttl":      j.ttl.String(),
			"carts_removed": removed,
			"carts_active":  remaining,
		})
		j.logg.Info(logCtx, "idle carts swept")
	}
	return nil
}
