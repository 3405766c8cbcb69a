package sampler

import (
	"context"
	"time"

	"github.com/signalsfoundry/mostlyharmless/internal/logging"
	"github.com/signalsfoundry/mostlyharmless/internal/observability"
	"github.com/signalsfoundry/mostlyharmless/timectrl"
)

// Listener adapts Sample to a timectrl tick. Failed samples are already
// logged and counted by Sample, so the loop simply moves on.
func (s *Sampler) Listener() timectrl.Listener {
	return func(ctx context.Context, _ int, now time.Time) {
		_, _ = s.Sample(ctx, now)
	}
}

// Run drives s from ctrl until duration elapses or ctx is cancelled and
// returns the number of completed samples. Cancellation is not an error.
func Run(ctx context.Context, s *Sampler, ctrl *timectrl.Controller, duration time.Duration, clockMetrics *observability.ClockCollector) (int, error) {
	sample := s.Listener()
	ctrl.AddListener(func(ctx context.Context, tick int, now time.Time) {
		clockMetrics.ObserveTick(tick, ctrl.StartTime(), now, ctrl.Interval, duration)
		sample(ctx, tick, now)
	})

	s.log.Info(ctx, "sampling run starting",
		logging.Duration("duration", duration),
		logging.Duration("interval", ctrl.Interval),
	)
	err := ctrl.Run(ctx, duration)
	photos := s.Photos()
	s.log.Info(ctx, "sampling run finished",
		logging.Int("ticks", ctrl.Ticks()),
		logging.Int("photos", photos),
	)
	if err != nil && ctx.Err() == nil {
		return photos, err
	}
	return photos, nil
}
