package system

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/input"
)

// MaxTickElapsed caps the elapsed time fed to one tick after a stall
const MaxTickElapsed = 250 * time.Millisecond

// SignalSource supplies the command signal sampled at each tick
type SignalSource interface {
	Snapshot() input.Signal
}

// Run ticks the simulation every interval until ctx is done
// Elapsed time is measured on the simulation clock and capped at MaxTickElapsed
func (s *Simulation) Run(ctx context.Context, interval time.Duration, source SignalSource) error {
	if interval <= 0 {
		return errors.Errorf("system: invalid tick interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.clock.Now()
	s.logger.Info("simulation loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation loop stopped", "ticks", s.tick)
			return ctx.Err()
		case <-ticker.C:
			now := s.clock.Now()
			elapsed := now.Sub(last)
			last = now
			if elapsed > MaxTickElapsed {
				elapsed = MaxTickElapsed
			}

			var sig input.Signal
			if source != nil {
				sig = source.Snapshot()
			}
			s.Tick(elapsed, sig)
		}
	}
}
