package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to.
func WithLogger(l *logger.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.log = l.Named("profiler")
		}
	}
}

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - d: the interval, ignored if not positive
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
