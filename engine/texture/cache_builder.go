package texture

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

// CacheOption is a functional option for configuring a Cache.
type CacheOption func(*cache)

// WithLogger sets the logger for cache misses and load failures.
func WithLogger(l *logger.Logger) CacheOption {
	return func(c *cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSampler sets the sampler configuration given to every cached texture.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - CacheOption: a function that sets the sampler
func WithSampler(s common.SamplerStagingData) CacheOption {
	return func(c *cache) {
		c.sampler = s
	}
}
