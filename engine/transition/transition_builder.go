package transition

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*manager)

// WithLoadingManager sets the manager Loading and Progress read from. Pass the one the scene reports to.
//
// Parameters:
//   - l: the loading manager
//
// Returns:
//   - ManagerOption: option function to apply
func WithLoadingManager(l loader.LoadingManager) ManagerOption {
	return func(m *manager) {
		m.loading = l
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *logger.Logger) ManagerOption {
	return func(m *manager) {
		if l != nil {
			m.log = l.Named("transition")
		}
	}
}
