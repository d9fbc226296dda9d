package loader

import "github.com/Carmen-Shannon/oxy-pano/engine/logger"

// LoadingManagerOption is a functional option for configuring a LoadingManager.
type LoadingManagerOption func(*loadingManager)

// WithOnStart sets the callback run when a new batch begins.
func WithOnStart(fn func(url string)) LoadingManagerOption {
	return func(m *loadingManager) {
		m.onStart = fn
	}
}

// WithOnLoad sets the callback run when every item of a batch has ended.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - LoadingManagerOption: a function that sets the callback
func WithOnLoad(fn func()) LoadingManagerOption {
	return func(m *loadingManager) {
		m.onLoad = fn
	}
}

// WithOnProgress sets the callback run after each item ends.
//
// Parameters:
//   - fn: receives the item url and the batch counters
//
// Returns:
//   - LoadingManagerOption: a function that sets the callback
func WithOnProgress(fn func(url string, loaded, total int)) LoadingManagerOption {
	return func(m *loadingManager) {
		m.onProgress = fn
	}
}

// WithOnError sets the callback run when an item fails.
func WithOnError(fn func(url string, err error)) LoadingManagerOption {
	return func(m *loadingManager) {
		m.onError = fn
	}
}

// WithManagerLogger sets the logger for progress and failure diagnostics.
func WithManagerLogger(l *logger.Logger) LoadingManagerOption {
	return func(m *loadingManager) {
		if l != nil {
			m.log = l
		}
	}
}
