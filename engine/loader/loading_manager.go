package loader

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

// Progress is a snapshot of a LoadingManager.
type Progress struct {
	// Max is the number of items started in the current batch.
	Max int
	// Value is the number of those items that have ended, successfully or not.
	Value int
	// On reports whether the batch is still loading.
	On bool
}

// LoadingManager tracks a batch of asynchronous loads and reports when all of them have ended.
// A batch starts with the first ItemStart after the manager was idle and ends when every started
// item has ended; the counters then reset for the next batch.
// Callbacks run on the goroutine that ends the item, outside the manager's lock.
type LoadingManager interface {
	// ItemStart registers a load that has begun.
	//
	// Parameters:
	//   - url: the path or URL being loaded
	ItemStart(url string)

	// ItemEnd registers a load that finished successfully.
	//
	// Parameters:
	//   - url: the path or URL that was loaded
	ItemEnd(url string)

	// ItemError registers a load that failed. The item counts as ended.
	//
	// Parameters:
	//   - url: the path or URL that failed
	//   - err: the failure
	ItemError(url string, err error)

	// Loading reports whether any started item has not ended yet.
	Loading() bool

	// Progress returns the current batch counters.
	Progress() Progress
}

type loadingManager struct {
	mu *sync.Mutex

	log *logger.Logger

	total   int
	loaded  int
	loading bool

	onStart    func(url string)
	onLoad     func()
	onProgress func(url string, loaded, total int)
	onError    func(url string, err error)
}

var _ LoadingManager = &loadingManager{}

// NewLoadingManager creates an idle LoadingManager.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - LoadingManager: the new manager
func NewLoadingManager(options ...LoadingManagerOption) LoadingManager {
	m := &loadingManager{
		mu:  &sync.Mutex{},
		log: logger.Nop(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *loadingManager) ItemStart(url string) {
	m.mu.Lock()
	m.total++
	first := !m.loading
	m.loading = true
	onStart := m.onStart
	m.mu.Unlock()

	if first && onStart != nil {
		onStart(url)
	}
}

func (m *loadingManager) ItemEnd(url string) {
	m.end(url)
}

func (m *loadingManager) ItemError(url string, err error) {
	m.log.Errorw("failed to load", "url", url, "error", err)
	m.mu.Lock()
	onError := m.onError
	m.mu.Unlock()
	if onError != nil {
		onError(url, err)
	}
	m.end(url)
}

func (m *loadingManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *loadingManager) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Progress{Max: m.total, Value: m.loaded, On: m.loading}
}

// --- internal helpers ---

func (m *loadingManager) end(url string) {
	m.mu.Lock()
	if !m.loading {
		m.mu.Unlock()
		m.log.Warnw("item ended without a matching start", "url", url)
		return
	}
	m.loaded++
	loaded, total := m.loaded, m.total
	done := m.loaded >= m.total
	if done {
		m.loaded, m.total, m.loading = 0, 0, false
	}
	onProgress, onLoad := m.onProgress, m.onLoad
	m.mu.Unlock()

	m.log.Debugw("loading", "url", url, "loaded", loaded, "total", total)
	if onProgress != nil {
		onProgress(url, loaded, total)
	}
	if done {
		m.log.Debugw("loading complete", "items", total)
		if onLoad != nil {
			onLoad()
		}
	}
}
