// Package loadertest provides an in-memory loader.Loader for tests.
package loadertest

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
)

// Pixel is the 1x1 opaque white image returned for paths without explicit data.
var Pixel = common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}

// Stub answers loads from memory and counts them per path.
// With Hold set, LoadAsync callbacks queue until Flush, which mimics loads finishing later.
type Stub struct {
	mu sync.Mutex

	data map[string]common.TextureStagingData
	errs map[string]error

	hold    bool
	calls   map[string]int
	pending []func()
	closed  bool
}

var _ loader.Loader = &Stub{}

// New returns an empty Stub that resolves every path to Pixel.
func New() *Stub {
	return &Stub{
		data:  make(map[string]common.TextureStagingData),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// SetData makes path resolve to d.
func (s *Stub) SetData(path string, d common.TextureStagingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[path] = d
}

// SetError makes path fail with err.
func (s *Stub) SetError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[path] = err
}

// Hold toggles whether LoadAsync defers callbacks until Flush.
func (s *Stub) Hold(hold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = hold
}

// Calls returns how many loads were requested for path.
func (s *Stub) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Flush runs every deferred callback and returns how many ran.
func (s *Stub) Flush() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Closed reports whether Close was called.
func (s *Stub) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stub) Load(ctx context.Context, path string) (common.TextureStagingData, error) {
	if err := ctx.Err(); err != nil {
		return common.TextureStagingData{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[path]++
	return s.result(path)
}

func (s *Stub) LoadAsync(path string, done func(common.TextureStagingData, error)) {
	s.mu.Lock()
	s.calls[path]++
	data, err := s.result(path)
	run := func() {
		if done != nil {
			done(data, err)
		}
	}
	if s.hold {
		s.pending = append(s.pending, run)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	run()
}

func (s *Stub) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// result must be called with the lock held.
func (s *Stub) result(path string) (common.TextureStagingData, error) {
	if err, ok := s.errs[path]; ok {
		return common.TextureStagingData{}, err
	}
	if d, ok := s.data[path]; ok {
		return d, nil
	}
	return Pixel, nil
}
