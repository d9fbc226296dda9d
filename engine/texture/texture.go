// Package texture holds CPU-side texture handles and the icon texture cache.
package texture

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
)

// State is the lifecycle stage of a Texture.
type State int

const (
	// StatePending means the image is still being fetched or decoded.
	StatePending State = iota
	// StateReady means staging pixels are available for upload.
	StateReady
	// StateFailed means the load failed; Err holds the cause.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

var textureCount atomic.Uint64

type textureImpl struct {
	mu *sync.Mutex

	id   uint64
	path string

	state    State
	err      error
	staging  common.TextureStagingData
	sampler  common.SamplerStagingData
	uploaded bool

	provider bind_group_provider.BindGroupProvider
}

// Texture is a handle to an image that may still be loading. It exists from the moment a load is
// requested, so scene objects can hold it immediately and start drawing once it becomes ready.
type Texture interface {
	// ID returns a process-unique identifier.
	ID() uint64

	// Path returns the file path or URL the texture was requested from.
	Path() string

	// State returns the current lifecycle stage.
	State() State

	// Err returns the load error once the texture has failed, nil otherwise.
	Err() error

	// StagingData returns the decoded pixels.
	//
	// Returns:
	//   - common.TextureStagingData: the RGBA8 pixels
	//   - bool: false until the texture is ready
	StagingData() (common.TextureStagingData, bool)

	// Sampler returns the sampler configuration to create alongside the GPU texture.
	Sampler() common.SamplerStagingData

	// BindGroupProvider returns the provider holding the GPU texture, view, sampler and bind group.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Resolve marks the texture ready with decoded pixels. Calls after the first resolution are ignored.
	//
	// Parameters:
	//   - data: the decoded pixels
	Resolve(data common.TextureStagingData)

	// Fail marks the texture failed. Calls after the first resolution are ignored.
	//
	// Parameters:
	//   - err: the load error
	Fail(err error)

	// Uploaded reports whether the GPU copy exists.
	Uploaded() bool

	// MarkUploaded records that the renderer has created the GPU texture and bind group.
	MarkUploaded()

	// Release frees the GPU resources. The staging pixels stay, so the texture can be uploaded again.
	Release()
}

var _ Texture = &textureImpl{}

// NewTexture creates a pending texture for path.
//
// Parameters:
//   - path: the source file path or URL
//   - sampler: the sampler configuration used when the texture is uploaded
//
// Returns:
//   - Texture: the pending handle
func NewTexture(path string, sampler common.SamplerStagingData) Texture {
	id := textureCount.Add(1)
	return &textureImpl{
		mu:       &sync.Mutex{},
		id:       id,
		path:     path,
		sampler:  sampler,
		provider: bind_group_provider.NewBindGroupProvider("texture_" + strconv.FormatUint(id, 10)),
	}
}

func (t *textureImpl) ID() uint64 {
	return t.id
}

func (t *textureImpl) Path() string {
	return t.path
}

func (t *textureImpl) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *textureImpl) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *textureImpl) StagingData() (common.TextureStagingData, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.staging, t.state == StateReady
}

func (t *textureImpl) Sampler() common.SamplerStagingData {
	return t.sampler
}

func (t *textureImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return t.provider
}

func (t *textureImpl) Resolve(data common.TextureStagingData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return
	}
	t.staging = data
	t.state = StateReady
}

func (t *textureImpl) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return
	}
	t.err = err
	t.state = StateFailed
}

func (t *textureImpl) Uploaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uploaded
}

func (t *textureImpl) MarkUploaded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.uploaded = true
}

func (t *textureImpl) Release() {
	t.mu.Lock()
	t.uploaded = false
	t.mu.Unlock()
	t.provider.Release()
}
