// Package sprite holds hotspot icons: camera-facing textured quads carrying the action run when clicked.
package sprite

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScale is the default width and height of a sprite in world units.
var DefaultScale = mgl32.Vec2{32, 32}

var spriteCount atomic.Uint64

type sprite struct {
	mu *sync.Mutex

	id      uint64
	enabled atomic.Bool

	position mgl32.Vec3
	scale    mgl32.Vec2
	opacity  float32
	payload  config.Action

	tex      texture.Texture
	provider bind_group_provider.BindGroupProvider
	uploaded bool
}

// Sprite is one hotspot. Its own GPU state is a small uniform (center, size, opacity); the icon texture is
// shared through the texture cache and never owned by the sprite.
type Sprite interface {
	// ID returns the sprite's process-unique identifier.
	//
	// Returns:
	//   - uint64: the sprite ID
	ID() uint64

	// Label returns a debug label, also used for the uniform provider.
	Label() string

	// Enabled returns whether the sprite is drawn and hit-tested.
	Enabled() bool

	// SetEnabled shows or hides the sprite.
	//
	// Parameters:
	//   - enabled: true to draw and hit-test
	SetEnabled(enabled bool)

	// Position returns the world position of the sprite center.
	Position() mgl32.Vec3

	// SetPosition moves the sprite.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p mgl32.Vec3)

	// Scale returns the width and height in world units.
	Scale() mgl32.Vec2

	// SetScale resizes the sprite.
	//
	// Parameters:
	//   - s: width and height in world units
	SetScale(s mgl32.Vec2)

	// Opacity returns the current opacity in [0, 1].
	Opacity() float32

	// SetOpacity sets the opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - o: the new opacity
	SetOpacity(o float32)

	// Payload returns the action handed to the hotspot callback.
	Payload() config.Action

	// Texture returns the icon texture.
	Texture() texture.Texture

	// BindGroupProvider returns the provider holding the sprite uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Uniform returns the GPU representation of the sprite.
	Uniform() GPUSpriteUniform

	// Intersect tests a ray against the sprite quad as it faces the camera.
	//
	// Parameters:
	//   - ray: the pick ray in world space
	//   - right, up: the camera basis vectors
	//
	// Returns:
	//   - float32: the distance along the ray to the hit
	//   - bool: false on a miss or when the sprite is disabled
	Intersect(ray common.Ray, right, up mgl32.Vec3) (float32, bool)

	// Uploaded reports whether the uniform buffer and bind group exist on the GPU.
	Uploaded() bool

	// MarkUploaded records that the renderer created the uniform bind group.
	MarkUploaded()

	// Release frees the sprite's uniform buffer and bind group. The icon texture is left alone.
	Release()
}

var _ Sprite = &sprite{}

// NewSprite creates an enabled, fully opaque sprite at the origin with DefaultScale.
//
// Parameters:
//   - tex: the icon texture, usually from the texture cache
//   - options: functional options to configure the sprite
//
// Returns:
//   - Sprite: the new sprite
func NewSprite(tex texture.Texture, options ...SpriteBuilderOption) Sprite {
	id := spriteCount.Add(1)
	s := &sprite{
		mu:       &sync.Mutex{},
		id:       id,
		scale:    DefaultScale,
		opacity:  1,
		tex:      tex,
		provider: bind_group_provider.NewBindGroupProvider("sprite_" + strconv.FormatUint(id, 10)),
	}
	s.enabled.Store(true)
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *sprite) ID() uint64 {
	return s.id
}

func (s *sprite) Label() string {
	return s.provider.Label()
}

func (s *sprite) Enabled() bool {
	return s.enabled.Load()
}

func (s *sprite) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

func (s *sprite) Position() mgl32.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *sprite) SetPosition(p mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = p
}

func (s *sprite) Scale() mgl32.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *sprite) SetScale(sc mgl32.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = sc
}

func (s *sprite) Opacity() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

func (s *sprite) SetOpacity(o float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opacity = common.Clamp(o, 0, 1)
}

func (s *sprite) Payload() config.Action {
	return s.payload
}

func (s *sprite) Texture() texture.Texture {
	return s.tex
}

func (s *sprite) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return s.provider
}

func (s *sprite) Uniform() GPUSpriteUniform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GPUSpriteUniform{
		Center:  s.position,
		Opacity: s.opacity,
		Extent:  s.scale,
	}
}

func (s *sprite) Intersect(ray common.Ray, right, up mgl32.Vec3) (float32, bool) {
	if !s.Enabled() {
		return 0, false
	}
	s.mu.Lock()
	center, scale := s.position, s.scale
	s.mu.Unlock()
	return ray.IntersectBillboard(center, right, up, scale.X()/2, scale.Y()/2)
}

func (s *sprite) Uploaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploaded
}

func (s *sprite) MarkUploaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = true
}

func (s *sprite) Release() {
	s.mu.Lock()
	s.uploaded = false
	s.mu.Unlock()
	s.provider.Release()
}
