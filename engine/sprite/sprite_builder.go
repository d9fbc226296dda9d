package sprite

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/go-gl/mathgl/mgl32"
)

// SpriteBuilderOption is a functional option for configuring a Sprite.
type SpriteBuilderOption func(*sprite)

// WithPosition sets the world position of the sprite center.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - SpriteBuilderOption: option function to apply
func WithPosition(p mgl32.Vec3) SpriteBuilderOption {
	return func(s *sprite) {
		s.position = p
	}
}

// WithScale sets the width and height in world units. Non-positive components keep the default.
//
// Parameters:
//   - sc: width and height
//
// Returns:
//   - SpriteBuilderOption: option function to apply
func WithScale(sc mgl32.Vec2) SpriteBuilderOption {
	return func(s *sprite) {
		if sc.X() > 0 && sc.Y() > 0 {
			s.scale = sc
		}
	}
}

// WithOpacity sets the starting opacity, e.g. 0 before a fade-in.
func WithOpacity(o float32) SpriteBuilderOption {
	return func(s *sprite) {
		s.opacity = min(max(o, 0), 1)
	}
}

// WithPayload sets the action handed to the hotspot callback.
//
// Parameters:
//   - a: the action
//
// Returns:
//   - SpriteBuilderOption: option function to apply
func WithPayload(a config.Action) SpriteBuilderOption {
	return func(s *sprite) {
		s.payload = a
	}
}

// WithEnabled sets whether the sprite starts visible.
func WithEnabled(enabled bool) SpriteBuilderOption {
	return func(s *sprite) {
		s.enabled.Store(enabled)
	}
}
