package scene

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithIconCache sets the cache icon textures are taken from. Without it the scene builds a private cache
// on the panorama loader.
//
// Parameters:
//   - c: the icon texture cache
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithIconCache(c texture.Cache) SceneBuilderOption {
	return func(s *scene) {
		s.icons = c
	}
}

// WithAnimator sets the animator that runs the icon fade-in. It must be ticked by the caller.
//
// Parameters:
//   - a: the animator
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAnimator(a tween.Animator) SceneBuilderOption {
	return func(s *scene) {
		s.animator = a
	}
}

// WithLoadingManager sets the manager panorama loads are reported to.
//
// Parameters:
//   - m: the loading manager
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoadingManager(m loader.LoadingManager) SceneBuilderOption {
	return func(s *scene) {
		s.manager = m
	}
}

// WithLogger sets the scene logger.
func WithLogger(l *logger.Logger) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.log = l.Named("scene")
		}
	}
}

// WithIconScale sets the default sprite size for icons without their own scale.
//
// Parameters:
//   - sc: width and height in world units
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithIconScale(sc mgl32.Vec2) SceneBuilderOption {
	return func(s *scene) {
		if sc.X() > 0 && sc.Y() > 0 {
			s.iconScale = sc
		}
	}
}

// WithFadeSeconds sets the icon fade-in duration. Zero shows icons immediately.
func WithFadeSeconds(seconds float32) SceneBuilderOption {
	return func(s *scene) {
		if seconds >= 0 {
			s.fadeSeconds = seconds
		}
	}
}
