package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pano/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose message loop Run drives and whose events feed the engine.
// Without a window the engine runs headless.
//
// Parameters:
//   - w: the open window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithInteraction sets the handler that receives pointer, wheel and resize events.
//
// Parameters:
//   - h: the interaction handler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInteraction(h interaction.Handler) EngineBuilderOption {
	return func(e *engine) {
		e.handler = h
	}
}

// WithAnimator sets the animator advanced each tick. Pass the one the scene and handler use.
//
// Parameters:
//   - a: the animator
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAnimator(a tween.Animator) EngineBuilderOption {
	return func(e *engine) {
		e.animator = a
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) EngineBuilderOption {
	return func(e *engine) {
		if l != nil {
			e.log = l.Named("engine")
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
