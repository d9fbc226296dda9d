package interaction

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
)

// HandlerOption is a functional option for configuring a Handler.
type HandlerOption func(*handler)

// WithCamera sets the camera that is zoomed, rotated and picked through. Required.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - HandlerOption: option function to apply
func WithCamera(c camera.Camera) HandlerOption {
	return func(h *handler) {
		h.camera = c
	}
}

// WithTargets sets where clickable sprites come from, usually the scene.
//
// Parameters:
//   - t: the sprite source
//
// Returns:
//   - HandlerOption: option function to apply
func WithTargets(t TargetSource) HandlerOption {
	return func(h *handler) {
		h.targets = t
	}
}

// WithViewport sets the initial viewport size in pixels.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - HandlerOption: option function to apply
func WithViewport(width, height int) HandlerOption {
	return func(h *handler) {
		if width > 0 && height > 0 {
			h.width, h.height = width, height
		}
	}
}

// WithLoading sets the reporter that gates wheel input while a scene loads.
func WithLoading(l LoadingReporter) HandlerOption {
	return func(h *handler) {
		h.loading = l
	}
}

// WithHotspotCallback sets the function called with the payload of a clicked hotspot.
//
// Parameters:
//   - fn: the callback, called once per click on the goroutine delivering OnPointerUp
//
// Returns:
//   - HandlerOption: option function to apply
func WithHotspotCallback(fn HotspotCallback) HandlerOption {
	return func(h *handler) {
		h.onHotspot = fn
	}
}

// WithDragThreshold sets the pointer travel in pixels at which a press becomes a drag.
func WithDragThreshold(px float32) HandlerOption {
	return func(h *handler) {
		if px >= 0 {
			h.dragThreshold = px
		}
	}
}

// WithFovBounds sets the zoom range in degrees. Bounds outside the camera's own range have no effect past it.
//
// Parameters:
//   - minFov, maxFov: the bounds, minFov <= maxFov
//
// Returns:
//   - HandlerOption: option function to apply
func WithFovBounds(minFov, maxFov float32) HandlerOption {
	return func(h *handler) {
		if minFov > 0 && minFov <= maxFov {
			h.minFov, h.maxFov = minFov, maxFov
		}
	}
}

// WithZoomFactors sets the fov multipliers for zooming out and in.
//
// Parameters:
//   - out: applied when deltaY > 0, greater than 1
//   - in: applied otherwise, between 0 and 1
//
// Returns:
//   - HandlerOption: option function to apply
func WithZoomFactors(out, in float32) HandlerOption {
	return func(h *handler) {
		if out > 0 && in > 0 {
			h.zoomOut, h.zoomIn = out, in
		}
	}
}

// WithZoomAnimator animates zoom steps over the given duration instead of applying them at once.
//
// Parameters:
//   - a: the animator, ticked by the engine
//   - seconds: the length of one zoom step
//
// Returns:
//   - HandlerOption: option function to apply
func WithZoomAnimator(a tween.Animator, seconds float32) HandlerOption {
	return func(h *handler) {
		h.animator = a
		if seconds >= 0 {
			h.zoomSeconds = seconds
		}
	}
}

// WithPanoramaRadius sets the radius of the sphere hit points are logged against.
func WithPanoramaRadius(r float32) HandlerOption {
	return func(h *handler) {
		if r > 0 {
			h.panoramaRadius = r
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *logger.Logger) HandlerOption {
	return func(h *handler) {
		if l != nil {
			h.log = l.Named("interaction")
		}
	}
}
