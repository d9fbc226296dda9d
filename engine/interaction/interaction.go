// Package interaction turns pointer and wheel input into camera zoom, drag rotation and hotspot clicks.
package interaction

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/sprite"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

const (
	// DefaultDragThreshold is the pointer travel in pixels at which a press stops counting as a click.
	DefaultDragThreshold float32 = 5
	// DefaultZoomOut multiplies the field of view on a wheel step away from the scene.
	DefaultZoomOut float32 = 1.2
	// DefaultZoomIn multiplies the field of view on a wheel step towards the scene.
	DefaultZoomIn float32 = 0.8
	// DefaultZoomSeconds is the length of an animated zoom step.
	DefaultZoomSeconds float32 = 0.25

	zoomKey = "zoom"
)

// TargetSource supplies the sprites a click is tested against. scene.Scene implements it.
type TargetSource interface {
	Sprites() []sprite.Sprite
}

// LoadingReporter reports whether a scene is still loading. Wheel input is ignored while it is.
type LoadingReporter interface {
	Loading() bool
}

// HotspotCallback receives the payload of the clicked hotspot.
type HotspotCallback func(action config.Action)

type handler struct {
	mu *sync.Mutex

	log *logger.Logger

	camera    camera.Camera
	targets   TargetSource
	loading   LoadingReporter
	onHotspot HotspotCallback
	animator  tween.Animator

	dragThreshold  float32
	minFov, maxFov float32
	zoomOut        float32
	zoomIn         float32
	zoomSeconds    float32
	panoramaRadius float32

	width, height int

	// drag state
	down         bool
	downX, downY float32
	lastX, lastY float32

	// fov the running zoom tween ends at
	zoomTarget float32
}

// Handler receives input events in window pixel coordinates, origin at the top-left.
// All methods are safe to call from the input goroutine while the tick goroutine updates the camera.
type Handler interface {
	// OnWheel zooms by scaling the field of view: out for deltaY > 0, in otherwise. The result is clamped
	// to the fov bounds and the controller's rotate speed follows it. Ignored while loading.
	//
	// Parameters:
	//   - deltaY: the wheel delta, positive when scrolling down
	OnWheel(deltaY float32)

	// OnPointerDown records the drag origin.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	OnPointerDown(x, y float32)

	// OnPointerMove rotates the camera by the movement since the last event while the pointer is down.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	OnPointerMove(x, y float32)

	// OnPointerUp ends the drag. If the pointer travelled less than the drag threshold since OnPointerDown,
	// the nearest hotspot under the pointer is activated and its payload handed to the callback.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	//
	// Returns:
	//   - bool: true if a hotspot was hit
	OnPointerUp(x, y float32) bool

	// OnResize updates the viewport size used to map pointer positions. Zero sizes are ignored.
	//
	// Parameters:
	//   - width, height: the new viewport size in pixels
	OnResize(width, height int)

	// Dragging reports whether the pointer is down.
	Dragging() bool
}

var _ Handler = &handler{}

// NewHandler creates a Handler.
// Panics if no camera is given through WithCamera.
//
// Parameters:
//   - options: functional options to configure the handler
//
// Returns:
//   - Handler: the new handler
func NewHandler(options ...HandlerOption) Handler {
	h := &handler{
		mu:             &sync.Mutex{},
		log:            logger.Nop(),
		dragThreshold:  DefaultDragThreshold,
		minFov:         camera.MinFov,
		maxFov:         camera.MaxFov,
		zoomOut:        DefaultZoomOut,
		zoomIn:         DefaultZoomIn,
		zoomSeconds:    DefaultZoomSeconds,
		panoramaRadius: model.PanoramaRadius,
	}
	for _, option := range options {
		option(h)
	}
	if h.camera == nil {
		panic("interaction: a camera is required")
	}
	return h
}

func (h *handler) OnWheel(deltaY float32) {
	if h.loading != nil && h.loading.Loading() {
		return
	}

	h.mu.Lock()
	current := h.camera.Fov()
	from := current
	if h.animator != nil && h.animator.Running(zoomKey) {
		from = h.zoomTarget
	}
	factor := h.zoomIn
	if deltaY > 0 {
		factor = h.zoomOut
	}
	fov := common.Clamp(from*factor, h.minFov, h.maxFov)
	h.zoomTarget = fov
	animator, seconds := h.animator, h.zoomSeconds
	h.mu.Unlock()

	if ctrl := h.camera.Controller(); ctrl != nil {
		ctrl.SetRotateSpeed(camera.RotateSpeedForFov(fov))
	}
	if animator != nil {
		animator.Animate(zoomKey, current, fov, seconds, ease.OutQuad, h.camera.SetFov)
	} else {
		h.camera.SetFov(fov)
	}
	h.log.Debugw("zoom", "deltaY", deltaY, "fov", fov)
}

func (h *handler) OnPointerDown(x, y float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.down = true
	h.downX, h.downY = x, y
	h.lastX, h.lastY = x, y
}

func (h *handler) OnPointerMove(x, y float32) {
	h.mu.Lock()
	if !h.down {
		h.mu.Unlock()
		return
	}
	dx, dy := x-h.lastX, y-h.lastY
	h.lastX, h.lastY = x, y
	height := h.height
	h.mu.Unlock()

	if ctrl := h.camera.Controller(); ctrl != nil {
		ctrl.Rotate(dx, dy, height)
	}
}

func (h *handler) OnPointerUp(x, y float32) bool {
	h.mu.Lock()
	wasDown := h.down
	h.down = false
	moved := float32(math.Hypot(float64(x-h.downX), float64(y-h.downY)))
	width, height := h.width, h.height
	threshold, radius := h.dragThreshold, h.panoramaRadius
	targets, onHotspot := h.targets, h.onHotspot
	h.mu.Unlock()

	ndcX, ndcY := common.ScreenToNDC(x, y, width, height)
	ray, ok := common.RayFromNDC(ndcX, ndcY, h.camera.ViewProjectionMatrix())
	if !ok {
		return false
	}

	if t, hit := ray.IntersectSphere(mgl32.Vec3{}, radius); hit {
		h.log.Debugw("pointer up", "camera", h.camera.Position(), "point", ray.At(t))
	}

	if !wasDown || moved >= threshold || targets == nil {
		return false
	}

	hit := pick(ray, h.camera, targets.Sprites())
	if hit == nil {
		return false
	}
	action := hit.Payload()
	h.log.Infow("hotspot clicked", "sprite", hit.Label(), "type", action.Type, "nextScene", action.NextScene)
	if onHotspot != nil {
		onHotspot(action)
	}
	return true
}

func (h *handler) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = width, height
}

func (h *handler) Dragging() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.down
}

// --- internal helpers ---

// pick returns the sprite nearest along ray, or nil.
func pick(ray common.Ray, cam camera.Camera, sprites []sprite.Sprite) sprite.Sprite {
	right, up := cam.Basis()
	var (
		nearest sprite.Sprite
		best    float32
	)
	for _, sp := range sprites {
		d, ok := sp.Intersect(ray, right, up)
		if ok && (nearest == nil || d < best) {
			nearest, best = sp, d
		}
	}
	return nearest
}
