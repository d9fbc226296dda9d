// Package engine runs the viewer: a fixed-rate tick loop for animation and camera damping, a render loop
// that uploads and draws the scene, and the window message loop feeding input to the interaction handler.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
)

// engine implements the Engine interface.
// Coordinates tick, render, and window threads.
type engine struct {
	mu *sync.Mutex

	log *logger.Logger

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	camera   camera.Camera
	animator tween.Animator
	handler  interaction.Handler

	tickProfiler     *profiler.Profiler
	renderProfiler   *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// framebuffer size waiting to be applied on the render goroutine
	pendingWidth, pendingHeight int
	resizePending               bool

	// last render error, logged once until it changes
	lastRenderErr string
}

// Engine is the main entry point of the viewer.
// It orchestrates the tick loop, the render loop, and window management.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Scene returns the scene graph that is drawn.
	Scene() scene.Scene

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Animator returns the animator advanced each tick.
	Animator() tween.Animator

	// EnableProfiler enables tick and frame rate output to the log.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each tick's built-in updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Tick advances animations and camera damping by one step. The tick loop calls it; it is exported for
	// headless use and tests.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// RenderFrame applies a pending resize, prepares the scene and draws one frame. The render loop calls it.
	// Must run on the render goroutine.
	//
	// Returns:
	//   - error: the first error of the frame; a frame whose surface could not be acquired is skipped
	RenderFrame() error

	// Resize propagates a framebuffer size to the camera, the interaction handler and, on the next frame,
	// the renderer. Zero sizes, as reported for a minimized window, are ignored.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Run starts the tick and render goroutines and blocks. With a window it runs the message loop until the
	// window closes; without one it blocks until Quit. Returns once both goroutines have stopped.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine drawing s with r.
// Panics if s or r is nil.
//
// Parameters:
//   - s: the scene graph to draw
//   - r: the renderer to draw with
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(s scene.Scene, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if s == nil || r == nil {
		panic("engine: scene and renderer are required")
	}
	e := &engine{
		mu:              &sync.Mutex{},
		log:             logger.Nop(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		renderer:        r,
		scene:           s,
		camera:          s.Camera(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.animator == nil {
		e.animator = tween.NewAnimator(tween.WithLogger(e.log))
	}
	e.tickProfiler = profiler.NewProfiler("tick", profiler.WithLogger(e.log))
	e.renderProfiler = profiler.NewProfiler("render", profiler.WithLogger(e.log))

	if w, h := r.Size(); w > 0 && h > 0 {
		e.camera.SetAspect(float32(w) / float32(h))
		if e.handler != nil {
			e.handler.OnResize(w, h)
		}
	}

	if e.window != nil {
		e.bindWindow()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Animator() tween.Animator {
	return e.animator
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.running.Store(false)
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Tick(deltaTime float32) {
	e.animator.Update(deltaTime)
	if ctrl := e.camera.Controller(); ctrl != nil && ctrl.Update() {
		e.camera.Update()
	}

	e.mu.Lock()
	cb := e.tickCallback
	e.mu.Unlock()
	if cb != nil {
		cb(deltaTime)
	}
}

func (e *engine) RenderFrame() error {
	e.mu.Lock()
	w, h, resize := e.pendingWidth, e.pendingHeight, e.resizePending
	e.resizePending = false
	e.mu.Unlock()
	if resize {
		e.renderer.Resize(w, h)
	}

	if err := e.scene.PrepareFrame(); err != nil {
		return fmt.Errorf("failed to prepare frame: %w", err)
	}
	if err := e.renderer.BeginFrame(); err != nil {
		// surface outdated or lost, the next resize reconfigures it
		e.log.Debugw("frame skipped", "error", err)
		return nil
	}
	drawErr := e.scene.DrawCalls()
	e.renderer.EndFrame()
	e.renderer.Present()
	if drawErr != nil {
		return fmt.Errorf("failed to draw scene: %w", drawErr)
	}
	return nil
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.camera.SetAspect(float32(width) / float32(height))
	if e.handler != nil {
		e.handler.OnResize(width, height)
	}

	e.mu.Lock()
	e.pendingWidth, e.pendingHeight = width, height
	e.resizePending = true
	e.mu.Unlock()
	e.log.Debugw("resize", "width", width, "height", height)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.mu.Lock()
		e.engineTickRate = newRate
		e.mu.Unlock()
		return
	}
	// Non-blocking send - if the channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

// --- internal helpers ---

// bindWindow routes window events to the engine and the interaction handler.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(e.Resize)
	if e.handler == nil {
		return
	}
	e.window.SetScrollCallback(e.handler.OnWheel)
	e.window.SetPointerDownCallback(e.handler.OnPointerDown)
	e.window.SetPointerMoveCallback(e.handler.OnPointerMove)
	e.window.SetPointerUpCallback(func(x, y float32) {
		e.handler.OnPointerUp(x, y)
	})
	if w, h := e.window.FramebufferSize(); w > 0 && h > 0 {
		e.handler.OnResize(w, h)
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate tick loop until the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.Tick(dt)

			if e.profilingEnabled.Load() {
				e.tickProfiler.Tick()
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the render loop until the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.logRenderError(e.RenderFrame())

		e.mu.Lock()
		cb, limit := e.renderCallback, e.renderFrameLimit
		e.mu.Unlock()
		if cb != nil {
			cb(dt)
		}

		if e.profilingEnabled.Load() {
			e.renderProfiler.Tick()
		}

		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// logRenderError logs err unless it repeats the previous frame's error. Only the render goroutine calls it.
func (e *engine) logRenderError(err error) {
	if err == nil {
		if e.lastRenderErr != "" {
			e.log.Infow("rendering recovered")
			e.lastRenderErr = ""
		}
		return
	}
	if msg := err.Error(); msg != e.lastRenderErr {
		e.log.Errorw("render failed", "error", err)
		e.lastRenderErr = msg
	}
}
