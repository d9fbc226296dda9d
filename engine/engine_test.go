package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/interaction"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
)

var lobby = config.Scene{
	ID:             "lobby",
	Path:           "lobby.jpg",
	CameraPosition: config.Vec3{Z: 10},
	Icons: []config.Icon{{
		Position: config.Vec3{Z: -100},
		Src:      "arrow.png",
		Action:   config.Action{Type: config.ActionRedirect, NextScene: "hall"},
	}},
}

func newEngine(options ...EngineBuilderOption) (Engine, *renderertest.Recorder) {
	rec := renderertest.New(800, 600)
	anim := tween.NewAnimator()
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	s := scene.NewScene(cam, rec, loadertest.New(), scene.WithAnimator(anim))
	s.Load(lobby)
	return NewEngine(s, rec, append([]EngineBuilderOption{WithAnimator(anim)}, options...)...), rec
}

func TestNewEngineSetsAspect(t *testing.T) {
	e, _ := newEngine()
	if have, want := e.Camera().Aspect(), float32(800)/600; have != want {
		t.Fatalf("Aspect\nhave %v\nwant %v", have, want)
	}
}

func TestTickRunsFadeAndDamping(t *testing.T) {
	e, _ := newEngine()
	sp := e.Scene().Sprites()[0]

	e.Camera().Controller().Rotate(100, 0, 600)
	before := e.Camera().Position()
	e.Tick(1)

	if sp.Opacity() != 1 {
		t.Fatalf("sprite opacity after a long tick\nhave %v\nwant 1", sp.Opacity())
	}
	if e.Camera().Position() == before {
		t.Fatal("camera did not follow the damped rotation")
	}
}

func TestTickCallback(t *testing.T) {
	e, _ := newEngine()
	var got float32
	e.SetTickCallback(func(dt float32) { got = dt })
	e.Tick(0.5)
	if got != 0.5 {
		t.Fatalf("callback dt\nhave %v\nwant 0.5", got)
	}
}

func TestRenderFrame(t *testing.T) {
	e, rec := newEngine()
	e.Tick(1)

	if err := e.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if rec.Frames() != 1 {
		t.Fatalf("frames\nhave %d\nwant 1", rec.Frames())
	}
	draws := rec.LastFrame()
	if len(draws) != 2 || draws[0].Pipeline != renderer.PipelineKeyPanorama || draws[1].Pipeline != renderer.PipelineKeySprite {
		t.Fatalf("draws\nhave %+v\nwant panorama then sprite", draws)
	}
}

func TestRenderFrameSkipsLostSurface(t *testing.T) {
	e, rec := newEngine()
	rec.FailBeginFrame = true
	if err := e.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame with a lost surface: %v", err)
	}
	if rec.Frames() != 0 {
		t.Fatalf("frames\nhave %d\nwant 0", rec.Frames())
	}
}

func TestResize(t *testing.T) {
	e, rec := newEngine()

	e.Resize(1000, 500)
	if have := e.Camera().Aspect(); have != 2 {
		t.Fatalf("Aspect\nhave %v\nwant 2", have)
	}
	if err := e.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if w, h := rec.Size(); w != 1000 || h != 500 {
		t.Fatalf("renderer size\nhave %dx%d\nwant 1000x500", w, h)
	}

	e.Resize(0, 0)
	if have := e.Camera().Aspect(); have != 2 {
		t.Fatalf("Aspect after minimize\nhave %v\nwant 2", have)
	}
	_ = e.RenderFrame()
	if w, h := rec.Size(); w != 1000 || h != 500 {
		t.Fatalf("renderer size after minimize\nhave %dx%d\nwant 1000x500", w, h)
	}
}

func TestResizeReachesHandler(t *testing.T) {
	var clicked bool
	rec := renderertest.New(800, 600)
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	s := scene.NewScene(cam, rec, loadertest.New())
	s.Load(lobby)
	h := interaction.NewHandler(
		interaction.WithCamera(cam),
		interaction.WithTargets(s),
		interaction.WithHotspotCallback(func(config.Action) { clicked = true }),
	)
	e := NewEngine(s, rec, WithInteraction(h))

	// the handler had no viewport until the engine passed the renderer size
	h.OnPointerDown(400, 300)
	if !h.OnPointerUp(400, 300) || !clicked {
		t.Fatal("click in the center missed the hotspot")
	}

	e.Resize(1600, 1200)
	if have := cam.Aspect(); have != float32(1600)/1200 {
		t.Fatalf("Aspect\nhave %v\nwant %v", have, float32(1600)/1200)
	}
	clicked = false
	h.OnPointerDown(800, 600)
	if !h.OnPointerUp(800, 600) || !clicked {
		t.Fatal("click in the center after resize missed the hotspot")
	}
}

func TestRunHeadlessUntilQuit(t *testing.T) {
	e, rec := newEngine(WithTickRate(500), WithRenderFrameLimit(500))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for rec.Frames() < 2 {
		if time.Now().After(deadline) {
			e.Quit()
			t.Fatal("render loop produced no frames")
		}
		time.Sleep(5 * time.Millisecond)
	}

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestNewEnginePanicsWithoutScene(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewEngine(nil, ...) did not panic")
		}
	}()
	NewEngine(nil, renderertest.New(1, 1))
}
