package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
)

var (
	lobby = config.Scene{
		ID:             "lobby",
		Path:           "lobby.jpg",
		CameraPosition: config.Vec3{X: 0, Y: 0, Z: 10},
		Icons: []config.Icon{
			{
				Position: config.Vec3{X: 0, Y: 0, Z: -100},
				Src:      "arrow.png",
				Action:   config.Action{Type: config.ActionRedirect, NextScene: "hall"},
			},
			{
				Position: config.Vec3{X: 100, Y: 0, Z: 0},
				Src:      "door.png",
				Scale:    &config.Vec2{X: 8, Y: 8},
				Action:   config.Action{Type: config.ActionRedirect, NextScene: "hall"},
			},
		},
	}
	hall = config.Scene{
		ID:             "hall",
		Path:           "hall.jpg",
		CameraPosition: config.Vec3{X: 10, Y: 0, Z: 0},
		Icons: []config.Icon{
			{
				Position: config.Vec3{X: 0, Y: 0, Z: 100},
				Src:      "arrow.png",
				Action:   config.Action{Type: config.ActionRedirect, NextScene: "lobby"},
			},
		},
	}
)

type fixture struct {
	scene    Scene
	camera   camera.Camera
	recorder *renderertest.Recorder
	stub     *loadertest.Stub
	animator tween.Animator
	icons    texture.Cache
	manager  loader.LoadingManager
}

func newFixture() *fixture {
	f := &fixture{
		camera:   camera.NewCamera(camera.WithController(camera.NewCameraController())),
		recorder: renderertest.New(800, 600),
		stub:     loadertest.New(),
		animator: tween.NewAnimator(),
		manager:  loader.NewLoadingManager(),
	}
	f.icons = texture.NewCache(f.stub)
	f.scene = NewScene(f.camera, f.recorder, f.stub,
		WithIconCache(f.icons),
		WithAnimator(f.animator),
		WithLoadingManager(f.manager),
	)
	return f
}

// frame runs one PrepareFrame/DrawCalls pass and returns its draws.
func (f *fixture) frame(t *testing.T) []renderertest.Draw {
	t.Helper()
	if err := f.scene.PrepareFrame(); err != nil {
		t.Fatalf("PrepareFrame: %v", err)
	}
	if err := f.recorder.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := f.scene.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	f.recorder.EndFrame()
	return f.recorder.LastFrame()
}

func TestLoadReplacesScene(t *testing.T) {
	f := newFixture()

	f.scene.Load(lobby)
	before := f.scene.Children()
	if len(before) != 3 {
		t.Fatalf("children after first load\nhave %v\nwant sphere and 2 sprites", before)
	}

	f.scene.Load(hall)
	after := f.scene.Children()
	if len(after) != 2 {
		t.Fatalf("children after second load\nhave %v\nwant sphere and 1 sprite", after)
	}
	for _, label := range before[1:] {
		if slices.Contains(after, label) {
			t.Fatalf("sprite %q from the first scene is still attached", label)
		}
	}

	cur, ok := f.scene.Current()
	if !ok || cur.ID != "hall" {
		t.Fatalf("Current\nhave %q, %v\nwant %q, true", cur.ID, ok, "hall")
	}
	if have := f.scene.PanoramaTexture().Path(); have != "hall.jpg" {
		t.Fatalf("panorama path\nhave %q\nwant %q", have, "hall.jpg")
	}
	if have := f.scene.Sprites()[0].Payload().NextScene; have != "lobby" {
		t.Fatalf("sprite payload\nhave %q\nwant %q", have, "lobby")
	}
}

func TestLoadMovesCamera(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)

	p := f.camera.Position()
	if math.Abs(float64(p.X())) > 1e-3 || math.Abs(float64(p.Y())) > 1e-3 || math.Abs(float64(p.Z()-10)) > 1e-3 {
		t.Fatalf("camera position\nhave %v\nwant [0 0 10]", p)
	}
}

func TestSpriteScale(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)

	sprites := f.scene.Sprites()
	if have := sprites[0].Scale(); have.X() != 32 || have.Y() != 32 {
		t.Fatalf("default scale\nhave %v\nwant [32 32]", have)
	}
	if have := sprites[1].Scale(); have.X() != 8 || have.Y() != 8 {
		t.Fatalf("icon scale\nhave %v\nwant [8 8]", have)
	}
}

func TestIconFadeReachesOne(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)

	sprites := f.scene.Sprites()
	for _, sp := range sprites {
		if sp.Opacity() != 0 {
			t.Fatalf("opacity before fade\nhave %v\nwant 0", sp.Opacity())
		}
	}

	f.animator.Update(0.4)
	mid := sprites[0].Opacity()
	if mid <= 0 || mid >= 1 {
		t.Fatalf("opacity halfway\nhave %v\nwant in (0, 1)", mid)
	}

	f.animator.Update(1)
	for _, sp := range sprites {
		if sp.Opacity() != 1 {
			t.Fatalf("opacity after fade\nhave %v\nwant 1", sp.Opacity())
		}
	}
	if f.animator.Active() != 0 {
		t.Fatalf("Active\nhave %d\nwant 0", f.animator.Active())
	}
}

func TestClearCancelsFade(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)
	f.scene.Clear()
	if f.animator.Active() != 0 {
		t.Fatalf("Active after Clear\nhave %d\nwant 0", f.animator.Active())
	}
	if _, ok := f.scene.Current(); ok {
		t.Fatal("Current should report nothing attached after Clear")
	}
	if len(f.scene.Children()) != 0 {
		t.Fatalf("Children after Clear\nhave %v\nwant none", f.scene.Children())
	}
}

func TestIconTexturesSurviveSceneChange(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)
	f.frame(t)

	oldSprite := f.scene.Sprites()[0]
	oldPano := f.scene.PanoramaTexture()
	icon := oldSprite.Texture()
	if !icon.Uploaded() || !oldSprite.Uploaded() || !oldPano.Uploaded() {
		t.Fatal("first frame did not upload the scene")
	}

	f.scene.Load(hall)
	f.frame(t)

	if !icon.Uploaded() {
		t.Fatal("cached icon texture was released by a scene change")
	}
	if f.icons.Get("arrow.png") != icon {
		t.Fatal("icon cache returned a new texture for a cached path")
	}
	if f.stub.Calls("arrow.png") != 1 {
		t.Fatalf("loads of arrow.png\nhave %d\nwant 1", f.stub.Calls("arrow.png"))
	}
	if f.scene.Sprites()[0].Texture() != icon {
		t.Fatal("new scene did not reuse the cached icon texture")
	}
	if oldSprite.Uploaded() || oldPano.Uploaded() {
		t.Fatal("detached sprite or panorama was not released")
	}
}

func TestDrawCalls(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)
	f.animator.Update(1)

	draws := f.frame(t)
	if len(draws) != 3 {
		t.Fatalf("draws\nhave %d\nwant 3", len(draws))
	}

	cam := f.camera.BindGroupProvider().Label()
	pano := draws[0]
	if pano.Pipeline != renderer.PipelineKeyPanorama || pano.Mesh != "panorama" {
		t.Fatalf("first draw\nhave %+v\nwant the panorama", pano)
	}
	want := []string{cam, f.scene.PanoramaTexture().BindGroupProvider().Label()}
	if !slices.Equal(pano.BindGroups, want) {
		t.Fatalf("panorama bind groups\nhave %v\nwant %v", pano.BindGroups, want)
	}

	// the icon at z=-100 is farther from the camera at z=10 than the one at x=100
	sprites := f.scene.Sprites()
	for i, sp := range []int{0, 1} {
		d := draws[i+1]
		if d.Pipeline != renderer.PipelineKeySprite || d.VertexCount != renderer.SpriteVertexCount {
			t.Fatalf("draw %d\nhave %+v\nwant a sprite quad", i+1, d)
		}
		want := []string{cam, sprites[sp].Label(), sprites[sp].Texture().BindGroupProvider().Label()}
		if !slices.Equal(d.BindGroups, want) {
			t.Fatalf("draw %d bind groups\nhave %v\nwant %v", i+1, d.BindGroups, want)
		}
	}
}

func TestInvisibleSpritesAreNotDrawn(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)

	// opacity is still 0
	if draws := f.frame(t); len(draws) != 1 {
		t.Fatalf("draws before fade\nhave %d\nwant 1", len(draws))
	}

	f.animator.Update(1)
	f.scene.Sprites()[1].SetEnabled(false)
	if draws := f.frame(t); len(draws) != 2 {
		t.Fatalf("draws with one sprite disabled\nhave %d\nwant 2", len(draws))
	}
}

func TestPendingPanoramaIsNotDrawn(t *testing.T) {
	f := newFixture()
	f.stub.Hold(true)
	f.scene.Load(lobby)
	f.animator.Update(1)

	if !f.manager.Loading() {
		t.Fatal("loading manager should report the pending panorama")
	}
	if draws := f.frame(t); len(draws) != 0 {
		t.Fatalf("draws while loading\nhave %d\nwant 0", len(draws))
	}

	f.stub.Flush()
	if f.manager.Loading() {
		t.Fatal("loading manager still loading after the panorama arrived")
	}
	if draws := f.frame(t); len(draws) != 3 {
		t.Fatalf("draws after loading\nhave %d\nwant 3", len(draws))
	}
}

func TestFailedPanoramaUsesPlaceholder(t *testing.T) {
	f := newFixture()
	f.stub.SetError("lobby.jpg", errors.New("not found"))
	f.scene.Load(lobby)

	if f.scene.PanoramaTexture().State() != texture.StateFailed {
		t.Fatalf("panorama state\nhave %v\nwant failed", f.scene.PanoramaTexture().State())
	}
	if f.manager.Loading() {
		t.Fatal("a failed load should end the batch")
	}

	draws := f.frame(t)
	if len(draws) == 0 || draws[0].Pipeline != renderer.PipelineKeyPanorama {
		t.Fatalf("draws\nhave %+v\nwant the panorama first", draws)
	}
}

func TestLateLoadAfterSceneChangeIsDetached(t *testing.T) {
	f := newFixture()
	f.stub.Hold(true)
	f.scene.Load(lobby)
	stale := f.scene.PanoramaTexture()
	f.scene.Load(hall)
	f.stub.Flush()
	f.frame(t)

	if stale.State() != texture.StateReady {
		t.Fatalf("stale texture state\nhave %v\nwant ready", stale.State())
	}
	if slices.Contains(f.recorder.Textures(), stale.BindGroupProvider().Label()) {
		t.Fatal("panorama of a detached scene was uploaded")
	}
	if !slices.Contains(f.recorder.Textures(), f.scene.PanoramaTexture().BindGroupProvider().Label()) {
		t.Fatal("panorama of the attached scene was not uploaded")
	}
}

func TestCameraBindGroupCreatedOnce(t *testing.T) {
	f := newFixture()
	f.scene.Load(lobby)
	f.frame(t)
	f.frame(t)

	label := f.camera.BindGroupProvider().Label()
	n := 0
	for _, l := range f.recorder.BindGroups() {
		if l == label {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("camera bind group inits\nhave %d\nwant 1", n)
	}
}

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewScene(nil, ...) did not panic")
		}
	}()
	NewScene(nil, renderertest.New(1, 1), loadertest.New())
}
