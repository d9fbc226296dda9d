package interaction

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/sprite"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	width  = 800
	height = 600
)

type targets []sprite.Sprite

func (t targets) Sprites() []sprite.Sprite { return t }

type loadingFlag bool

func (l loadingFlag) Loading() bool { return bool(l) }

// newCamera looks down -Z from just in front of the origin.
func newCamera() camera.Camera {
	ctrl := camera.NewCameraController(camera.WithPosition(0, 0, 10))
	return camera.NewCamera(camera.WithController(ctrl), camera.WithAspect(float32(width)/height))
}

func newSprite(pos mgl32.Vec3, next string) sprite.Sprite {
	return sprite.NewSprite(
		texture.NewTexture("icon.png", common.SpriteSampler()),
		sprite.WithPosition(pos),
		sprite.WithPayload(config.Action{Type: config.ActionRedirect, NextScene: next}),
	)
}

func TestWheelKeepsFovInBounds(t *testing.T) {
	cam := newCamera()
	h := NewHandler(WithCamera(cam), WithViewport(width, height))

	for range 50 {
		h.OnWheel(1000)
		if f := cam.Fov(); f < 30 || f > 100 {
			t.Fatalf("fov out of bounds: %v", f)
		}
	}
	if have := cam.Fov(); have != 100 {
		t.Fatalf("fov after zooming out\nhave %v\nwant 100", have)
	}

	for range 50 {
		h.OnWheel(-1000)
		if f := cam.Fov(); f < 30 || f > 100 {
			t.Fatalf("fov out of bounds: %v", f)
		}
	}
	if have := cam.Fov(); have != 30 {
		t.Fatalf("fov after zooming in\nhave %v\nwant 30", have)
	}
}

func TestWheelStep(t *testing.T) {
	cam := newCamera()
	h := NewHandler(WithCamera(cam))

	h.OnWheel(1)
	if have := cam.Fov(); have != 90 {
		t.Fatalf("zoom out from 75\nhave %v\nwant 90", have)
	}
	h.OnWheel(-1)
	if have := cam.Fov(); have != 72 {
		t.Fatalf("zoom in from 90\nhave %v\nwant 72", have)
	}
}

func TestWheelUpdatesRotateSpeed(t *testing.T) {
	cam := newCamera()
	h := NewHandler(WithCamera(cam))

	// one step per event: 75 -> 90
	h.OnWheel(1000)
	if have := cam.Fov(); have != 90 {
		t.Fatalf("fov after one step\nhave %v\nwant 90", have)
	}
	if have := cam.Controller().RotateSpeed(); have != -0.33 {
		t.Fatalf("rotate speed at fov 90\nhave %v\nwant -0.33", have)
	}

	for range 5 {
		h.OnWheel(1)
	}
	if have := cam.Fov(); have != camera.MaxFov {
		t.Fatalf("fov after zooming out\nhave %v\nwant %v", have, camera.MaxFov)
	}
	if have := cam.Controller().RotateSpeed(); have != -0.37 {
		t.Fatalf("rotate speed at fov 100\nhave %v\nwant -0.37", have)
	}
}

func TestWheelIgnoredWhileLoading(t *testing.T) {
	cam := newCamera()
	h := NewHandler(WithCamera(cam), WithLoading(loadingFlag(true)))

	h.OnWheel(1)
	if have := cam.Fov(); have != camera.DefaultFov {
		t.Fatalf("fov while loading\nhave %v\nwant %v", have, camera.DefaultFov)
	}
}

func TestWheelAnimated(t *testing.T) {
	cam := newCamera()
	anim := tween.NewAnimator()
	h := NewHandler(WithCamera(cam), WithZoomAnimator(anim, DefaultZoomSeconds))

	h.OnWheel(1)
	if have := cam.Fov(); have != camera.DefaultFov {
		t.Fatalf("fov before the tween ran\nhave %v\nwant %v", have, camera.DefaultFov)
	}
	// a second step while the first is running chains from its target
	h.OnWheel(-1)
	anim.Update(1)
	if have := cam.Fov(); have != 72 {
		t.Fatalf("fov after the tween\nhave %v\nwant 72", have)
	}
}

func TestClickHitsNearestSprite(t *testing.T) {
	var got []config.Action
	h := NewHandler(
		WithCamera(newCamera()),
		WithViewport(width, height),
		WithTargets(targets{
			newSprite(mgl32.Vec3{0, 0, -200}, "far"),
			newSprite(mgl32.Vec3{0, 0, -100}, "near"),
		}),
		WithHotspotCallback(func(a config.Action) { got = append(got, a) }),
	)

	h.OnPointerDown(400, 300)
	h.OnPointerMove(402, 301)
	if !h.OnPointerUp(402, 301) {
		t.Fatal("OnPointerUp missed the sprite in the center of the screen")
	}
	if len(got) != 1 {
		t.Fatalf("callbacks\nhave %d\nwant 1", len(got))
	}
	if got[0].NextScene != "near" {
		t.Fatalf("payload\nhave %q\nwant %q", got[0].NextScene, "near")
	}
}

func TestDragDoesNotClick(t *testing.T) {
	calls := 0
	h := NewHandler(
		WithCamera(newCamera()),
		WithViewport(width, height),
		WithTargets(targets{newSprite(mgl32.Vec3{0, 0, -100}, "hall")}),
		WithHotspotCallback(func(config.Action) { calls++ }),
	)

	h.OnPointerDown(395, 300)
	h.OnPointerMove(400, 300)
	if h.OnPointerUp(400, 300) {
		t.Fatal("a 5px drag should not count as a click")
	}
	if calls != 0 {
		t.Fatalf("callbacks\nhave %d\nwant 0", calls)
	}
}

func TestClickMiss(t *testing.T) {
	calls := 0
	h := NewHandler(
		WithCamera(newCamera()),
		WithViewport(width, height),
		WithTargets(targets{newSprite(mgl32.Vec3{0, 0, -100}, "hall")}),
		WithHotspotCallback(func(config.Action) { calls++ }),
	)

	h.OnPointerDown(10, 10)
	if h.OnPointerUp(10, 10) || calls != 0 {
		t.Fatalf("click in the corner hit a sprite, callbacks=%d", calls)
	}
}

func TestDisabledSpriteIsNotClickable(t *testing.T) {
	sp := newSprite(mgl32.Vec3{0, 0, -100}, "hall")
	sp.SetEnabled(false)
	h := NewHandler(WithCamera(newCamera()), WithViewport(width, height), WithTargets(targets{sp}))

	h.OnPointerDown(400, 300)
	if h.OnPointerUp(400, 300) {
		t.Fatal("disabled sprite was hit")
	}
}

func TestPointerUpWithoutDown(t *testing.T) {
	h := NewHandler(
		WithCamera(newCamera()),
		WithViewport(width, height),
		WithTargets(targets{newSprite(mgl32.Vec3{0, 0, -100}, "hall")}),
	)
	if h.OnPointerUp(400, 300) {
		t.Fatal("pointer up without a press should not click")
	}
}

func TestPointerMoveRotates(t *testing.T) {
	cam := newCamera()
	h := NewHandler(WithCamera(cam), WithViewport(width, height))

	h.OnPointerMove(500, 300)
	if cam.Controller().Update() {
		t.Fatal("move without a press rotated the camera")
	}

	h.OnPointerDown(400, 300)
	h.OnPointerMove(500, 300)
	if !h.Dragging() {
		t.Fatal("Dragging should be true between down and up")
	}
	before := cam.Controller().Azimuth()
	if !cam.Controller().Update() {
		t.Fatal("drag did not queue a rotation")
	}
	if cam.Controller().Azimuth() == before {
		t.Fatal("azimuth did not change")
	}
	h.OnPointerUp(500, 300)
	if h.Dragging() {
		t.Fatal("Dragging should be false after up")
	}
}

func TestOnResizeIgnoresZero(t *testing.T) {
	cam := newCamera()
	h := NewHandler(
		WithCamera(cam),
		WithViewport(width, height),
		WithTargets(targets{newSprite(mgl32.Vec3{0, 0, -100}, "hall")}),
	)
	h.OnResize(0, 0)

	// still mapped against 800x600, so the center hits
	h.OnPointerDown(400, 300)
	if !h.OnPointerUp(400, 300) {
		t.Fatal("zero resize changed the viewport")
	}
}

func TestNewHandlerPanicsWithoutCamera(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewHandler without a camera did not panic")
		}
	}()
	NewHandler()
}
