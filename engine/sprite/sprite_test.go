package sprite

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestSprite(options ...SpriteBuilderOption) Sprite {
	return NewSprite(texture.NewTexture("icon.png", common.SpriteSampler()), options...)
}

func TestNewSpriteDefaults(t *testing.T) {
	s := newTestSprite()
	if !s.Enabled() {
		t.Fatal("new sprite should be enabled")
	}
	if have := s.Opacity(); have != 1 {
		t.Fatalf("Opacity\nhave %v\nwant 1", have)
	}
	if have := s.Scale(); have != DefaultScale {
		t.Fatalf("Scale\nhave %v\nwant %v", have, DefaultScale)
	}
	if s.Texture().Path() != "icon.png" {
		t.Fatalf("Texture().Path()\nhave %q\nwant %q", s.Texture().Path(), "icon.png")
	}
	if s.Label() != s.BindGroupProvider().Label() {
		t.Fatalf("Label\nhave %q\nwant %q", s.Label(), s.BindGroupProvider().Label())
	}
}

func TestSpriteIDsAreUnique(t *testing.T) {
	a, b := newTestSprite(), newTestSprite()
	if a.ID() == b.ID() || a.Label() == b.Label() {
		t.Fatalf("sprites share identity: %d/%q and %d/%q", a.ID(), a.Label(), b.ID(), b.Label())
	}
}

func TestSetOpacityClamps(t *testing.T) {
	s := newTestSprite(WithOpacity(0))
	if have := s.Opacity(); have != 0 {
		t.Fatalf("Opacity\nhave %v\nwant 0", have)
	}
	for _, c := range []struct{ in, want float32 }{{-1, 0}, {0.5, 0.5}, {3, 1}} {
		s.SetOpacity(c.in)
		if have := s.Opacity(); have != c.want {
			t.Fatalf("SetOpacity(%v)\nhave %v\nwant %v", c.in, have, c.want)
		}
	}
}

func TestWithScaleIgnoresNonPositive(t *testing.T) {
	s := newTestSprite(WithScale(mgl32.Vec2{0, 10}))
	if have := s.Scale(); have != DefaultScale {
		t.Fatalf("Scale\nhave %v\nwant %v", have, DefaultScale)
	}
	s = newTestSprite(WithScale(mgl32.Vec2{8, 4}))
	if have := s.Scale(); have != (mgl32.Vec2{8, 4}) {
		t.Fatalf("Scale\nhave %v\nwant [8 4]", have)
	}
}

func TestPayload(t *testing.T) {
	a := config.Action{Type: config.ActionRedirect, NextScene: "hall"}
	s := newTestSprite(WithPayload(a))
	if have := s.Payload(); have != a {
		t.Fatalf("Payload\nhave %+v\nwant %+v", have, a)
	}
}

func TestIntersect(t *testing.T) {
	s := newTestSprite(
		WithPosition(mgl32.Vec3{0, 0, -100}),
		WithScale(mgl32.Vec2{20, 10}),
	)
	right, up := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}

	cases := []struct {
		name   string
		origin mgl32.Vec3
		hit    bool
	}{
		{"center", mgl32.Vec3{0, 0, 0}, true},
		{"inside width", mgl32.Vec3{9, 0, 0}, true},
		{"outside width", mgl32.Vec3{11, 0, 0}, false},
		{"outside height", mgl32.Vec3{0, 6, 0}, false},
	}
	for _, c := range cases {
		ray := common.Ray{Origin: c.origin, Direction: mgl32.Vec3{0, 0, -1}}
		d, hit := s.Intersect(ray, right, up)
		if hit != c.hit {
			t.Fatalf("%s: hit\nhave %v\nwant %v", c.name, hit, c.hit)
		}
		if hit && math.Abs(float64(d-100)) > 1e-3 {
			t.Fatalf("%s: distance\nhave %v\nwant 100", c.name, d)
		}
	}

	s.SetEnabled(false)
	if _, hit := s.Intersect(common.Ray{Direction: mgl32.Vec3{0, 0, -1}}, right, up); hit {
		t.Fatal("disabled sprite should not be hit")
	}
}

func TestUniformMarshal(t *testing.T) {
	s := newTestSprite(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithScale(mgl32.Vec2{4, 5}),
		WithOpacity(0.5),
	)
	u := s.Uniform()
	if u.Extent != (mgl32.Vec2{4, 5}) {
		t.Fatalf("Extent\nhave %v\nwant [4 5]", u.Extent)
	}
	if u.Size() != 32 {
		t.Fatalf("Size()\nhave %d\nwant 32", u.Size())
	}
	b := u.Marshal()
	if len(b) != u.Size() {
		t.Fatalf("len(Marshal())\nhave %d\nwant %d", len(b), u.Size())
	}
	want := []float32{1, 2, 3, 0.5, 4, 5, 0, 0}
	for i, w := range want {
		have := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if have != w {
			t.Fatalf("float %d\nhave %v\nwant %v", i, have, w)
		}
	}
}

func TestReleaseResetsUpload(t *testing.T) {
	s := newTestSprite()
	s.MarkUploaded()
	if !s.Uploaded() {
		t.Fatal("MarkUploaded did not stick")
	}
	s.Release()
	if s.Uploaded() {
		t.Fatal("Release should clear the upload flag")
	}
	if s.Texture().State() != texture.StatePending {
		t.Fatalf("Release touched the icon texture: %v", s.Texture().State())
	}
}
