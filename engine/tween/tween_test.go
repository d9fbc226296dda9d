package tween

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestAnimateReachesEnd(t *testing.T) {
	a := NewAnimator()
	var values []float32
	finished := 0
	a.AnimateThen("fade", 0, 1, 0.8, ease.OutQuad, func(v float32) { values = append(values, v) }, func() { finished++ })

	if len(values) != 1 || values[0] != 0 {
		t.Fatalf("initial apply:\nhave %v\nwant [0]", values)
	}
	for i := 0; i < 100 && a.Running("fade"); i++ {
		a.Update(1.0 / 60)
	}
	if a.Running("fade") || a.Active() != 0 {
		t.Fatal("tween still running after its duration")
	}
	if last := values[len(values)-1]; last != 1 {
		t.Fatalf("final value:\nhave %v\nwant 1", last)
	}
	if finished != 1 {
		t.Fatalf("done calls:\nhave %d\nwant 1", finished)
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("values not increasing at %d: %v", i, values)
		}
	}
}

func TestOutQuadIsFrontLoaded(t *testing.T) {
	a := NewAnimator()
	var v float32
	a.Animate("fade", 0, 1, 1, ease.OutQuad, func(x float32) { v = x })
	a.Update(0.5)
	// power2.out at half time is 0.75
	if math.Abs(float64(v-0.75)) > 1e-5 {
		t.Fatalf("value at t=0.5:\nhave %v\nwant 0.75", v)
	}
}

func TestAnimateReplacesKey(t *testing.T) {
	a := NewAnimator()
	var first, second float32
	a.Animate("fov", 75, 60, 1, ease.Linear, func(x float32) { first = x })
	a.Animate("fov", 60, 48, 1, ease.Linear, func(x float32) { second = x })
	if a.Active() != 1 {
		t.Fatalf("Active:\nhave %d\nwant 1", a.Active())
	}
	a.Update(2)
	if first != 75 || second != 48 {
		t.Fatalf("values:\nhave first=%v second=%v\nwant first=75 second=48", first, second)
	}
}

func TestAnimateZeroDuration(t *testing.T) {
	a := NewAnimator()
	var v float32
	a.Animate("snap", 0, 1, 0, nil, func(x float32) { v = x })
	if v != 1 || a.Active() != 0 {
		t.Fatalf("zero duration:\nhave v=%v active=%d\nwant v=1 active=0", v, a.Active())
	}
}

func TestCancel(t *testing.T) {
	a := NewAnimator()
	var v float32
	a.Animate("fade", 0, 1, 1, ease.Linear, func(x float32) { v = x })
	a.Update(0.25)
	a.Cancel("fade")
	a.Update(1)
	if math.Abs(float64(v-0.25)) > 1e-5 {
		t.Fatalf("value after cancel:\nhave %v\nwant 0.25", v)
	}
	a.Cancel("unknown")
}
