package camera

import (
	"math"
	"testing"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestSetPosition(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10))
	if !near(cc.Radius(), 10, 1e-5) || !near(cc.Azimuth(), 0, 1e-5) || !near(cc.Elevation(), 0, 1e-5) {
		t.Fatalf("spherical:\nhave r=%v az=%v el=%v\nwant r=10 az=0 el=0", cc.Radius(), cc.Azimuth(), cc.Elevation())
	}

	cc.SetPosition(10, 0, 0)
	if !near(cc.Azimuth(), math.Pi/2, 1e-5) {
		t.Fatalf("Azimuth:\nhave %v\nwant %v", cc.Azimuth(), math.Pi/2)
	}
	x, y, z := cc.Position()
	if !near(x, 10, 1e-4) || !near(y, 0, 1e-4) || !near(z, 0, 1e-4) {
		t.Fatalf("Position:\nhave (%v, %v, %v)\nwant (10, 0, 0)", x, y, z)
	}
}

func TestDefaultStartClampsPole(t *testing.T) {
	cc := NewCameraController()
	if cc.Elevation() > cc.MaxElevation() {
		t.Fatalf("Elevation:\nhave %v\nwant <= %v", cc.Elevation(), cc.MaxElevation())
	}
	if !near(cc.Radius(), 199.9, 0.01) {
		t.Fatalf("Radius:\nhave %v\nwant 199.9", cc.Radius())
	}
}

func TestRotateDampingConverges(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10), WithRotateSpeed(-0.3))
	cc.Rotate(100, 0, 1000)

	// The geometric series of damped steps sums to the full queued delta.
	want := float32(-2 * math.Pi * 0.1 * -0.3)
	steps := 0
	for cc.Update() {
		steps++
		if steps > 10000 {
			t.Fatal("Update never settled")
		}
	}
	if steps < 2 {
		t.Fatalf("Update steps:\nhave %d\nwant > 1", steps)
	}
	if !near(cc.Azimuth(), want, 1e-3) {
		t.Fatalf("Azimuth:\nhave %v\nwant %v", cc.Azimuth(), want)
	}
	if !near(cc.Radius(), 10, 1e-4) {
		t.Fatalf("Radius changed:\nhave %v\nwant 10", cc.Radius())
	}
}

func TestRotateDirection(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10), WithRotateSpeed(-0.3))
	cc.Rotate(50, 0, 500)
	cc.Update()
	if cc.Azimuth() <= 0 {
		t.Fatalf("Azimuth after drag right with negative speed:\nhave %v\nwant > 0", cc.Azimuth())
	}
}

func TestElevationClamp(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10))
	cc.Rotate(0, -1e6, 100)
	for i := 0; i < 200 && cc.Update(); i++ {
	}
	if cc.Elevation() > cc.MaxElevation() || cc.Elevation() < cc.MinElevation() {
		t.Fatalf("Elevation:\nhave %v\nwant within [%v, %v]", cc.Elevation(), cc.MinElevation(), cc.MaxElevation())
	}
}

func TestSetPositionDropsPendingRotation(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10))
	cc.Rotate(300, 300, 600)
	cc.SetPosition(0, 0, 20)
	if cc.Update() {
		t.Fatal("Update after SetPosition:\nhave moved\nwant at rest")
	}
}
