package camera

import "testing"

func TestRotateSpeedForFov(t *testing.T) {
	for _, c := range [...]struct {
		fov  float32
		want float32
	}{
		{45, -0.18},
		{200, DefaultRotateSpeed},
		{29.9, DefaultRotateSpeed},
		{30, -0.13},
		{40, -0.13},
		{40.5, DefaultRotateSpeed},
		{41, -0.18},
		{50, -0.18},
		{60, -0.22},
		{75, -0.30},
		{90, -0.33},
		{91, -0.37},
		{100, -0.37},
		{100.01, DefaultRotateSpeed},
	} {
		if x := RotateSpeedForFov(c.fov); x != c.want {
			t.Fatalf("RotateSpeedForFov(%v):\nhave %v\nwant %v", c.fov, x, c.want)
		}
	}
}

func TestRotateSpeedGapsUseDefault(t *testing.T) {
	// 100 * 0.8^4, reachable by zooming in four steps from the widest view
	wheel := float32(100)
	for range 4 {
		wheel *= 0.8
	}
	for _, fov := range []float32{wheel, 50.5, 60.2, 70.9, 80.01, 90.5} {
		if x := RotateSpeedForFov(fov); x != DefaultRotateSpeed {
			t.Fatalf("RotateSpeedForFov(%v):\nhave %v\nwant %v", fov, x, DefaultRotateSpeed)
		}
	}
}
