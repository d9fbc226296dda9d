package camera

// DefaultRotateSpeed applies when the field of view falls outside every band in rotateSpeedBands.
const DefaultRotateSpeed float32 = -0.3

// rotateSpeedBand maps FOVs in [min, max] to a rotate speed.
type rotateSpeedBand struct {
	min, max float32
	speed    float32
}

// Narrower fields of view get slower speeds so a drag sweeps a similar share of the screen at every zoom level.
// The gaps between bands (40 < fov < 41 and so on) are not covered and use DefaultRotateSpeed.
var rotateSpeedBands = [...]rotateSpeedBand{
	{30, 40, -0.13},
	{41, 50, -0.18},
	{51, 60, -0.22},
	{61, 70, -0.25},
	{71, 80, -0.30},
	{81, 90, -0.33},
	{91, MaxFov, -0.37},
}

// RotateSpeedForFov returns the orbit rotate speed for a vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - float32: the speed of the band containing fov, or DefaultRotateSpeed if no band does
func RotateSpeedForFov(fov float32) float32 {
	for _, b := range rotateSpeedBands {
		if fov >= b.min && fov <= b.max {
			return b.speed
		}
	}
	return DefaultRotateSpeed
}
