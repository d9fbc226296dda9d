package camera

// CameraController defines a damped orbit controller around a fixed target.
// Dragging accumulates a rotation delta that Update bleeds into azimuth and elevation a fraction at a time,
// so motion eases out after the pointer is released. The orbit radius is fixed: zoom is done through the
// camera field of view, and panning is not supported.
type CameraController interface {
	// Position returns the world-space camera position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition places the camera at a world-space position. Radius, azimuth and elevation are derived
	// from the offset to the target, and any pending rotation is dropped.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// SetTarget moves the orbit target, keeping the spherical offset.
	//
	// Parameters:
	//   - x, y, z: target components
	SetTarget(x, y, z float32)

	// Radius returns the distance between camera and target.
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis, in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle from the horizontal plane, in radians.
	Elevation() float32

	// SetElevation sets the vertical angle in radians, clamped to the elevation bounds.
	SetElevation(elevation float32)

	// MinElevation returns the lowest allowed elevation in radians.
	MinElevation() float32

	// MaxElevation returns the highest allowed elevation in radians.
	MaxElevation() float32

	// RotateSpeed returns the multiplier applied to pointer deltas. Negative values invert the drag.
	RotateSpeed() float32

	// SetRotateSpeed sets the multiplier applied to pointer deltas.
	//
	// Parameters:
	//   - speed: the new rotate speed, typically RotateSpeedForFov(camera.Fov())
	SetRotateSpeed(speed float32)

	// DampingFactor returns the fraction of the pending rotation applied per Update.
	DampingFactor() float32

	// Rotate queues a rotation from a pointer drag. A drag across the full viewport height
	// turns the camera by 2π·RotateSpeed.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels since the last call
	//   - viewportHeight: the viewport height in pixels
	Rotate(dx, dy float32, viewportHeight int)

	// Update applies one damping step of the pending rotation.
	// Should be called once per tick.
	//
	// Returns:
	//   - bool: true if the camera moved
	Update() bool
}
