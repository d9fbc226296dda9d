package camera

type CameraControllerOption func(*cameraControllerImpl)

// WithTarget sets the orbit target.
//
// Parameters:
//   - x, y, z: target components
//
// Returns:
//   - CameraControllerOption: a function that sets the target
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithPosition sets the starting camera position. See CameraController.SetPosition.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraControllerOption: a function that sets the start position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.start = [3]float32{x, y, z}
	}
}

// WithElevationBounds sets the elevation limits in radians.
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithRotateSpeed sets the initial rotate speed.
//
// Parameters:
//   - speed: multiplier applied to pointer deltas
//
// Returns:
//   - CameraControllerOption: a function that sets the rotate speed
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithDampingFactor sets the fraction of pending rotation applied per Update, in (0, 1].
func WithDampingFactor(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor > 0 && factor <= 1 {
			cc.dampingFactor = factor
		}
	}
}
