package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

const (
	// DefaultDampingFactor is the share of the pending rotation applied per Update.
	DefaultDampingFactor float32 = 0.1

	// poleMargin keeps the elevation off the poles where the look-at basis degenerates.
	poleMargin float32 = 0.001

	// settleEpsilon is the pending rotation below which the controller is considered at rest.
	settleEpsilon float32 = 1e-6
)

// defaultStart is the camera position used until a scene supplies its own.
var defaultStart = [3]float32{-0.01, 199.9, 0.01}

// cameraControllerImpl is the single implementation of CameraController.
// Position is always derived from target plus the spherical offset (radius, azimuth, elevation).
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	start    [3]float32

	radius    float32
	azimuth   float32
	elevation float32

	minElevation float32
	maxElevation float32

	rotateSpeed   float32
	dampingFactor float32

	// pending rotation not yet applied by Update
	azimuthDelta   float32
	elevationDelta float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a damped orbit controller around the origin.
// The camera starts at (-0.01, 199.9, 0.01) unless WithPosition is given.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		start:         defaultStart,
		radius:        1,
		minElevation:  -math.Pi/2 + poleMargin,
		maxElevation:  math.Pi/2 - poleMargin,
		rotateSpeed:   DefaultRotateSpeed,
		dampingFactor: DefaultDampingFactor,
	}
	for _, option := range options {
		option(cc)
	}
	cc.setPosition(cc.start[0], cc.start[1], cc.start[2])
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setPosition(x, y, z)
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = common.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) RotateSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateSpeed
}

func (cc *cameraControllerImpl) SetRotateSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotateSpeed = speed
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	h := float32(viewportHeight)
	cc.azimuthDelta -= 2 * math.Pi * dx / h * cc.rotateSpeed
	cc.elevationDelta += 2 * math.Pi * dy / h * cc.rotateSpeed
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if abs(cc.azimuthDelta) < settleEpsilon && abs(cc.elevationDelta) < settleEpsilon {
		cc.azimuthDelta, cc.elevationDelta = 0, 0
		return false
	}

	cc.azimuth += cc.azimuthDelta * cc.dampingFactor
	cc.elevation = common.Clamp(cc.elevation+cc.elevationDelta*cc.dampingFactor, cc.minElevation, cc.maxElevation)
	cc.azimuthDelta *= 1 - cc.dampingFactor
	cc.elevationDelta *= 1 - cc.dampingFactor
	cc.updatePosition()
	return true
}

// --- internal helpers ---

// setPosition derives the spherical offset from a world position. Caller must hold the mutex.
func (cc *cameraControllerImpl) setPosition(x, y, z float32) {
	ox, oy, oz := x-cc.target[0], y-cc.target[1], z-cc.target[2]
	r := float32(math.Sqrt(float64(ox*ox + oy*oy + oz*oz)))
	if r > 0 {
		cc.radius = r
		cc.azimuth = float32(math.Atan2(float64(ox), float64(oz)))
		cc.elevation = common.Clamp(float32(math.Asin(float64(oy/r))), cc.minElevation, cc.maxElevation)
	}
	cc.azimuthDelta, cc.elevationDelta = 0, 0
	cc.updatePosition()
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
