package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line used for pointer picking.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// ScreenToNDC maps a pointer position in window pixels to normalized device coordinates.
// The top-left corner maps to (-1, 1) and the bottom-right corner to (1, -1).
//
// Parameters:
//   - x, y: the pointer position in pixels, origin at the top-left of the window
//   - width, height: the window size in pixels
//
// Returns:
//   - float32: the NDC x coordinate
//   - float32: the NDC y coordinate
func ScreenToNDC(x, y float32, width, height int) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x/float32(width)*2 - 1, -(y/float32(height))*2 + 1
}

// RayFromNDC unprojects an NDC point through the inverse of a view-projection matrix.
// The near plane sits at depth 0 and the far plane at depth 1, matching Perspective.
//
// Parameters:
//   - ndcX, ndcY: the point in normalized device coordinates
//   - viewProj: the camera view-projection matrix
//
// Returns:
//   - Ray: the ray from the near plane through the far plane, with a unit direction
//   - bool: false if the matrix cannot be inverted
func RayFromNDC(ndcX, ndcY float32, viewProj mgl32.Mat4) (Ray, bool) {
	if viewProj.Det() == 0 {
		return Ray{}, false
	}
	inv := viewProj.Inv()
	near := unproject(inv, mgl32.Vec4{ndcX, ndcY, 0, 1})
	far := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	dir := far.Sub(near)
	if dir.LenSqr() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere returns the distance to the nearest intersection with a sphere in front of the ray origin.
// A ray starting inside the sphere hits the far wall.
//
// Parameters:
//   - center: the sphere center
//   - radius: the sphere radius
//
// Returns:
//   - float32: the distance along the ray
//   - bool: true if the ray hits the sphere
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	if t := -b - sq; t >= 0 {
		return t, true
	}
	if t := -b + sq; t >= 0 {
		return t, true
	}
	return 0, false
}

// IntersectBillboard tests the ray against a camera-facing quad.
// The quad is centred on center and spans halfWidth along right and halfHeight along up.
//
// Parameters:
//   - center: the quad center in world space
//   - right, up: the camera right and up axes, unit length
//   - halfWidth, halfHeight: half extents of the quad in world units
//
// Returns:
//   - float32: the distance along the ray
//   - bool: true if the ray hits the quad in front of its origin
func (r Ray) IntersectBillboard(center, right, up mgl32.Vec3, halfWidth, halfHeight float32) (float32, bool) {
	normal := right.Cross(up)
	denom := r.Direction.Dot(normal)
	if float32(math.Abs(float64(denom))) < 1e-6 {
		return 0, false
	}
	t := center.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false
	}
	local := r.At(t).Sub(center)
	if abs32(local.Dot(right)) > halfWidth || abs32(local.Dot(up)) > halfHeight {
		return 0, false
	}
	return t, true
}

// --- internal helpers ---

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	v := inv.Mul4x1(p)
	if v.W() == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
