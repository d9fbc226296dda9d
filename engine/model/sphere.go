package model

import (
	"encoding/binary"
	"math"
)

const (
	// PanoramaRadius is the radius of the panorama sphere in world units.
	PanoramaRadius = 500
	// PanoramaSegments is the number of width and height segments of the panorama sphere.
	PanoramaSegments = 128

	// vertexStride is position (3), normal (3), uv (2) as float32.
	vertexStride = 32
)

// NewSphere builds a UV sphere meant to be viewed from the inside.
// The x axis is mirrored so an equirectangular image reads left to right from the center, and normals
// point inward. The uv origin is the top-left of the image: u grows with longitude, v with polar angle.
//
// Parameters:
//   - name: the model name
//   - radius: the sphere radius
//   - widthSegments: longitudinal segments, at least 3
//   - heightSegments: latitudinal segments, at least 2
//
// Returns:
//   - Model: the sphere mesh
func NewSphere(name string, radius float32, widthSegments, heightSegments int) Model {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	cols := widthSegments + 1
	rows := heightSegments + 1
	vertexData := make([]byte, 0, cols*rows*vertexStride)

	for iy := range rows {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		for ix := range cols {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi

			nx := -math.Cos(phi) * math.Sin(theta)
			ny := math.Cos(theta)
			nz := math.Sin(phi) * math.Sin(theta)

			// mirrored on x for viewing from inside
			px, py, pz := -float32(nx)*radius, float32(ny)*radius, float32(nz)*radius

			vertexData = appendFloats(vertexData,
				px, py, pz,
				-px/radius, -py/radius, -pz/radius,
				float32(u), float32(v),
			)
		}
	}

	indexData := make([]byte, 0, widthSegments*heightSegments*6*4)
	indexCount := 0
	for iy := range heightSegments {
		for ix := range widthSegments {
			a := uint32(iy*cols + ix + 1)
			b := uint32(iy*cols + ix)
			c := uint32((iy+1)*cols + ix)
			d := uint32((iy+1)*cols + ix + 1)
			// the pole rows collapse to a point, skip their degenerate triangle
			if iy != 0 {
				indexData = appendIndices(indexData, a, b, d)
				indexCount += 3
			}
			if iy != heightSegments-1 {
				indexData = appendIndices(indexData, b, c, d)
				indexCount += 3
			}
		}
	}

	return NewModel(name, vertexData, indexData, indexCount, WithBoundingRadius(radius))
}

// --- internal helpers ---

func appendFloats(b []byte, values ...float32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func appendIndices(b []byte, values ...uint32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}
