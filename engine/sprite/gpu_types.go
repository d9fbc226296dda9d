package sprite

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUSpriteUniform is the GPU-aligned representation of the sprite uniform buffer.
// Matches the SpriteUniform struct declared in the sprite shader.
// Size: 32 bytes.
type GPUSpriteUniform struct {
	Center  mgl32.Vec3 // offset  0: world position (vec3<f32>)
	Opacity float32    // offset 12
	Extent  mgl32.Vec2 // offset 16: width and height (vec2<f32>)
	_pad    [2]float32 // offset 24
}

// Size returns the size of the GPUSpriteUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUSpriteUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSpriteUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSpriteUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Center[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Opacity))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Extent[0]))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.Extent[1]))
	return buf
}
