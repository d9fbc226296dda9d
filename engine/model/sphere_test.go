package model

import (
	"encoding/binary"
	"math"
	"testing"
)

func vertexAt(m Model, i int) [8]float32 {
	var v [8]float32
	b := m.VertexData()[i*vertexStride:]
	for k := range v {
		v[k] = math.Float32frombits(binary.LittleEndian.Uint32(b[k*4:]))
	}
	return v
}

func TestNewSphereCounts(t *testing.T) {
	m := NewSphere("pano", PanoramaRadius, PanoramaSegments, PanoramaSegments)

	if have, want := m.VertexCount(), 129*129; have != want {
		t.Fatalf("VertexCount:\nhave %d\nwant %d", have, want)
	}
	// every quad is two triangles except the first and last row, which lose one each
	if have, want := m.IndexCount(), (128*128*2-2*128)*3; have != want {
		t.Fatalf("IndexCount:\nhave %d\nwant %d", have, want)
	}
	if have, want := len(m.IndexData()), m.IndexCount()*4; have != want {
		t.Fatalf("len(IndexData):\nhave %d\nwant %d", have, want)
	}
	if m.BoundingRadius() != PanoramaRadius {
		t.Fatalf("BoundingRadius:\nhave %v\nwant %v", m.BoundingRadius(), PanoramaRadius)
	}
	if m.MeshProvider().Label() != "pano" {
		t.Fatalf("MeshProvider label:\nhave %q\nwant \"pano\"", m.MeshProvider().Label())
	}
}

func TestNewSphereVertices(t *testing.T) {
	m := NewSphere("pano", 10, 8, 4)
	for i := range m.VertexCount() {
		v := vertexAt(m, i)
		r := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
		if math.Abs(r-10) > 1e-4 {
			t.Fatalf("vertex %d radius:\nhave %v\nwant 10", i, r)
		}
		// inward normal: position dot normal is -radius
		dot := v[0]*v[3] + v[1]*v[4] + v[2]*v[5]
		if math.Abs(float64(dot)+10) > 1e-4 {
			t.Fatalf("vertex %d position.normal:\nhave %v\nwant -10", i, dot)
		}
		if v[6] < 0 || v[6] > 1 || v[7] < 0 || v[7] > 1 {
			t.Fatalf("vertex %d uv out of range: %v", i, v[6:])
		}
	}

	top := vertexAt(m, 0)
	if top[1] != 10 || top[7] != 0 {
		t.Fatalf("first vertex:\nhave y=%v v=%v\nwant y=10 v=0", top[1], top[7])
	}
	// u=0 sits on +x after mirroring
	equator := vertexAt(m, 2*9)
	if math.Abs(float64(equator[0]-10)) > 1e-4 {
		t.Fatalf("equator u=0 x:\nhave %v\nwant 10", equator[0])
	}
}

func TestModelUploaded(t *testing.T) {
	m := NewSphere("pano", 1, 3, 2)
	if m.Uploaded() {
		t.Fatal("Uploaded: have true before MarkUploaded")
	}
	m.MarkUploaded()
	if !m.Uploaded() {
		t.Fatal("Uploaded: have false after MarkUploaded")
	}
	m.Release()
	if m.Uploaded() {
		t.Fatal("Uploaded: have true after Release")
	}
}
