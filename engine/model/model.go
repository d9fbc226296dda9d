package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name                  string
	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
	uploaded              bool
}

// Model is CPU-side mesh data together with the BindGroupProvider that holds its GPU buffers once uploaded.
// Vertices are interleaved position, normal and uv (8 float32), indices are uint32.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// MeshProvider returns the provider that receives the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the interleaved vertex bytes.
	VertexData() []byte

	// IndexData returns the uint32 index bytes.
	IndexData() []byte

	// IndexCount returns the number of indices.
	IndexCount() int

	// VertexCount returns the number of vertices.
	VertexCount() int

	// BoundingRadius returns the distance from the origin to the farthest vertex.
	BoundingRadius() float32

	// Uploaded reports whether the GPU buffers have been created.
	Uploaded() bool

	// MarkUploaded records that the renderer has created the GPU buffers.
	MarkUploaded()

	// Release frees the GPU buffers. The CPU data stays, so the model can be uploaded again.
	Release()
}

var _ Model = &model{}

// NewModel wraps prepared mesh data.
//
// Parameters:
//   - name: the model name, also used as the provider label
//   - vertexData: interleaved vertex bytes
//   - indexData: uint32 index bytes
//   - indexCount: number of indices in indexData
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the model
func NewModel(name string, vertexData, indexData []byte, indexCount int, options ...ModelBuilderOption) Model {
	m := &model{
		mu:           &sync.Mutex{},
		name:         name,
		vertexData:   vertexData,
		indexData:    indexData,
		indexCount:   indexCount,
		meshProvider: bind_group_provider.NewBindGroupProvider(name),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) VertexCount() int {
	return len(m.vertexData) / vertexStride
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Uploaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploaded
}

func (m *model) MarkUploaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = true
}

func (m *model) Release() {
	m.mu.Lock()
	m.uploaded = false
	m.mu.Unlock()
	m.meshProvider.Release()
}
