// Package renderertest provides a Renderer that records calls instead of touching a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Draw is one recorded draw call.
type Draw struct {
	// Pipeline is the pipeline key.
	Pipeline string
	// Mesh is the label of the mesh provider, empty for DrawVertices.
	Mesh string
	// VertexCount is set for DrawVertices.
	VertexCount uint32
	// BindGroups holds the labels of the bound providers in group order.
	BindGroups []string
}

// Recorder implements renderer.Renderer in memory. GPU objects are never created, providers are left empty.
type Recorder struct {
	mu sync.Mutex

	width, height int

	pipelines map[string]pipeline.Pipeline

	meshes     []string
	textures   []string
	samplers   []string
	bindGroups []string
	writes     []bind_group_provider.BufferWrite
	draws      []Draw
	frame      []Draw
	frames     int
	inFrame    bool
	released   bool

	// FailBeginFrame makes BeginFrame return an error.
	FailBeginFrame bool
}

var _ renderer.Renderer = &Recorder{}

// New creates a Recorder with the panorama and sprite pipelines registered.
//
// Parameters:
//   - width, height: the initial surface size
//
// Returns:
//   - *Recorder: the recorder
func New(width, height int) *Recorder {
	r := &Recorder{
		width:     width,
		height:    height,
		pipelines: make(map[string]pipeline.Pipeline),
	}
	_ = r.RegisterPipelines(renderer.PanoramaPipeline(), renderer.SpritePipeline())
	return r
}

func (r *Recorder) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *Recorder) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		if _, ok := r.pipelines[p.PipelineKey()]; !ok {
			r.pipelines[p.PipelineKey()] = p
		}
	}
	return nil
}

func (r *Recorder) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) SetPresentMode(renderer.PresentMode) {}

func (r *Recorder) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("mesh %q needs vertex and index data", provider.Label())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meshes = append(r.meshes, provider.Label())
	return nil
}

func (r *Recorder) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	if stagingData.Empty() {
		return fmt.Errorf("texture %q has no pixels", provider.Label())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textures = append(r.textures, provider.Label())
	return nil
}

func (r *Recorder) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samplers = append(r.samplers, provider.Label())
	return nil
}

func (r *Recorder) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindGroups = append(r.bindGroups, provider.Label())
	return nil
}

func (r *Recorder) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, writes...)
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailBeginFrame {
		return fmt.Errorf("surface lost")
	}
	if r.inFrame {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	r.inFrame = true
	r.frame = nil
	return nil
}

func (r *Recorder) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	d := Draw{Pipeline: pipelineKey, Mesh: meshProvider.Label(), BindGroups: labels(bindGroups)}
	r.draws = append(r.draws, d)
	r.frame = append(r.frame, d)
	return nil
}

func (r *Recorder) DrawVertices(pipelineKey string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	d := Draw{Pipeline: pipelineKey, VertexCount: vertexCount, BindGroups: labels(bindGroups)}
	r.draws = append(r.draws, d)
	r.frame = append(r.frame, d)
	return nil
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFrame = false
	r.frames++
}

func (r *Recorder) Present() {}

func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

// Frames returns the number of completed frames.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Draws returns every draw recorded so far.
func (r *Recorder) Draws() []Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Draw(nil), r.draws...)
}

// LastFrame returns the draws of the most recent frame.
func (r *Recorder) LastFrame() []Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Draw(nil), r.frame...)
}

// Meshes returns the labels of providers passed to InitMeshBuffers, in call order.
func (r *Recorder) Meshes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.meshes...)
}

// Textures returns the labels of providers passed to InitTextureView, in call order.
func (r *Recorder) Textures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.textures...)
}

// BindGroups returns the labels of providers passed to InitBindGroup, in call order.
func (r *Recorder) BindGroups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bindGroups...)
}

// Writes returns every buffer write flushed so far.
func (r *Recorder) Writes() []bind_group_provider.BufferWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bind_group_provider.BufferWrite(nil), r.writes...)
}

// Released reports whether Release was called.
func (r *Recorder) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

func labels(providers []bind_group_provider.BindGroupProvider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.Label()
	}
	return out
}
