package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// PipelineKeyPanorama draws the textured panorama sphere.
	PipelineKeyPanorama = "panorama"
	// PipelineKeySprite draws camera-facing hotspot icons.
	PipelineKeySprite = "sprite"

	// SpriteVertexCount is the number of vertices generated per sprite quad.
	SpriteVertexCount = 6

	// VertexStride is the size of one panorama vertex: position, normal and uv, all float32.
	VertexStride = 32

	// CameraUniformSize is the size of the camera uniform buffer in bytes.
	CameraUniformSize = 96
	// SpriteUniformSize is the size of the per-sprite uniform buffer in bytes.
	SpriteUniformSize = 32
)

//go:embed assets/panorama.wgsl
var panoramaShaderSource string

//go:embed assets/sprite.wgsl
var spriteShaderSource string

// CameraLayout is bind group 0 of both pipelines: the camera uniform.
var CameraLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "camera",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: CameraUniformSize,
			},
		},
	},
}

// TextureLayout holds a sampled 2D texture at binding 0 and its filtering sampler at binding 1.
// It is group 1 of the panorama pipeline and group 2 of the sprite pipeline.
var TextureLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "texture",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	},
}

// SpriteLayout is group 1 of the sprite pipeline: the per-sprite uniform.
var SpriteLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "sprite",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: SpriteUniformSize,
			},
		},
	},
}

// PanoramaPipeline returns the pipeline for the panorama sphere.
// The camera sits inside the sphere, so nothing is culled.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
func PanoramaPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineKeyPanorama, panoramaShaderSource,
		pipeline.WithVertexLayouts(wgpu.VertexBufferLayout{
			ArrayStride: VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			},
		}),
		pipeline.WithBindGroupLayouts(CameraLayout, TextureLayout),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}

// SpritePipeline returns the pipeline for hotspot icons: premultiplied alpha blending, depth tested but not
// written so overlapping icons blend.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
func SpritePipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineKeySprite, spriteShaderSource,
		pipeline.WithBindGroupLayouts(CameraLayout, SpriteLayout, TextureLayout),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendState(&wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}),
	)
}
