// Package scene builds the render graph for one panorama at a time: the textured sphere and its hotspot sprites.
package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/sprite"
	"github.com/Carmen-Shannon/oxy-pano/engine/texture"
	"github.com/Carmen-Shannon/oxy-pano/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// DefaultFadeSeconds is how long a new hotspot takes to fade in.
const DefaultFadeSeconds float32 = 0.8

// placeholder is drawn on the sphere when the panorama failed to load.
var placeholder = common.TextureStagingData{Pixels: []byte{0, 0, 0, 255}, Width: 1, Height: 1}

// releaser is anything holding GPU resources that must be freed on the render goroutine.
type releaser interface {
	Release()
}

type scene struct {
	mu *sync.Mutex

	log *logger.Logger

	camera   camera.Camera
	renderer renderer.Renderer

	panoramas loader.Loader
	icons     texture.Cache
	animator  tween.Animator
	manager   loader.LoadingManager

	iconScale   mgl32.Vec2
	fadeSeconds float32

	current  config.Scene
	loaded   bool
	panorama model.Model
	panoTex  texture.Texture
	sprites  []sprite.Sprite

	// detached objects whose GPU resources are freed by the next PrepareFrame
	graveyard []releaser

	cameraReady bool
}

// Scene is the render graph of the viewer. At most one scene definition is attached at a time; Load swaps
// it wholesale. Load and Clear may run on any goroutine, PrepareFrame and DrawCalls run on the render
// goroutine, which is the only place GPU resources are created or freed.
type Scene interface {
	// Load detaches the current objects and builds the graph for def: the panorama sphere, its texture
	// (loaded asynchronously) and one fading-in sprite per icon. The camera controller is moved to
	// def.CameraPosition.
	//
	// Parameters:
	//   - def: the scene definition to attach
	Load(def config.Scene)

	// Clear detaches every object. Sprite uniforms, the sphere mesh and the panorama texture are freed on the
	// next PrepareFrame. Cached icon textures are never freed here.
	Clear()

	// Current returns the attached scene definition.
	//
	// Returns:
	//   - config.Scene: the definition passed to the last Load
	//   - bool: false if nothing is attached
	Current() (config.Scene, bool)

	// Sprites returns the attached hotspot sprites in icon order.
	Sprites() []sprite.Sprite

	// Panorama returns the attached sphere, or nil.
	Panorama() model.Model

	// PanoramaTexture returns the texture of the attached sphere, or nil.
	PanoramaTexture() texture.Texture

	// Children returns the labels of every attached object, the sphere first.
	Children() []string

	// Camera returns the camera the scene is viewed through.
	Camera() camera.Camera

	// PrepareFrame frees detached objects, uploads whatever became ready since the last frame and writes
	// the camera and sprite uniforms. Upload failures are logged and the object is skipped.
	//
	// Returns:
	//   - error: an error if the camera bind group could not be created
	PrepareFrame() error

	// DrawCalls draws the panorama and then the visible sprites back to front.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: the first draw error
	DrawCalls() error

	// Release detaches everything and frees the GPU resources owned by the scene. Call it on the render
	// goroutine. The icon cache and the camera are left alone.
	Release()
}

var _ Scene = &scene{}

// NewScene creates an empty Scene.
// Panics if cam, r or panoramas is nil.
//
// Parameters:
//   - cam: the camera the scene is viewed through
//   - r: the renderer the scene uploads to and draws with
//   - panoramas: the loader used for panorama images
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(cam camera.Camera, r renderer.Renderer, panoramas loader.Loader, options ...SceneBuilderOption) Scene {
	if cam == nil || r == nil || panoramas == nil {
		panic("scene: camera, renderer and loader are required")
	}
	s := &scene{
		mu:          &sync.Mutex{},
		log:         logger.Nop(),
		camera:      cam,
		renderer:    r,
		panoramas:   panoramas,
		iconScale:   sprite.DefaultScale,
		fadeSeconds: DefaultFadeSeconds,
	}
	for _, option := range options {
		option(s)
	}
	if s.icons == nil {
		s.icons = texture.NewCache(panoramas, texture.WithLogger(s.log))
	}
	if s.animator == nil {
		s.animator = tween.NewAnimator(tween.WithLogger(s.log))
	}
	if s.manager == nil {
		s.manager = loader.NewLoadingManager(loader.WithManagerLogger(s.log))
	}
	return s
}

func (s *scene) Load(def config.Scene) {
	s.Clear()

	if ctrl := s.camera.Controller(); ctrl != nil {
		p := def.CameraPosition
		ctrl.SetPosition(p.X, p.Y, p.Z)
	}
	s.camera.Update()

	panoTex := texture.NewTexture(def.Path, common.PanoramaSampler())
	sphere := model.NewSphere("panorama", model.PanoramaRadius, model.PanoramaSegments, model.PanoramaSegments)

	sprites := make([]sprite.Sprite, 0, len(def.Icons))
	for _, icon := range def.Icons {
		scale := s.iconScale
		if icon.Scale != nil {
			scale = mgl32.Vec2{icon.Scale.X, icon.Scale.Y}
		}
		sprites = append(sprites, sprite.NewSprite(
			s.icons.Get(icon.Src),
			sprite.WithPosition(mgl32.Vec3{icon.Position.X, icon.Position.Y, icon.Position.Z}),
			sprite.WithScale(scale),
			sprite.WithOpacity(0),
			sprite.WithPayload(icon.Action),
		))
	}

	s.mu.Lock()
	s.current = def
	s.loaded = true
	s.panorama = sphere
	s.panoTex = panoTex
	s.sprites = sprites
	s.mu.Unlock()

	s.log.Infow("scene loaded", "id", def.ID, "path", def.Path, "icons", len(sprites))

	// start after attaching so a synchronous loader resolves an attached handle
	s.manager.ItemStart(def.Path)
	s.panoramas.LoadAsync(def.Path, func(data common.TextureStagingData, err error) {
		if err != nil {
			s.log.Errorw("failed to load panorama", "id", def.ID, "path", def.Path, "error", err)
			panoTex.Fail(err)
			s.manager.ItemError(def.Path, err)
			return
		}
		panoTex.Resolve(data)
		s.manager.ItemEnd(def.Path)
	})

	for _, sp := range sprites {
		s.animator.Animate(fadeKey(sp), 0, 1, s.fadeSeconds, ease.OutQuad, sp.SetOpacity)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.panorama != nil {
		s.graveyard = append(s.graveyard, s.panorama)
		s.panorama = nil
	}
	if s.panoTex != nil {
		s.graveyard = append(s.graveyard, s.panoTex)
		s.panoTex = nil
	}
	for _, sp := range s.sprites {
		s.animator.Cancel(fadeKey(sp))
		s.graveyard = append(s.graveyard, sp)
	}
	s.sprites = nil
	if s.loaded {
		s.log.Debugw("scene cleared", "id", s.current.ID)
	}
	s.current = config.Scene{}
	s.loaded = false
}

func (s *scene) Current() (config.Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
}

func (s *scene) Sprites() []sprite.Sprite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sprites)
}

func (s *scene) Panorama() model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panorama
}

func (s *scene) PanoramaTexture() texture.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panoTex
}

func (s *scene) Children() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	if s.panorama != nil {
		out = append(out, s.panorama.Name())
	}
	for _, sp := range s.sprites {
		out = append(out, sp.Label())
	}
	return out
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) PrepareFrame() error {
	s.mu.Lock()
	graveyard := s.graveyard
	s.graveyard = nil
	sphere, panoTex := s.panorama, s.panoTex
	sprites := slices.Clone(s.sprites)
	cameraReady := s.cameraReady
	s.mu.Unlock()

	for _, r := range graveyard {
		r.Release()
	}

	camProvider := s.camera.BindGroupProvider()
	if !cameraReady {
		if err := s.renderer.InitBindGroup(camProvider, renderer.CameraLayout); err != nil {
			return fmt.Errorf("failed to init camera bind group: %w", err)
		}
		s.mu.Lock()
		s.cameraReady = true
		s.mu.Unlock()
	}

	uniform := s.camera.Uniform()
	writes := []bind_group_provider.BufferWrite{{Provider: camProvider, Binding: 0, Data: uniform.Marshal()}}

	if sphere != nil && !sphere.Uploaded() {
		if err := s.renderer.InitMeshBuffers(sphere.MeshProvider(), sphere.VertexData(), sphere.IndexData(), sphere.IndexCount()); err != nil {
			s.log.Errorw("failed to upload panorama mesh", "error", err)
		} else {
			sphere.MarkUploaded()
		}
	}
	if panoTex != nil {
		s.uploadTexture(panoTex, true)
	}

	for _, sp := range sprites {
		if !sp.Uploaded() {
			if err := s.renderer.InitBindGroup(sp.BindGroupProvider(), renderer.SpriteLayout); err != nil {
				s.log.Errorw("failed to init sprite bind group", "sprite", sp.Label(), "error", err)
				continue
			}
			sp.MarkUploaded()
		}
		s.uploadTexture(sp.Texture(), false)
		u := sp.Uniform()
		writes = append(writes, bind_group_provider.BufferWrite{Provider: sp.BindGroupProvider(), Binding: 0, Data: u.Marshal()})
	}

	s.renderer.WriteBuffers(writes)
	return nil
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	sphere, panoTex := s.panorama, s.panoTex
	sprites := slices.Clone(s.sprites)
	s.mu.Unlock()

	camProvider := s.camera.BindGroupProvider()
	var errs []error

	if sphere != nil && sphere.Uploaded() && panoTex != nil && panoTex.Uploaded() {
		groups := []bind_group_provider.BindGroupProvider{camProvider, panoTex.BindGroupProvider()}
		if err := s.renderer.DrawCall(renderer.PipelineKeyPanorama, sphere.MeshProvider(), groups); err != nil {
			errs = append(errs, err)
		}
	}

	eye := s.camera.Position()
	visible := sprites[:0]
	for _, sp := range sprites {
		if sp.Enabled() && sp.Uploaded() && sp.Texture().Uploaded() && sp.Opacity() > 0 {
			visible = append(visible, sp)
		}
	}
	// blended quads go back to front
	slices.SortStableFunc(visible, func(a, b sprite.Sprite) int {
		da, db := a.Position().Sub(eye).LenSqr(), b.Position().Sub(eye).LenSqr()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	for _, sp := range visible {
		groups := []bind_group_provider.BindGroupProvider{camProvider, sp.BindGroupProvider(), sp.Texture().BindGroupProvider()}
		if err := s.renderer.DrawVertices(renderer.PipelineKeySprite, renderer.SpriteVertexCount, groups); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Release() {
	s.Clear()
	s.mu.Lock()
	graveyard := s.graveyard
	s.graveyard = nil
	s.cameraReady = false
	s.mu.Unlock()
	for _, r := range graveyard {
		r.Release()
	}
}

// --- internal helpers ---

// uploadTexture creates the GPU texture, sampler and bind group once the texture has pixels.
// A failed panorama gets the placeholder instead; a failed icon is never drawn.
// A texture whose upload fails is marked uploaded anyway, the backend skips draws with missing bind groups.
func (s *scene) uploadTexture(t texture.Texture, usePlaceholder bool) {
	if t.Uploaded() {
		return
	}
	var data common.TextureStagingData
	switch t.State() {
	case texture.StateReady:
		data, _ = t.StagingData()
	case texture.StateFailed:
		if !usePlaceholder {
			return
		}
		data = placeholder
	default:
		return
	}

	p := t.BindGroupProvider()
	err := s.renderer.InitTextureView(p, 0, data)
	if err == nil {
		err = s.renderer.InitSampler(p, 1, t.Sampler())
	}
	if err == nil {
		err = s.renderer.InitBindGroup(p, renderer.TextureLayout)
	}
	if err != nil {
		s.log.Errorw("failed to upload texture", "path", t.Path(), "error", err)
	} else {
		s.log.Debugw("texture uploaded", "path", t.Path(), "width", data.Width, "height", data.Height)
	}
	t.MarkUploaded()
}

func fadeKey(sp sprite.Sprite) string {
	return "fade:" + sp.Label()
}
