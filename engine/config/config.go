// Package config loads the declarative tour: the list of panorama scenes, their hotspot icons and
// the viewer settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Parse, Load and Validate.
var ErrInvalid = errors.New("invalid tour config")

// Mode selects how panorama images are decoded.
type Mode string

const (
	// ModeEquirect renders 8-bit equirectangular images as-is.
	ModeEquirect Mode = "equirect"
	// ModeHDR expects Radiance RGBE images and tone-maps them.
	ModeHDR Mode = "hdr"
)

// ActionType names what a hotspot does when clicked.
type ActionType string

// ActionRedirect loads Action.NextScene.
const ActionRedirect ActionType = "REDIRECT"

// Vec3 is a position in world units.
type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Vec2 is a width/height pair in world units.
type Vec2 struct {
	X float32 `yaml:"x" validate:"gte=0"`
	Y float32 `yaml:"y" validate:"gte=0"`
}

// Action is the payload attached to a hotspot and handed to the click callback.
type Action struct {
	Type      ActionType `yaml:"type" validate:"required,actiontype"`
	NextScene string     `yaml:"nextScene" validate:"required_if=Type REDIRECT"`
}

// Icon is one hotspot placed on the panorama sphere.
type Icon struct {
	Position Vec3   `yaml:"position"`
	Src      string `yaml:"src" validate:"required"`
	// Scale overrides Viewer.IconScale for this icon.
	Scale  *Vec2  `yaml:"scale,omitempty"`
	Action Action `yaml:"action"`
}

// Scene is one panorama with its hotspots.
type Scene struct {
	ID             string `yaml:"id" validate:"required"`
	Path           string `yaml:"path" validate:"required"`
	CameraPosition Vec3   `yaml:"cameraPosition"`
	Icons          []Icon `yaml:"icons" validate:"dive"`
}

// Window configures the native window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width" validate:"gte=0"`
	Height int    `yaml:"height" validate:"gte=0"`
	VSync  *bool  `yaml:"vsync,omitempty"`
}

// Viewer holds the rendering and interaction settings.
type Viewer struct {
	Fov            float32 `yaml:"fov" validate:"omitempty,gte=30,lte=100"`
	IconScale      Vec2    `yaml:"iconScale"`
	FadeSeconds    float32 `yaml:"fadeSeconds" validate:"gte=0"`
	MaxTextureSize int     `yaml:"maxTextureSize" validate:"gte=0"`
	Workers        int     `yaml:"workers" validate:"gte=0"`
	Exposure       float32 `yaml:"exposure" validate:"gte=0"`
	TickRate       int     `yaml:"tickRate" validate:"gte=0"`
}

// Tour is the root of the configuration file.
type Tour struct {
	Mode   Mode    `yaml:"mode" validate:"omitempty,oneof=equirect hdr"`
	Start  string  `yaml:"start"`
	Window Window  `yaml:"window"`
	Viewer Viewer  `yaml:"viewer"`
	Scenes []Scene `yaml:"scenes" validate:"required,min=1,dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("actiontype", validateActionType)
}

// Load reads and validates a tour file.
//
// Parameters:
//   - path: the YAML file path
//
// Returns:
//   - *Tour: the tour with defaults applied
//   - []string: non-fatal warnings, such as redirects to unknown scenes
//   - error: a read, parse or validation error; validation errors wrap ErrInvalid
func Load(path string) (*Tour, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tour config: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a tour from YAML bytes. Unknown keys are rejected.
//
// Parameters:
//   - b: the YAML document
//
// Returns:
//   - *Tour: the tour with defaults applied
//   - []string: non-fatal warnings
//   - error: a parse or validation error
func Parse(b []byte) (*Tour, []string, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var t Tour
	if err := dec.Decode(&t); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tour config: %w", err)
	}
	t.ApplyDefaults()
	warnings, err := t.Validate()
	if err != nil {
		return nil, warnings, err
	}
	return &t, warnings, nil
}

// ApplyDefaults fills every zero setting with its default value.
func (t *Tour) ApplyDefaults() {
	if t.Mode == "" {
		t.Mode = ModeEquirect
	}
	if t.Window.Title == "" {
		t.Window.Title = "oxy-pano"
	}
	if t.Window.Width == 0 {
		t.Window.Width = 1280
	}
	if t.Window.Height == 0 {
		t.Window.Height = 720
	}
	if t.Viewer.Fov == 0 {
		t.Viewer.Fov = 75
	}
	if t.Viewer.IconScale == (Vec2{}) {
		t.Viewer.IconScale = Vec2{X: 32, Y: 32}
	}
	if t.Viewer.FadeSeconds == 0 {
		t.Viewer.FadeSeconds = 0.8
	}
	if t.Viewer.MaxTextureSize == 0 {
		t.Viewer.MaxTextureSize = 8192
	}
	if t.Viewer.Workers == 0 {
		t.Viewer.Workers = 4
	}
	if t.Viewer.Exposure == 0 {
		t.Viewer.Exposure = 1
	}
	if t.Viewer.TickRate == 0 {
		t.Viewer.TickRate = 60
	}
	if t.Start == "" && len(t.Scenes) > 0 {
		t.Start = t.Scenes[0].ID
	}
}

// Validate checks field rules and cross references.
// Duplicate scene ids and an unknown start scene are errors. A redirect to an unknown scene is only a
// warning, the click is ignored at runtime.
//
// Returns:
//   - []string: non-fatal warnings
//   - error: an error wrapping ErrInvalid, or nil
func (t *Tour) Validate() ([]string, error) {
	var problems []string
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	ids := make(map[string]bool, len(t.Scenes))
	for _, s := range t.Scenes {
		if s.ID == "" {
			continue
		}
		if ids[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate scene id %q", s.ID))
		}
		ids[s.ID] = true
	}
	if t.Start != "" && !ids[t.Start] {
		problems = append(problems, fmt.Sprintf("start scene %q is not defined", t.Start))
	}

	var warnings []string
	for _, s := range t.Scenes {
		for i, icon := range s.Icons {
			if icon.Action.Type == ActionRedirect && icon.Action.NextScene != "" && !ids[icon.Action.NextScene] {
				warnings = append(warnings, fmt.Sprintf("scene %q icon %d redirects to unknown scene %q", s.ID, i, icon.Action.NextScene))
			}
		}
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return warnings, nil
}

// Scene returns the scene with the given id.
//
// Parameters:
//   - id: the scene id
//
// Returns:
//   - Scene: the scene definition
//   - bool: false if no scene has that id
func (t *Tour) Scene(id string) (Scene, bool) {
	for _, s := range t.Scenes {
		if s.ID == id {
			return s, true
		}
	}
	return Scene{}, false
}

// --- internal helpers ---

func validateActionType(fl validator.FieldLevel) bool {
	switch ActionType(fl.Field().String()) {
	case ActionRedirect:
		return true
	}
	return false
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Tour.")
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
