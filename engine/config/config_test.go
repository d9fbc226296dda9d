package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tourYAML = `
start: lobby
viewer:
  fov: 60
scenes:
  - id: lobby
    path: images/lobby.jpg
    cameraPosition: {x: -0.01, y: 199.9, z: 0.01}
    icons:
      - position: {x: 100, y: 0, z: -300}
        src: icons/arrow.png
        action: {type: REDIRECT, nextScene: kitchen}
  - id: kitchen
    path: images/kitchen.jpg
`

func TestParse(t *testing.T) {
	tour, warnings, err := Parse([]byte(tourYAML))
	if err != nil {
		t.Fatalf("Parse:\nhave %v\nwant nil", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Parse warnings:\nhave %v\nwant none", warnings)
	}
	if tour.Mode != ModeEquirect {
		t.Fatalf("Tour.Mode:\nhave %q\nwant %q", tour.Mode, ModeEquirect)
	}
	if tour.Viewer.Fov != 60 {
		t.Fatalf("Viewer.Fov:\nhave %v\nwant 60", tour.Viewer.Fov)
	}
	if tour.Viewer.IconScale != (Vec2{X: 32, Y: 32}) {
		t.Fatalf("Viewer.IconScale:\nhave %v\nwant {32 32}", tour.Viewer.IconScale)
	}
	if tour.Window.Width != 1280 || tour.Window.Height != 720 {
		t.Fatalf("Window size:\nhave %dx%d\nwant 1280x720", tour.Window.Width, tour.Window.Height)
	}
	s, ok := tour.Scene("lobby")
	if !ok {
		t.Fatal("Scene(lobby): not found")
	}
	if len(s.Icons) != 1 || s.Icons[0].Action.NextScene != "kitchen" {
		t.Fatalf("lobby icons:\nhave %+v\nwant one redirect to kitchen", s.Icons)
	}
	if s.CameraPosition.Y != 199.9 {
		t.Fatalf("lobby camera y:\nhave %v\nwant 199.9", s.CameraPosition.Y)
	}
	if _, ok := tour.Scene("attic"); ok {
		t.Fatal("Scene(attic): found, want missing")
	}
}

func TestParseStartDefaultsToFirstScene(t *testing.T) {
	tour, _, err := Parse([]byte("scenes:\n  - id: a\n    path: a.jpg\n  - id: b\n    path: b.jpg\n"))
	if err != nil {
		t.Fatalf("Parse:\nhave %v\nwant nil", err)
	}
	if tour.Start != "a" {
		t.Fatalf("Tour.Start:\nhave %q\nwant \"a\"", tour.Start)
	}
}

func TestParseUnknownRedirectWarns(t *testing.T) {
	doc := strings.Replace(tourYAML, "nextScene: kitchen", "nextScene: attic", 1)
	_, warnings, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse:\nhave %v\nwant nil", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "attic") {
		t.Fatalf("Parse warnings:\nhave %v\nwant one mentioning attic", warnings)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want string
	}{
		{"no scenes", "start: a\n", "scenes"},
		{"missing path", "scenes:\n  - id: a\n", "path"},
		{"duplicate id", "scenes:\n  - {id: a, path: a.jpg}\n  - {id: a, path: b.jpg}\n", "duplicate"},
		{"unknown start", "start: z\nscenes:\n  - {id: a, path: a.jpg}\n", "start scene"},
		{"fov too wide", "viewer: {fov: 120}\nscenes:\n  - {id: a, path: a.jpg}\n", "fov"},
		{"bad mode", "mode: cube\nscenes:\n  - {id: a, path: a.jpg}\n", "mode"},
		{"bad action", "scenes:\n  - id: a\n    path: a.jpg\n    icons:\n      - {src: i.png, action: {type: OPEN}}\n", "actiontype"},
		{"redirect without target", "scenes:\n  - id: a\n    path: a.jpg\n    icons:\n      - {src: i.png, action: {type: REDIRECT}}\n", "nextScene"},
	} {
		_, _, err := Parse([]byte(tc.doc))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: Parse:\nhave %v\nwant ErrInvalid", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: Parse error:\nhave %q\nwant it to mention %q", tc.name, err, tc.want)
		}
	}
}

func TestParseUnknownField(t *testing.T) {
	_, _, err := Parse([]byte("scenes:\n  - {id: a, path: a.jpg, colour: red}\n"))
	if err == nil {
		t.Fatal("Parse: have nil error, want unknown field error")
	}
	if errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse:\nhave %v\nwant a decode error", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(tourYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	tour, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load:\nhave %v\nwant nil", err)
	}
	if len(tour.Scenes) != 2 {
		t.Fatalf("len(Scenes):\nhave %d\nwant 2", len(tour.Scenes))
	}
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load(missing): have nil error")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.env")
	if err := os.WriteFile(path, []byte("PANO_CONFIG=custom.yaml\nPANO_LOG_LEVEL=DEBUG\nPANO_DEV=true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PANO_CONFIG", "")
	t.Setenv("PANO_LOG_LEVEL", "")
	t.Setenv("PANO_DEV", "")
	os.Unsetenv("PANO_CONFIG")
	os.Unsetenv("PANO_LOG_LEVEL")
	os.Unsetenv("PANO_DEV")

	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv:\nhave %v\nwant nil", err)
	}
	want := Env{ConfigPath: "custom.yaml", Debug: true, Dev: true}
	if env != want {
		t.Fatalf("LoadEnv:\nhave %+v\nwant %+v", env, want)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	if _, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatal("LoadEnv(missing): have nil error")
	}
}
