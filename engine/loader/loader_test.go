package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	data, err := l.Load(context.Background(), writeFile(t, "icon.png", pngBytes(t, 4, 3)))
	if err != nil {
		t.Fatalf("Load:\nhave %v\nwant nil", err)
	}
	if data.Width != 4 || data.Height != 3 || len(data.Pixels) != 4*3*4 {
		t.Fatalf("Load:\nhave %dx%d (%d bytes)\nwant 4x3 (48 bytes)", data.Width, data.Height, len(data.Pixels))
	}
	if data.Pixels[2] != 200 || data.Pixels[3] != 255 {
		t.Fatalf("first pixel:\nhave %v\nwant [0 0 200 255]", data.Pixels[:4])
	}
}

func TestLoadDownscales(t *testing.T) {
	l := NewLoader(WithMaxTextureSize(10))
	defer l.Close()

	data, err := l.Load(context.Background(), writeFile(t, "pano.png", pngBytes(t, 40, 20)))
	if err != nil {
		t.Fatal(err)
	}
	if data.Width != 10 || data.Height != 5 {
		t.Fatalf("Load:\nhave %dx%d\nwant 10x5", data.Width, data.Height)
	}
	if len(data.Pixels) != 10*5*4 {
		t.Fatalf("len(Pixels):\nhave %d\nwant %d", len(data.Pixels), 10*5*4)
	}
}

func TestLoadHDR(t *testing.T) {
	src := []byte(rgbeHeader + "-Y 1 +X 2\n")
	src = append(src, 255, 255, 255, 128, 0, 0, 0, 0)

	l := NewLoader()
	defer l.Close()
	data, err := l.Load(context.Background(), writeFile(t, "sky.hdr", src))
	if err != nil {
		t.Fatalf("Load:\nhave %v\nwant nil", err)
	}
	if data.Width != 2 || data.Height != 1 {
		t.Fatalf("Load:\nhave %dx%d\nwant 2x1", data.Width, data.Height)
	}
	if data.Pixels[0] == 0 || data.Pixels[4] != 0 || data.Pixels[7] != 255 {
		t.Fatalf("pixels:\nhave %v\nwant lit first pixel, black opaque second", data.Pixels)
	}
}

func TestLoadRequireHDR(t *testing.T) {
	l := NewLoader(WithRequireHDR(true))
	defer l.Close()

	_, err := l.Load(context.Background(), writeFile(t, "pano.png", pngBytes(t, 2, 2)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load(png):\nhave %v\nwant %v", err, ErrUnsupportedFormat)
	}

	src := append([]byte(rgbeHeader+"-Y 1 +X 1\n"), 128, 128, 128, 128)
	if _, err := l.Load(context.Background(), writeFile(t, "sky.hdr", src)); err != nil {
		t.Fatalf("Load(hdr):\nhave %v\nwant nil", err)
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	_, err := l.Load(context.Background(), writeFile(t, "notes.txt", []byte("not an image")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load(text):\nhave %v\nwant %v", err, ErrUnsupportedFormat)
	}

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load(missing):\nhave %v\nwant %v", err, os.ErrNotExist)
	}
}

func TestLoadHTTP(t *testing.T) {
	body := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/icon.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	defer l.Close()

	data, err := l.Load(context.Background(), srv.URL+"/icon.png")
	if err != nil {
		t.Fatalf("Load:\nhave %v\nwant nil", err)
	}
	if data.Width != 2 || data.Height != 2 {
		t.Fatalf("Load:\nhave %dx%d\nwant 2x2", data.Width, data.Height)
	}

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("Load(404):\nhave %v\nwant %v", err, ErrBadStatus)
	}
}

func TestLoadAsync(t *testing.T) {
	l := NewLoader(WithWorkers(2))
	defer l.Close()

	path := writeFile(t, "icon.png", pngBytes(t, 3, 3))
	type result struct {
		data common.TextureStagingData
		err  error
	}
	ch := make(chan result, 1)
	l.LoadAsync(path, func(d common.TextureStagingData, err error) {
		ch <- result{d, err}
	})

	select {
	case r := <-ch:
		if r.err != nil || r.data.Width != 3 {
			t.Fatalf("LoadAsync:\nhave %v, width %d\nwant nil, width 3", r.err, r.data.Width)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAsync: callback never ran")
	}
}

func TestFitWithin(t *testing.T) {
	for _, c := range [...]struct{ w, h, limit, ww, wh int }{
		{16384, 8192, 8192, 8192, 4096},
		{100, 400, 50, 12, 50},
		{10000, 1, 100, 100, 1},
	} {
		w, h := fitWithin(c.w, c.h, c.limit)
		if w != c.ww || h != c.wh {
			t.Fatalf("fitWithin(%d, %d, %d):\nhave %dx%d\nwant %dx%d", c.w, c.h, c.limit, w, h, c.ww, c.wh)
		}
	}
}
