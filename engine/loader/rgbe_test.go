package loader

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"testing"
)

const rgbeHeader = "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\nEXPOSURE=1.0\n\n"

func TestDecodeRGBEFlat(t *testing.T) {
	src := []byte(rgbeHeader + "-Y 1 +X 2\n")
	src = append(src, 255, 255, 255, 128, 0, 0, 0, 0)

	img, err := decodeRGBE(bufio.NewReader(bytes.NewReader(src)))
	if err != nil {
		t.Fatalf("decodeRGBE:\nhave %v\nwant nil", err)
	}
	if img.width != 2 || img.height != 1 {
		t.Fatalf("size:\nhave %dx%d\nwant 2x1", img.width, img.height)
	}
	for i, want := range []float32{1, 1, 1, 0, 0, 0} {
		if math.Abs(float64(img.pix[i]-want)) > 1e-6 {
			t.Fatalf("pix[%d]:\nhave %v\nwant %v", i, img.pix[i], want)
		}
	}
}

func TestDecodeRGBERLE(t *testing.T) {
	src := []byte(rgbeHeader + "-Y 1 +X 8\n")
	src = append(src, 2, 2, 0, 8)
	// R and G as runs, B as a literal, E as a run
	src = append(src, 128+8, 255)
	src = append(src, 128+8, 255)
	src = append(src, 8, 0, 0, 0, 0, 255, 255, 255, 255)
	src = append(src, 128+8, 128)

	img, err := decodeRGBE(bufio.NewReader(bytes.NewReader(src)))
	if err != nil {
		t.Fatalf("decodeRGBE:\nhave %v\nwant nil", err)
	}
	if img.width != 8 {
		t.Fatalf("width:\nhave %d\nwant 8", img.width)
	}
	for x := range 8 {
		wantB := float32(0)
		if x >= 4 {
			wantB = 1
		}
		px := img.pix[x*3 : x*3+3]
		if px[0] != 1 || px[1] != 1 || px[2] != wantB {
			t.Fatalf("pixel %d:\nhave %v\nwant [1 1 %v]", x, px, wantB)
		}
	}
}

func TestDecodeRGBERejects(t *testing.T) {
	for _, src := range []string{
		"P6\n",
		rgbeHeader + "+Y 1 +X 2\n",
		"#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n",
	} {
		_, err := decodeRGBE(bufio.NewReader(bytes.NewReader([]byte(src))))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("decodeRGBE(%q):\nhave %v\nwant %v", src, err, ErrUnsupportedFormat)
		}
	}

	truncated := []byte(rgbeHeader + "-Y 2 +X 2\n")
	truncated = append(truncated, 1, 2, 3, 4)
	if _, err := decodeRGBE(bufio.NewReader(bytes.NewReader(truncated))); err == nil {
		t.Fatal("decodeRGBE truncated:\nhave nil\nwant error")
	}
}

func TestToneMap(t *testing.T) {
	img := &rgbeImage{width: 3, height: 1, pix: []float32{0, 0, 0, 0.5, 0.5, 0.5, 50, 50, 50}}
	out := img.toneMap(1)
	if out.Pix[0] != 0 || out.Pix[3] != 255 {
		t.Fatalf("black pixel:\nhave %v\nwant [0 0 0 255]", out.Pix[:4])
	}
	if !(out.Pix[0] < out.Pix[4] && out.Pix[4] < out.Pix[8]) {
		t.Fatalf("tone curve not increasing: %v", out.Pix)
	}
	if out.Pix[8] < 250 {
		t.Fatalf("bright pixel:\nhave %d\nwant >= 250", out.Pix[8])
	}
}
