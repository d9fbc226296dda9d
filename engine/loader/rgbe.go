package loader

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"strings"
)

// rgbeImage is a decoded Radiance picture in linear float RGB, rows top to bottom.
type rgbeImage struct {
	width, height int
	pix           []float32 // 3 floats per pixel
}

const maxHeaderLines = 64

// decodeRGBE reads a Radiance RGBE (.hdr) stream. Only the 32-bit_rle_rgbe format with the standard
// "-Y H +X W" orientation is supported, with flat or new-style run-length encoded scanlines.
func decodeRGBE(r *bufio.Reader) (*rgbeImage, error) {
	magic, err := r.ReadString('\n')
	if err != nil || !strings.HasPrefix(magic, "#?") {
		return nil, fmt.Errorf("%w: missing radiance signature", ErrUnsupportedFormat)
	}

	for i := 0; ; i++ {
		if i > maxHeaderLines {
			return nil, fmt.Errorf("rgbe: header too long")
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("rgbe: read header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok && v != "32-bit_rle_rgbe" {
			return nil, fmt.Errorf("%w: rgbe format %s", ErrUnsupportedFormat, v)
		}
	}

	res, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("rgbe: read resolution: %w", err)
	}
	fields := strings.Fields(res)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return nil, fmt.Errorf("%w: rgbe orientation %q", ErrUnsupportedFormat, strings.TrimSpace(res))
	}
	height, errH := strconv.Atoi(fields[1])
	width, errW := strconv.Atoi(fields[3])
	if errH != nil || errW != nil || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rgbe: bad resolution %q", strings.TrimSpace(res))
	}

	img := &rgbeImage{width: width, height: height, pix: make([]float32, width*height*3)}
	scan := make([]byte, width*4)
	for y := range height {
		if err := readScanline(r, scan, width); err != nil {
			return nil, fmt.Errorf("rgbe: scanline %d: %w", y, err)
		}
		row := img.pix[y*width*3:]
		for x := range width {
			rgbeToFloat(scan[x*4:x*4+4], row[x*3:x*3+3])
		}
	}
	return img, nil
}

// readScanline fills scan with width RGBE quadruplets.
func readScanline(r *bufio.Reader, scan []byte, width int) error {
	if width < 8 || width > 0x7fff {
		_, err := io.ReadFull(r, scan)
		return err
	}
	head, err := r.Peek(4)
	if err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		_, err := io.ReadFull(r, scan)
		return err
	}
	if int(head[2])<<8|int(head[3]) != width {
		return fmt.Errorf("encoded width %d, want %d", int(head[2])<<8|int(head[3]), width)
	}
	if _, err := r.Discard(4); err != nil {
		return err
	}

	// new-style RLE stores each channel separately
	channel := make([]byte, width)
	for c := range 4 {
		for i := 0; i < width; {
			count, err := r.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				if i+n > width {
					return fmt.Errorf("run overflows scanline")
				}
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				for j := range n {
					channel[i+j] = v
				}
				i += n
				continue
			}
			n := int(count)
			if n == 0 || i+n > width {
				return fmt.Errorf("bad literal length %d", n)
			}
			if _, err := io.ReadFull(r, channel[i:i+n]); err != nil {
				return err
			}
			i += n
		}
		for x := range width {
			scan[x*4+c] = channel[x]
		}
	}
	return nil
}

func rgbeToFloat(rgbe []byte, out []float32) {
	if rgbe[3] == 0 {
		out[0], out[1], out[2] = 0, 0, 0
		return
	}
	scale := float32(math.Ldexp(1, int(rgbe[3])-128)) / 255
	out[0] = float32(rgbe[0]) * scale
	out[1] = float32(rgbe[1]) * scale
	out[2] = float32(rgbe[2]) * scale
}

// toneMap converts linear radiance to an sRGB encoded RGBA8 image using the ACES filmic curve.
func (h *rgbeImage) toneMap(exposure float32) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	for i := range h.width * h.height {
		r, g, b := acesFilmic(h.pix[i*3]*exposure, h.pix[i*3+1]*exposure, h.pix[i*3+2]*exposure)
		out.Pix[i*4] = encodeSRGB(r)
		out.Pix[i*4+1] = encodeSRGB(g)
		out.Pix[i*4+2] = encodeSRGB(b)
		out.Pix[i*4+3] = 255
	}
	return out
}

// acesFilmic is the fitted ACES RRT+ODT curve with the sRGB→ACEScg input and ACES→sRGB output matrices.
func acesFilmic(r, g, b float32) (float32, float32, float32) {
	const exposureBias = 1 / 0.6
	r, g, b = r*exposureBias, g*exposureBias, b*exposureBias

	ir := 0.59719*r + 0.35458*g + 0.04823*b
	ig := 0.07600*r + 0.90834*g + 0.01566*b
	ib := 0.02840*r + 0.13383*g + 0.83777*b

	ir, ig, ib = rrtAndODTFit(ir), rrtAndODTFit(ig), rrtAndODTFit(ib)

	or := 1.60475*ir - 0.53108*ig - 0.07367*ib
	og := -0.10208*ir + 1.10813*ig - 0.00605*ib
	ob := -0.00327*ir - 0.07276*ig + 1.07602*ib
	return clamp01(or), clamp01(og), clamp01(ob)
}

func rrtAndODTFit(v float32) float32 {
	a := v*(v+0.0245786) - 0.000090537
	b := v*(0.983729*v+0.4329510) + 0.238081
	return a / b
}

func encodeSRGB(c float32) uint8 {
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*float32(math.Pow(float64(c), 1/2.4)) - 0.055
	}
	return uint8(clamp01(c)*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
