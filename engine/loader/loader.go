package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxTextureSize is the largest width or height uploaded to the GPU. It matches wgpu's default
	// maxTextureDimension2D limit.
	DefaultMaxTextureSize = 8192
	// DefaultWorkers is the number of concurrent asynchronous loads.
	DefaultWorkers = 4
	// DefaultExposure scales HDR radiance before tone mapping.
	DefaultExposure float32 = 1.0

	queueSize = 256
)

var (
	// ErrUnsupportedFormat is returned when the image bytes match no registered decoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrBadStatus is returned when an HTTP fetch answers with a non-2xx status.
	ErrBadStatus = errors.New("unexpected http status")
)

// loader is the implementation of the Loader interface.
type loader struct {
	ctx    context.Context
	cancel context.CancelFunc

	log *logger.Logger

	pool    worker.DynamicWorkerPool
	workers int
	taskID  atomic.Int64

	maxTextureSize int
	exposure       float32
	requireHDR     bool

	file    loaderBackend
	network loaderBackend
}

// Loader fetches and decodes panorama and icon images into RGBA8 staging data ready for GPU upload.
// Paths starting with http:// or https:// are fetched over the network, anything else is read from disk.
// Radiance RGBE (.hdr) images are tone-mapped with ACES filmic and sRGB encoded, other formats are decoded
// with the standard image decoders (png, jpeg, webp, bmp).
type Loader interface {
	// Load fetches and decodes an image synchronously.
	//
	// Parameters:
	//   - ctx: bounds the fetch
	//   - path: a file path or http(s) URL
	//
	// Returns:
	//   - common.TextureStagingData: the decoded RGBA8 pixels, resized to fit the max texture size
	//   - error: error if fetching or decoding fails
	Load(ctx context.Context, path string) (common.TextureStagingData, error)

	// LoadAsync queues a load on the worker pool and returns immediately.
	// The callback runs once on a worker goroutine. Loads cannot be cancelled individually.
	//
	// Parameters:
	//   - path: a file path or http(s) URL
	//   - done: receives the decoded data or the error
	LoadAsync(path string, done func(common.TextureStagingData, error))

	// Close stops the worker pool and aborts in-flight network fetches.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with a worker pool for asynchronous loads.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		log:            logger.Nop(),
		workers:        DefaultWorkers,
		maxTextureSize: DefaultMaxTextureSize,
		exposure:       DefaultExposure,
		file:           newFileBackend(),
		network:        newHTTPBackend(nil),
	}
	for _, option := range options {
		option(l)
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, queueSize, time.Second)
	}
	return l
}

func (l *loader) Load(ctx context.Context, path string) (common.TextureStagingData, error) {
	start := time.Now()
	rc, err := l.resolveBackend(path).Fetch(ctx, path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer rc.Close()

	img, format, err := l.decode(rc)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	data := l.stage(img)
	l.log.Debugw("image loaded",
		"path", path,
		"format", format,
		"width", data.Width,
		"height", data.Height,
		"elapsed", time.Since(start),
	)
	return data, nil
}

func (l *loader) LoadAsync(path string, done func(common.TextureStagingData, error)) {
	id := l.taskID.Add(1)
	l.pool.SubmitTask(worker.Task{
		ID:      int(id),
		Payload: path,
		Do: func() (any, error) {
			data, err := l.Load(l.ctx, path)
			if done != nil {
				done(data, err)
			}
			return nil, err
		},
	})
}

func (l *loader) Close() {
	l.cancel()
	l.pool.Stop()
}

// --- internal helpers ---

// decode sniffs the stream for the Radiance signature before falling back to image.Decode.
func (l *loader) decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	if sig, _ := br.Peek(2); string(sig) == "#?" {
		hdr, err := decodeRGBE(br)
		if err != nil {
			return nil, "", err
		}
		return hdr.toneMap(l.exposure), "hdr", nil
	}
	if l.requireHDR {
		return nil, "", fmt.Errorf("%w: expected Radiance RGBE", ErrUnsupportedFormat)
	}

	img, format, err := image.Decode(br)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupportedFormat
	}
	return img, format, err
}

// stage converts a decoded image to tightly packed RGBA8, downscaling it when either side exceeds the
// max texture size.
func (l *loader) stage(img image.Image) common.TextureStagingData {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var rgba *image.RGBA
	if l.maxTextureSize > 0 && (w > l.maxTextureSize || h > l.maxTextureSize) {
		nw, nh := fitWithin(w, h, l.maxTextureSize)
		l.log.Infow("downscaling image", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", nw, nh))
		rgba = transform.Resize(img, nw, nh, transform.Linear)
	} else {
		rgba = clone.AsRGBA(img)
	}

	rb := rgba.Bounds()
	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(rb.Dx()),
		Height: uint32(rb.Dy()),
	}
}

// fitWithin scales w x h down so the longer side equals limit, keeping the aspect ratio.
func fitWithin(w, h, limit int) (int, int) {
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
