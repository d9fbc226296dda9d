package loader

import (
	"net/http"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(l *logger.Logger) LoaderBuilderOption {
	return func(ld *loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithWorkers sets how many images are fetched and decoded at once.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithPool supplies an existing worker pool instead of creating one. Close still stops it.
//
// Parameters:
//   - pool: the pool to submit loads to
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pool option to a loader
func WithPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}

// WithMaxTextureSize sets the largest width or height kept before downscaling. Zero disables resizing.
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		if size >= 0 {
			l.maxTextureSize = size
		}
	}
}

// WithExposure sets the exposure applied to HDR images before tone mapping.
func WithExposure(exposure float32) LoaderBuilderOption {
	return func(l *loader) {
		if exposure > 0 {
			l.exposure = exposure
		}
	}
}

// WithHTTPClient sets the client used for http(s) paths.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.network = newHTTPBackend(client)
	}
}

// WithRequireHDR makes every non-Radiance image fail with ErrUnsupportedFormat. Used for panoramas in hdr mode.
//
// Parameters:
//   - require: true to accept only RGBE input
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithRequireHDR(require bool) LoaderBuilderOption {
	return func(l *loader) {
		l.requireHDR = require
	}
}
