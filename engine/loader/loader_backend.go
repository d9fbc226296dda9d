package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// loaderBackend fetches the raw bytes of an image from one kind of source.
type loaderBackend interface {
	// Fetch opens the image at path.
	//
	// Parameters:
	//   - ctx: bounds the fetch
	//   - path: the source location
	//
	// Returns:
	//   - io.ReadCloser: the image bytes, closed by the caller
	//   - error: error if the source cannot be opened
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
}

// resolveBackend selects the network backend for http(s) URLs and the file backend otherwise.
func (l *loader) resolveBackend(path string) loaderBackend {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return l.network
	}
	return l.file
}

type fileBackend struct{}

func newFileBackend() loaderBackend {
	return fileBackend{}
}

func (fileBackend) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(path)
}

const userAgent = "oxy-pano/1.0"

type httpBackend struct {
	client *http.Client
}

func newHTTPBackend(client *http.Client) loaderBackend {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &httpBackend{client: client}
}

func (b *httpBackend) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
