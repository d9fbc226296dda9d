package texture

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
)

type cache struct {
	mu *sync.Mutex

	loader  loader.Loader
	log     *logger.Logger
	sampler common.SamplerStagingData

	entries map[string]Texture
}

// Cache memoizes textures by path. The first Get for a path starts an asynchronous load and every later
// Get returns the same handle, whether the load is still pending, finished or failed.
// Entries are never evicted and their GPU resources live as long as the cache.
type Cache interface {
	// Get returns the texture for path, starting a load on the first request.
	//
	// Parameters:
	//   - path: the file path or URL of the image
	//
	// Returns:
	//   - Texture: the shared handle for path
	Get(path string) Texture

	// Contains reports whether path has been requested before.
	Contains(path string) bool

	// Len returns the number of cached paths.
	Len() int

	// Release frees the GPU resources of every cached texture. Call it on the render goroutine at shutdown.
	Release()
}

var _ Cache = &cache{}

// NewCache creates an empty Cache loading through l.
//
// Parameters:
//   - l: the loader used for cache misses
//   - options: functional options to configure the cache
//
// Returns:
//   - Cache: the new cache
func NewCache(l loader.Loader, options ...CacheOption) Cache {
	c := &cache{
		mu:      &sync.Mutex{},
		loader:  l,
		log:     logger.Nop(),
		sampler: common.SpriteSampler(),
		entries: make(map[string]Texture),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cache) Get(path string) Texture {
	c.mu.Lock()
	if t, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return t
	}
	t := NewTexture(path, c.sampler)
	c.entries[path] = t
	c.mu.Unlock()

	c.log.Debugw("texture cache miss", "path", path)
	c.loader.LoadAsync(path, func(data common.TextureStagingData, err error) {
		if err != nil {
			c.log.Errorw("failed to load texture", "path", path, "error", err)
			t.Fail(err)
			return
		}
		t.Resolve(data)
	})
	return t
}

func (c *cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[path]
	return ok
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.entries {
		t.Release()
	}
}
