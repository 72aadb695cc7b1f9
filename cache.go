package scan2font

import (
	"sync"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// DefaultTemplateCacheSize bounds the blank-template cache. Rendered
// pages are large, so the cache keeps only a handful of recently used
// configurations.
const DefaultTemplateCacheSize = 8

// templateKey identifies one rendered blank template. Every field that
// affects the rendered pixels is part of the key.
type templateKey struct {
	Config       TemplateConfig
	PageNumber   int
	CharacterSet CharacterSet
}

// TemplateCache is a bounded LRU cache of rendered blank template pages.
// It is the only process-wide mutable state of the pipeline and is safe
// for concurrent use.
type TemplateCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[templateKey]*imageutil.RGBAImage
	order    []templateKey
}

// NewTemplateCache creates a cache bounded to the given number of pages.
// Capacity values below 1 fall back to DefaultTemplateCacheSize.
func NewTemplateCache(capacity int) *TemplateCache {
	if capacity < 1 {
		capacity = DefaultTemplateCacheSize
	}
	return &TemplateCache{
		capacity: capacity,
		entries:  make(map[templateKey]*imageutil.RGBAImage),
	}
}

// Get returns the rendered blank template for the key, rendering and
// caching it on a miss. Callers must not mutate the returned image.
func (tc *TemplateCache) Get(cfg TemplateConfig, pageNumber int, set CharacterSet) (*imageutil.RGBAImage, error) {
	key := templateKey{Config: cfg, PageNumber: pageNumber, CharacterSet: set}

	tc.mu.Lock()
	if img, ok := tc.entries[key]; ok {
		tc.touch(key)
		tc.mu.Unlock()
		return img, nil
	}
	tc.mu.Unlock()

	// Render outside the lock; a duplicate render on a race is harmless.
	img, err := RenderBlankTemplate(cfg, pageNumber, set)
	if err != nil {
		return nil, err
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	if existing, ok := tc.entries[key]; ok {
		tc.touch(key)
		return existing, nil
	}
	tc.entries[key] = img
	tc.order = append(tc.order, key)
	if len(tc.order) > tc.capacity {
		evicted := tc.order[0]
		tc.order = tc.order[1:]
		delete(tc.entries, evicted)
		logging.Logger().Debug("template cache eviction",
			"page", evicted.PageNumber, "cached", len(tc.order))
	}
	return img, nil
}

// touch moves the key to the most-recently-used position.
func (tc *TemplateCache) touch(key templateKey) {
	for i, k := range tc.order {
		if k == key {
			tc.order = append(tc.order[:i], tc.order[i+1:]...)
			tc.order = append(tc.order, key)
			return
		}
	}
}

// Len returns the number of cached pages.
func (tc *TemplateCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.order)
}

// Clear releases all cached pages.
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries = make(map[templateKey]*imageutil.RGBAImage)
	tc.order = nil
}
