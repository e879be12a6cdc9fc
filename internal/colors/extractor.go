// Package colors computes a foreground/background pair from an image. The
// result is a visual nicety: every failure yields nil.
package colors

import (
	"context"
	"sync"

	"github.com/amaumene/cinescope/internal/cache"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/pkg/logger"
)

type Extractor struct {
	source ImageSource
	log    logger.Logger

	mu     sync.Mutex
	cache  *cache.LRUCache[string, models.DominantColors]
	shared SharedStore
}

func NewExtractor(source ImageSource, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{
		source: source,
		log:    log,
		cache:  cache.New[string, models.DominantColors](0),
	}
}

// SetSharedStore installs a second tier consulted after an LRU miss.
func (e *Extractor) SetSharedStore(store SharedStore) {
	e.mu.Lock()
	e.shared = store
	e.mu.Unlock()
}

// CalculateDominantColor returns the colors for url, or nil when the image
// cannot be fetched or has no usable swatch. cacheSize bounds the LRU; zero
// or less disables caching and every call recomputes.
func (e *Extractor) CalculateDominantColor(ctx context.Context, url string, cacheSize int) *models.DominantColors {
	if url == "" {
		return nil
	}

	caching := cacheSize > 0
	var shared SharedStore
	if caching {
		e.mu.Lock()
		if e.cache.Capacity() != cacheSize {
			e.cache.Resize(cacheSize)
		}
		shared = e.shared
		e.mu.Unlock()

		if c, ok := e.cache.Get(url); ok {
			return &c
		}
		if shared != nil {
			c, err := shared.Get(ctx, url)
			if err != nil {
				e.log.Debugf("[Colors] shared lookup failed for %s: %v", url, err)
			} else if c != nil {
				e.cache.Set(url, *c)
				return c
			}
		}
	}

	img, err := e.source.Load(ctx, url)
	if err != nil {
		e.log.Debugf("[Colors] failed to load %s: %v", url, err)
		return nil
	}

	swatch := NewPalette(img).Select()
	if swatch == nil {
		e.log.Debugf("[Colors] no usable swatch in %s", url)
		return nil
	}
	colors := models.DominantColors{
		Foreground: OnColor(swatch.Color),
		Background: swatch.Color,
	}

	if caching {
		e.cache.Set(url, colors)
		if shared != nil {
			if err := shared.Set(ctx, url, colors); err != nil {
				e.log.Debugf("[Colors] shared store failed for %s: %v", url, err)
			}
		}
	}
	return &colors
}
