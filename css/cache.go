package css

import (
	"strconv"
	"sync"
)

const cacheSize = 4

type selectorCache struct {
	mu       sync.RWMutex
	entries  map[string]*Selector
	compiled int
}

var cache = selectorCache{
	entries: make(map[string]*Selector),
}

// Compile returns the selector compiled from text with mode. Selectors are
// cached: compiling the same text with the same mode gives the same pointer
// while it is cached. The cache keeps a few entries and is emptied when full.
func Compile(text string, mode Mode) (*Selector, error) {
	return cache.compile(text, mode)
}

func MustCompile(text string, mode Mode) *Selector {
	sel, err := Compile(text, mode)
	if err != nil {
		panic(err)
	}
	return sel
}

func cacheKey(text string, mode Mode) string {
	return strconv.Itoa(int(mode)) + text
}

func (c *selectorCache) compile(text string, mode Mode) (*Selector, error) {
	key := cacheKey(text, mode)

	c.mu.RLock()
	sel, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return sel, nil
	}

	sel, err := Parse(text, mode)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.compiled++
	if other, ok := c.entries[key]; ok {
		return other, nil
	}
	if len(c.entries) >= cacheSize {
		clear(c.entries)
	}
	c.entries[key] = sel
	return sel, nil
}

func (c *selectorCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.compiled = 0
}

func (c *selectorCache) stats() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), c.compiled
}
