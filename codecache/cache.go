// Package codecache holds translated traces keyed by their start PC, using
// Akita's set-associative cache directory for placement and LRU eviction.
package codecache

import (
	"sync"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/translator"
)

// blockSize is the granularity of a directory entry. Traces start on
// instruction boundaries, so one entry covers one guest instruction.
const blockSize = 4

// Config holds code cache geometry.
type Config struct {
	// Entries is the total number of traces the cache can hold.
	Entries int
	// Ways is the associativity.
	Ways int
}

// DefaultConfig returns the default geometry.
func DefaultConfig() Config {
	return Config{
		Entries: 4096,
		Ways:    8,
	}
}

// Stats holds code cache statistics.
type Stats struct {
	Lookups       uint64
	Hits          uint64
	Misses        uint64
	Inserts       uint64
	Evictions     uint64
	Invalidations uint64
}

// HitRate returns the fraction of lookups that hit.
func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Cache is a set-associative store of translated traces. It is safe for
// concurrent use.
type Cache struct {
	mu sync.Mutex

	config Config

	// Akita cache directory for tag/LRU management
	directory *akitacache.DirectoryImpl

	// Trace storage - indexed by (setID * ways + wayID)
	traces []*translator.Trace

	stats Stats
}

// New creates a code cache with the given geometry. Entries is rounded
// down to a multiple of Ways.
func New(config Config) *Cache {
	if config.Ways <= 0 {
		config.Ways = 1
	}
	numSets := config.Entries / config.Ways
	if numSets <= 0 {
		numSets = 1
	}
	config.Entries = numSets * config.Ways

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Ways,
			blockSize,
			akitacache.NewLRUVictimFinder(),
		),
		traces: make([]*translator.Trace, config.Entries),
	}
}

// FromOptions creates a code cache sized by the code_cache_* options.
func FromOptions(opts *config.Options) *Cache {
	return New(Config{
		Entries: opts.CodeCacheEntries,
		Ways:    opts.CodeCacheWays,
	})
}

// Config returns the cache geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Ways + block.WayID
}

func (c *Cache) find(pc uint32) *akitacache.Block {
	block := c.directory.Lookup(0, uint64(pc))
	if block == nil || !block.IsValid {
		return nil
	}
	return block
}

// Lookup returns the trace starting at pc and marks it most recently used.
func (c *Cache) Lookup(pc uint32) (*translator.Trace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Lookups++

	block := c.find(pc)
	if block == nil {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	c.directory.Visit(block)
	return c.traces[c.blockIndex(block)], true
}

// TraceLength reports the instruction count of the cached trace at pc
// without counting as an access.
func (c *Cache) TraceLength(pc uint32) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := c.find(pc)
	if block == nil {
		return 0, false
	}
	return c.traces[c.blockIndex(block)].Len(), true
}

// Insert stores trace, replacing any trace with the same start PC. It
// returns the trace evicted to make room, if any.
func (c *Cache) Insert(trace *translator.Trace) (evicted *translator.Trace) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Inserts++
	addr := uint64(trace.StartPC)

	block := c.find(trace.StartPC)
	if block == nil {
		block = c.directory.FindVictim(addr)
		if block == nil {
			return nil
		}
		if block.IsValid {
			c.stats.Evictions++
			evicted = c.traces[c.blockIndex(block)]
		}
	}

	block.Tag = addr
	block.IsValid = true
	block.IsDirty = false
	c.traces[c.blockIndex(block)] = trace
	c.directory.Visit(block)

	return evicted
}

// Invalidate drops the trace starting at pc. It reports whether one was
// cached.
func (c *Cache) Invalidate(pc uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := c.find(pc)
	if block == nil {
		return false
	}

	c.stats.Invalidations++
	block.IsValid = false
	c.traces[c.blockIndex(block)] = nil
	return true
}

// InvalidateRange drops every trace starting in [start, end).
func (c *Cache) InvalidateRange(start, end uint32) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if !block.IsValid || block.Tag < uint64(start) || block.Tag >= uint64(end) {
				continue
			}
			block.IsValid = false
			c.traces[c.blockIndex(block)] = nil
			n++
		}
	}
	c.stats.Invalidations += uint64(n)
	return n
}

// Len returns the number of cached traces.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				n++
			}
		}
	}
	return n
}

// Flush drops every trace. Statistics are kept.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.directory.Reset()
	for i := range c.traces {
		c.traces[i] = nil
	}
}
