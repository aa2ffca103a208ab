package bgzf

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheCapacity is the default number of decompressed blocks a
// BlockCache holds.
const DefaultCacheCapacity = 1000

// block is a single decompressed BGZF block, plus the compressed
// offset of the block that follows it in the stream.
type block struct {
	data        []byte
	nextCoffset int64
}

// BlockCache is a bounded, least-recently-used cache of decompressed
// blocks keyed by the block's starting compressed-file offset.
// Thread-safety is not provided: the cache is owned by a single
// reader, per the core's single-threaded resource model.
type BlockCache struct {
	cache *lru.Cache
}

// NewBlockCache returns a cache holding at most capacity blocks. A
// non-positive capacity is replaced by DefaultCacheCapacity.
func NewBlockCache(capacity int) *BlockCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c, err := lru.NewWithEvict(capacity, func(key, value interface{}) {
		// Decompressed buffers are plain []byte; nothing to release
		// beyond letting the garbage collector reclaim them, but the
		// hook is kept so eviction stays an explicit, visible event
		// rather than an implicit one.
		_ = key
		_ = value
	})
	if err != nil {
		// lru.NewWithEvict only fails for size <= 0, already handled above.
		panic(err)
	}
	return &BlockCache{cache: c}
}

// Get returns the cached block at coffset, if present.
func (c *BlockCache) Get(coffset int64) (data []byte, nextCoffset int64, ok bool) {
	v, ok := c.cache.Get(coffset)
	if !ok {
		return nil, 0, false
	}
	b := v.(*block)
	return b.data, b.nextCoffset, true
}

// Put stores a decompressed block, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *BlockCache) Put(coffset int64, data []byte, nextCoffset int64) {
	c.cache.Add(coffset, &block{data: data, nextCoffset: nextCoffset})
}

// Len returns the number of blocks currently cached.
func (c *BlockCache) Len() int { return c.cache.Len() }
