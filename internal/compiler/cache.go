package compiler

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"github.com/zap-lang/zap/internal/codegen"
)

// CacheKey identifies a compilation by file name and source content.
type CacheKey [blake2b.Size256]byte

// KeyOf hashes a file name and its source. The name is part of the key
// because diagnostics and Result.Filename carry it.
func KeyOf(filename, source string) CacheKey {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write([]byte(source))

	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (k CacheKey) String() string {
	return hex.EncodeToString(k[:])
}

// CacheStats exposes basic metrics.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Entries   int64
	Bytes     int64
	Evictions int64
}

// Cache is a thread-safe LRU of successful compilations with a max entry
// count. Failed runs are never stored. Concurrent compilations of the same
// key share a single run.
type Cache struct {
	mu       sync.Mutex
	capacity int
	head     *cacheNode
	tail     *cacheNode
	table    map[CacheKey]*cacheNode
	stats    CacheStats
	flight   singleflight.Group
	opts     []codegen.Option
}

type cacheNode struct {
	key  CacheKey
	val  *Result
	size int64
	prev *cacheNode
	next *cacheNode
}

// NewCache creates a cache holding up to capacity results. If capacity<=0,
// defaults to 64. opts configure the emitter of every compilation.
func NewCache(capacity int, opts ...codegen.Option) *Cache {
	if capacity <= 0 {
		capacity = 64
	}
	return &Cache{capacity: capacity, table: make(map[CacheKey]*cacheNode), opts: opts}
}

// Compile returns the cached result for filename and source, compiling on
// a miss. hit reports whether the result came from the cache.
func (c *Cache) Compile(filename, source string) (res *Result, hit bool, err error) {
	key := KeyOf(filename, source)
	if res, ok := c.get(key); ok {
		return res, true, nil
	}

	v, err, _ := c.flight.Do(key.String(), func() (interface{}, error) {
		res, err := Compile(filename, source, c.opts...)
		if err != nil {
			return nil, err
		}
		c.put(key, res)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Result), false, nil
}

// CompileFile reads path and compiles it through the cache.
func (c *Cache) CompileFile(path string) (*Result, bool, error) {
	source, err := ReadSource(path)
	if err != nil {
		return nil, false, err
	}
	return c.Compile(path, source)
}

// Invalidate drops every entry. Stats are kept.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.head, c.tail = nil, nil
	c.table = make(map[CacheKey]*cacheNode)
	c.stats.Entries = 0
	c.stats.Bytes = 0
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) get(key CacheKey) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.table[key]; ok {
		c.moveToFront(n)
		c.stats.Hits++
		return n.val, true
	}
	c.stats.Misses++
	return nil, false
}

func (c *Cache) put(key CacheKey, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.table[key]; ok {
		c.stats.Bytes += int64(len(res.Output)) - n.size
		n.val = res
		n.size = int64(len(res.Output))
		c.moveToFront(n)
		return
	}
	n := &cacheNode{key: key, val: res, size: int64(len(res.Output))}
	c.table[key] = n
	c.moveToFront(n)
	c.stats.Entries = int64(len(c.table))
	c.stats.Bytes += n.size
	c.evictIfNeeded()
}

func (c *Cache) moveToFront(n *cacheNode) {
	if c.head == n {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache) evictIfNeeded() {
	for len(c.table) > c.capacity && c.tail != nil {
		n := c.tail
		delete(c.table, n.key)
		if n.prev != nil {
			n.prev.next = nil
		}
		c.tail = n.prev
		if c.tail == nil {
			c.head = nil
		}
		c.stats.Evictions++
		c.stats.Entries = int64(len(c.table))
		c.stats.Bytes -= n.size
	}
}
