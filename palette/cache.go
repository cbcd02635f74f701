package palette

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity bounds the LUTs kept alive by a LUTCache built from default settings.
// Deployments that need one instance per key forever set the capacity to 0.
const DefaultCacheCapacity = 64

type lutKey struct {
	identity string
	maxIter  int
}

func (k lutKey) String() string {
	return k.identity + "\x00" + strconv.Itoa(k.maxIter)
}

type lutEntry struct {
	lut   *LUT
	atime int64
}

// LUTCache shares LUTs between renders, keyed by palette identity and iteration budget.
// Concurrent first requests for a key wait on a single build. Once more than capacity
// entries are held the least recently fetched one is dropped; a capacity of 0 keeps every
// LUT for the life of the process.
//
// Equal keys return the same *LUT, and each key is built once, only while the key stays
// cached. With a bounded capacity an evicted key is rebuilt on its next Fetch as a new
// instance and counted again by Builds.
//
// LUTCache is safe for concurrent use.
type LUTCache struct {
	logger bslogger.Logger

	mutex    sync.Mutex
	entries  map[lutKey]*lutEntry
	capacity int
	tick     int64

	group  singleflight.Group
	builds atomic.Int64
}

func NewLUTCache(capacity int) *LUTCache {
	if capacity < 0 {
		capacity = 0
	}
	return &LUTCache{
		logger:   bslogger.NewLogger("LUTCache", bslogger.Normal, nil),
		entries:  make(map[lutKey]*lutEntry),
		capacity: capacity,
	}
}

// Fetch returns the LUT for (p, maxIter), building it on first use.
func (c *LUTCache) Fetch(p Palette, maxIter int) *LUT {
	key := lutKey{identity: p.Identity(), maxIter: maxIter}
	if lut, found := c.lookup(key); found {
		return lut
	}

	value, _, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// another caller may have finished building between lookup and Do
		if lut, found := c.lookup(key); found {
			return lut, nil
		}
		lut := NewLUT(p, maxIter)
		c.builds.Add(1)
		c.store(key, lut)
		c.logger.Debugf("Built LUT %s with %d entries", key.identity, lut.Entries())
		return lut, nil
	})
	return value.(*LUT)
}

// Builds counts the LUTs this cache has constructed.
func (c *LUTCache) Builds() int64 {
	return c.builds.Load()
}

func (c *LUTCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

func (c *LUTCache) lookup(key lutKey) (*LUT, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, found := c.entries[key]
	if !found {
		return nil, false
	}
	c.tick++
	entry.atime = c.tick
	return entry.lut, true
}

func (c *LUTCache) store(key lutKey, lut *LUT) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.tick++
	c.entries[key] = &lutEntry{lut: lut, atime: c.tick}
	if c.capacity > 0 {
		for len(c.entries) > c.capacity {
			c.evictOldest()
		}
	}
}

// evictOldest must be called with the mutex held.
func (c *LUTCache) evictOldest() {
	var oldestKey lutKey
	oldest := int64(-1)
	for key, entry := range c.entries {
		if oldest < 0 || entry.atime < oldest {
			oldest = entry.atime
			oldestKey = key
		}
	}
	delete(c.entries, oldestKey)
}
