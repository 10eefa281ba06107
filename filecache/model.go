/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package filecache

import (
	"sync"
	"time"

	"github.com/xujiajun/mmap-go"

	libsze "github.com/nabbar/thttpd-core/size"
)

// Identity is the (device, inode, size, ctime) tuple a mapping is keyed
// on. Two stats of the same unchanged file always produce the same
// Identity, which is what lets concurrent requests for one hot file
// share a single mapping.
type Identity struct {
	Device uint64
	Inode  uint64
	Size   int64
	Ctime  int64
}

// zeroSentinel is the non-null address bound to size-zero files, which are
// never actually mapped.
var zeroSentinel = []byte{}

// MapEntry is one cached file mapping.
type MapEntry struct {
	id  Identity
	m   mmap.MMap
	buf []byte

	refCount int
	refTime  time.Time

	probeLen int
	slot     int
	inUse    bool
}

// Addr is the bytes a caller maps a file region onto; for a size-zero file
// this is the shared empty-but-non-nil sentinel.
func (e *MapEntry) Addr() []byte {
	if e == nil {
		return nil
	}
	return e.buf
}

// Config tunes the cache's aging and free-pool behavior. Zero-valued
// fields fall back to DefaultConfig's values.
type Config struct {
	HighWaterBytes libsze.Size
	MaxFiles       int
	ExpireFloor    time.Duration
	ExpireCeiling  time.Duration
	FreePoolSize   int
}

// DefaultConfig mirrors the teacher's original constants, scaled to a
// modern cache budget.
func DefaultConfig() Config {
	return Config{
		HighWaterBytes: libsze.Size(64 * 1024 * 1024),
		MaxFiles:       1024,
		ExpireFloor:    5 * time.Second,
		ExpireCeiling:  5 * time.Minute,
		FreePoolSize:   64,
	}
}

// Cache is the process-wide mapped-file cache. All access is expected from
// the single main-loop goroutine per the cooperative scheduling model; the
// mutex exists only to let tests hammer it concurrently without racing.
type Cache struct {
	mu sync.Mutex

	cfg Config

	table    []*MapEntry
	mask     int
	active   int
	freePool []*MapEntry

	mappedBytes libsze.Size
	expireAge   time.Duration
}

// New creates an empty cache sized for an initial working set.
func New(cfg Config) *Cache {
	def := DefaultConfig()
	if cfg.HighWaterBytes == 0 {
		cfg.HighWaterBytes = def.HighWaterBytes
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = def.MaxFiles
	}
	if cfg.ExpireFloor == 0 {
		cfg.ExpireFloor = def.ExpireFloor
	}
	if cfg.ExpireCeiling == 0 {
		cfg.ExpireCeiling = def.ExpireCeiling
	}
	if cfg.FreePoolSize == 0 {
		cfg.FreePoolSize = def.FreePoolSize
	}

	c := &Cache{cfg: cfg, expireAge: cfg.ExpireCeiling}
	c.resize(8)
	return c
}

// Stats are the counters exposed for a "stats now" dump.
type Stats struct {
	Active      int
	Free        int
	MappedBytes libsze.Size
	ExpireAge   time.Duration
}

// Stats snapshots the cache's current occupancy and aging parameter.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Active:      c.active,
		Free:        len(c.freePool),
		MappedBytes: c.mappedBytes,
		ExpireAge:   c.expireAge,
	}
}
