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
	"os"
	"syscall"
	"time"

	"github.com/xujiajun/mmap-go"

	liberr "github.com/nabbar/thttpd-core/erro"
	libsze "github.com/nabbar/thttpd-core/size"
)

// IdentityOf derives a file's cache key from its os.FileInfo, reading the
// device/inode pair out of the platform-specific syscall.Stat_t.
func IdentityOf(fi os.FileInfo) (Identity, liberr.Error) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return Identity{}, ErrorStat.Error()
	}

	return Identity{
		Device: uint64(st.Dev),
		Inode:  st.Ino,
		Size:   fi.Size(),
		Ctime:  st.Ctim.Sec,
	}, nil
}

func (c *Cache) takeFromPoolLocked() *MapEntry {
	if n := len(c.freePool); n > 0 {
		e := c.freePool[n-1]
		c.freePool = c.freePool[:n-1]
		return e
	}
	return &MapEntry{}
}

// Map returns the shared address for path's contents, mapping it if this
// is the first reference. st may be nil, in which case Map stats the file
// itself. now is the reference timestamp recorded against the entry.
func (c *Cache) Map(path string, st os.FileInfo, now time.Time) ([]byte, liberr.Error) {
	if len(path) == 0 {
		return nil, ErrorParamEmpty.Error()
	}

	if st == nil {
		var err error
		st, err = os.Stat(path)
		if err != nil {
			return nil, ErrorStat.Error(err)
		}
	}

	id, idErr := IdentityOf(st)
	if idErr != nil {
		return nil, idErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.findLocked(id); e != nil {
		e.refCount++
		e.refTime = now
		return e.Addr(), nil
	}

	e := c.takeFromPoolLocked()
	e.id = id
	e.refCount = 1
	e.refTime = now
	e.inUse = true

	if id.Size == 0 {
		e.m = nil
		e.buf = zeroSentinel
	} else {
		f, ferr := os.Open(path)
		if ferr != nil {
			return nil, ErrorOpen.Error(ferr)
		}
		defer f.Close()

		m, merr := mmap.Map(f, mmap.RDONLY, 0)
		if merr != nil {
			// last-resort reclaim, then one retry, matching the ENOMEM path.
			c.panicLocked()
			m, merr = mmap.Map(f, mmap.RDONLY, 0)
			if merr != nil {
				c.freePool = append(c.freePool, e)
				return nil, ErrorMap.Error(merr)
			}
		}
		e.m = m
		e.buf = []byte(m)
	}

	c.ensureCapacityLocked()
	c.insertLocked(e)
	c.active++
	c.mappedBytes += libsze.Size(id.Size)

	return e.Addr(), nil
}

// Unmap releases one reference to the mapping identified by st (preferred)
// or, failing that, by a linear scan for the entry whose Addr matches addr.
func (c *Cache) Unmap(addr []byte, st os.FileInfo, now time.Time) liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e *MapEntry

	if st != nil {
		if id, idErr := IdentityOf(st); idErr == nil {
			e = c.findLocked(id)
		}
	}

	if e == nil {
		for _, cand := range c.table {
			if cand != nil && cand.inUse && sameBacking(cand.buf, addr) {
				e = cand
				break
			}
		}
	}

	if e == nil {
		return ErrorEntryNotFound.Error()
	}

	if e.refCount > 0 {
		e.refCount--
	}
	e.refTime = now

	return nil
}

func sameBacking(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// Cleanup walks the active set, releasing any entry idle longer than the
// current aging window, then retunes that window: it shrinks under memory
// or file-count pressure and relaxes when the cache is underused. The free
// pool is trimmed to its configured size afterward.
func (c *Cache) Cleanup(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.table {
		if e == nil || !e.inUse || e.refCount != 0 {
			continue
		}
		if now.Sub(e.refTime) >= c.expireAge {
			c.releaseLocked(e)
		}
	}

	switch {
	case c.mappedBytes > c.cfg.HighWaterBytes || c.active > c.cfg.MaxFiles:
		na := c.expireAge * 2 / 3
		if na < c.cfg.ExpireFloor {
			na = c.cfg.ExpireFloor
		}
		c.expireAge = na
	case c.active < c.cfg.MaxFiles/2:
		na := c.expireAge * 5 / 4
		if na > c.cfg.ExpireCeiling {
			na = c.cfg.ExpireCeiling
		}
		c.expireAge = na
	}

	if len(c.freePool) > c.cfg.FreePoolSize {
		c.freePool = c.freePool[:c.cfg.FreePoolSize]
	}
}

// releaseLocked unmaps e's backing memory, erases it from the hash table,
// and returns the shell to the free pool.
func (c *Cache) releaseLocked(e *MapEntry) {
	if e.m != nil {
		_ = e.m.Unmap()
		e.m = nil
	}
	e.buf = nil

	c.mappedBytes -= libsze.Size(e.id.Size)
	c.active--

	c.eraseLocked(e)
	*e = MapEntry{}
	c.freePool = append(c.freePool, e)
}

// Panic unmaps every zero-refcount entry immediately: the last-resort
// reclaim used when a mapping attempt fails for lack of memory.
func (c *Cache) Panic() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panicLocked()
}

func (c *Cache) panicLocked() {
	for _, e := range c.table {
		if e != nil && e.inUse && e.refCount == 0 {
			c.releaseLocked(e)
		}
	}
}

// Destroy unmaps everything and releases all allocations. The cache is
// unusable afterward.
func (c *Cache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.table {
		if e != nil && e.inUse {
			if e.m != nil {
				_ = e.m.Unmap()
			}
		}
	}

	c.table = nil
	c.freePool = nil
	c.active = 0
	c.mappedBytes = 0
}
