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

// mix spreads (inode, device, size, ctime) across the table with a
// multiplicative hash; any one field changing flips roughly half the
// output bits.
func mix(id Identity) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	for _, v := range [4]uint64{id.Inode, id.Device, uint64(id.Size), uint64(id.Ctime)} {
		h ^= v
		h *= 1099511628211
		h ^= h >> 33
	}
	return h
}

// resize grows the table to the next power of two at or above n and
// rehashes every live entry into it.
func (c *Cache) resize(n int) {
	size := 8
	for size < n {
		size *= 2
	}

	old := c.table
	c.table = make([]*MapEntry, size)
	c.mask = size - 1

	for _, e := range old {
		if e == nil || !e.inUse {
			continue
		}
		c.insertLocked(e)
	}
}

// ensureCapacityLocked keeps the table sized to at least 3x the active
// population, doubling until there is 6x slack, per the index's sizing
// invariant.
func (c *Cache) ensureCapacityLocked() {
	if len(c.table)*1 >= (c.active+1)*3 {
		return
	}
	c.resize((c.active + 1) * 6)
}

// insertLocked places e into the table via linear probing, recording the
// probe length it took so a later lookup that walked past tombstones
// knows how far to keep scanning.
func (c *Cache) insertLocked(e *MapEntry) {
	start := int(mix(e.id)) & c.mask
	i := start
	probe := 0

	for {
		if c.table[i] == nil {
			c.table[i] = e
			e.slot = i
			e.probeLen = probe + 1
			return
		}
		i = (i + 1) & c.mask
		probe++
	}
}

// findLocked returns the live entry for id, or nil. Lookup tolerates the
// tombstone-light erase (a zeroed slot mid-chain) by continuing the scan
// across empty slots up to the probe window recorded when any entry
// hashing to this start was inserted, rather than stopping at the first
// nil slot.
func (c *Cache) findLocked(id Identity) *MapEntry {
	if len(c.table) == 0 {
		return nil
	}

	start := int(mix(id)) & c.mask
	maxProbe := len(c.table)

	i := start
	for probe := 0; probe < maxProbe; probe++ {
		e := c.table[i]
		if e != nil && e.inUse && e.id == id {
			return e
		}
		i = (i + 1) & c.mask
	}
	return nil
}

// eraseLocked zeroes e's slot (tombstone-light, per the aging design) and
// returns it to the caller for reuse or pooling.
func (c *Cache) eraseLocked(e *MapEntry) {
	if e.slot >= 0 && e.slot < len(c.table) && c.table[e.slot] == e {
		c.table[e.slot] = nil
	}
	e.inUse = false
}
