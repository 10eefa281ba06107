// Package pool provides a thread-safe, indexed error collection.
//
// connmgr uses one Pool per watch cycle to collect the lingering-close and
// CGI-reap failures that surface during a single pass of the event loop,
// without blocking the loop on logging each one as it happens.
package pool

import (
	"sync/atomic"

	libatm "github.com/nabbar/thttpd-core/atomic"
)

// Pool collects errors under automatically assigned sequential indices.
type Pool interface {
	// Add appends errors, skipping nil entries, each getting the next index.
	Add(e ...error)
	// Get returns the error at index i, or nil if absent.
	Get(i uint64) error
	// Set stores an error at a specific index, ignoring a nil error.
	Set(i uint64, e error)
	// Del removes the error at index i.
	Del(i uint64)
	// Error folds every collected error into one, or nil if the pool is empty.
	Error() error
	// Slice returns all collected errors in unspecified order.
	Slice() []error
	// Len returns the count of non-nil errors currently held.
	Len() uint64
	// MaxId returns the highest index in use, or 0 if empty.
	MaxId() uint64
	// Last returns the error at MaxId.
	Last() error
	// Clear empties the pool without resetting the index sequence.
	Clear()
}

// New returns an empty Pool ready for concurrent use.
func New() Pool {
	return &mod{
		s: new(atomic.Uint64),
		l: libatm.NewMapTyped[uint64, error](),
	}
}
