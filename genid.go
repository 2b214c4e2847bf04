package clipstack

import "sync/atomic"

// GenID identifies a cumulative clip state: the set of elements up to and
// including one element of a stack. Consumers use it to key caches of derived
// clip representations. The same shape at a different stack position yields a
// different clip, and therefore a different GenID.
type GenID uint32

// Reserved generation IDs. They are never produced by a GenIDSource.
const (
	// InvalidGenID marks an element whose state has been purged.
	InvalidGenID GenID = 0

	// EmptyGenID identifies a clip through which no pixels are writable.
	EmptyGenID GenID = 1

	// WideOpenGenID identifies a clip through which all pixels are writable.
	WideOpenGenID GenID = 2

	firstUnreservedGenID GenID = 3
)

// IsReserved reports whether id is one of the reserved sentinel values.
func (id GenID) IsReserved() bool {
	return id < firstUnreservedGenID
}

// GenIDSource issues generation IDs. Implementations must return strictly
// increasing values and never a reserved one.
type GenIDSource interface {
	NextGenID() GenID
}

// GenIDCounter is a GenIDSource backed by an atomic counter. After the counter
// wraps it restarts at the first unreserved value.
type GenIDCounter struct {
	last atomic.Uint32
}

// NewGenIDCounter creates a counter whose IDs are unique only among the
// stacks that share it.
func NewGenIDCounter() *GenIDCounter {
	c := &GenIDCounter{}
	c.last.Store(uint32(firstUnreservedGenID) - 1)
	return c
}

// NextGenID returns the next unreserved ID.
func (c *GenIDCounter) NextGenID() GenID {
	for {
		last := c.last.Load()
		next := last + 1
		if next < uint32(firstUnreservedGenID) {
			next = uint32(firstUnreservedGenID)
		}
		if c.last.CompareAndSwap(last, next) {
			return GenID(next)
		}
	}
}

// globalGenIDs is shared by all stacks that do not configure their own
// source, so IDs are unique across the whole process.
var globalGenIDs = NewGenIDCounter()

// DefaultGenIDSource returns the process-wide generation ID source.
func DefaultGenIDSource() GenIDSource {
	return globalGenIDs
}
