package clip

import (
	"strconv"
	"sync/atomic"
)

// ID is a process-local component identity. It is never persisted; use the
// path hash for anything that outlives the process.
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id ID) Valid() bool {
	return id > 0
}

// ClipHandle identifies the clip that owns a component. Components carry the
// handle rather than a pointer so they never keep their clip alive.
type ClipHandle uint64

var (
	nextID     atomic.Uint64
	nextHandle atomic.Uint64
)

func newID() ID {
	return ID(nextID.Add(1))
}

func newHandle() ClipHandle {
	return ClipHandle(nextHandle.Add(1))
}
