package arena

import "fmt"

// ChunkSize is the number of slots in every chunk of an Arena or SparseMap.
const ChunkSize = 128

// Handle is a generational reference into an Arena. A handle whose generation
// does not match the live slot refers to a value that has been removed.
//
// The zero Handle never refers to a live slot since occupied slots always
// carry an odd generation.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%dv%d", h.Index, h.Generation)
}

// slot is either occupied (odd generation, value set) or free (even
// generation, nextFree links the free list).
type slot[T any] struct {
	value      T
	generation uint32
	// nextFree is the free list successor plus one, 0 terminates the list.
	nextFree uint32
}

func (s *slot[T]) occupied() bool {
	return s.generation&1 == 1
}

type chunk[T any] [ChunkSize]slot[T]

// Arena is a chunked free-list allocator that hands out stable handles.
// Chunks are never moved once allocated so pointers returned by Get stay
// valid until the handle is removed.
//
// The zero Arena is ready to use. An Arena is not safe for concurrent use.
type Arena[T any] struct {
	chunks []*chunk[T]
	// freeHead is the index of the first free slot plus one, 0 means empty.
	freeHead uint32
	// high is the number of slots ever handed out.
	high uint32
	live int
}

// New returns an empty Arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores value and returns its handle. Slots on the free list are
// reused before a new slot is appended.
func (a *Arena[T]) Insert(value T) Handle {
	if a.freeHead != 0 {
		idx := a.freeHead - 1
		s := a.at(idx)
		if s.occupied() {
			panic(fmt.Sprintf("arena: corrupted free list, slot %d is occupied", idx))
		}
		a.freeHead = s.nextFree
		s.nextFree = 0
		s.value = value
		s.generation++
		a.live++
		return Handle{Index: idx, Generation: s.generation}
	}

	idx := a.high
	if int(idx/ChunkSize) >= len(a.chunks) {
		a.chunks = append(a.chunks, new(chunk[T]))
	}
	s := a.at(idx)
	s.value = value
	s.generation++
	a.high++
	a.live++
	return Handle{Index: idx, Generation: s.generation}
}

// Get returns a pointer to the value behind h. It reports false for stale or
// never issued handles.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	s := a.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove takes the value out of the arena and releases its slot. Removing a
// stale handle is a no-op that reports false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.generation++
	s.nextFree = a.freeHead
	a.freeHead = h.Index + 1
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the number of allocated slots.
func (a *Arena[T]) Cap() int {
	return len(a.chunks) * ChunkSize
}

// Each calls fn for every live value in index order until fn returns false.
func (a *Arena[T]) Each(fn func(Handle, *T) bool) {
	for idx := uint32(0); idx < a.high; idx++ {
		s := a.at(idx)
		if !s.occupied() {
			continue
		}
		if !fn(Handle{Index: idx, Generation: s.generation}, &s.value) {
			return
		}
	}
}

func (a *Arena[T]) at(idx uint32) *slot[T] {
	return &a.chunks[idx/ChunkSize][idx%ChunkSize]
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if h.Index >= a.high {
		return nil
	}
	s := a.at(h.Index)
	if s.generation != h.Generation || !s.occupied() {
		return nil
	}
	return s
}
