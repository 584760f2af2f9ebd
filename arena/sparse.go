package arena

type entry[T any] struct {
	value   T
	present bool
}

type sparseChunk[T any] [ChunkSize]entry[T]

// SparseMap attaches optional component data to handles issued by an Arena.
//
// Only the handle index is used as key: the map trusts that the owning Arena
// has already validated the generation, and callers must Remove the entry
// when the arena slot is released. Chunks are allocated lazily, so a map that
// only covers a handful of handles stays small.
type SparseMap[T any] struct {
	chunks []*sparseChunk[T]
	len    int
}

// NewSparseMap returns an empty SparseMap.
func NewSparseMap[T any]() *SparseMap[T] {
	return &SparseMap[T]{}
}

// Insert stores value for h, replacing any previous entry.
func (m *SparseMap[T]) Insert(h Handle, value T) {
	ci, off := int(h.Index/ChunkSize), h.Index%ChunkSize
	if ci >= len(m.chunks) {
		grown := make([]*sparseChunk[T], ci+1)
		copy(grown, m.chunks)
		m.chunks = grown
	}
	c := m.chunks[ci]
	if c == nil {
		c = new(sparseChunk[T])
		m.chunks[ci] = c
	}
	e := &c[off]
	if !e.present {
		m.len++
	}
	e.value = value
	e.present = true
}

// Get returns a pointer to the entry for h.
func (m *SparseMap[T]) Get(h Handle) (*T, bool) {
	e := m.entry(h)
	if e == nil {
		return nil, false
	}
	return &e.value, true
}

// Contains reports whether h has an entry.
func (m *SparseMap[T]) Contains(h Handle) bool {
	return m.entry(h) != nil
}

// Remove deletes and returns the entry for h.
func (m *SparseMap[T]) Remove(h Handle) (T, bool) {
	var zero T
	e := m.entry(h)
	if e == nil {
		return zero, false
	}
	v := e.value
	e.value = zero
	e.present = false
	m.len--
	return v, true
}

// Len returns the number of entries.
func (m *SparseMap[T]) Len() int {
	return m.len
}

func (m *SparseMap[T]) entry(h Handle) *entry[T] {
	ci := int(h.Index / ChunkSize)
	if ci >= len(m.chunks) || m.chunks[ci] == nil {
		return nil
	}
	e := &m.chunks[ci][h.Index%ChunkSize]
	if !e.present {
		return nil
	}
	return e
}
