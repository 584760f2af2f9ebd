package list

type shape uint8

const (
	empty shape = iota
	single
	many
)

// List is an insertion-ordered sequence tuned for the case where most
// instances hold zero or one element. A single element is stored inline and
// only a second Push allocates a backing slice. Once allocated, the backing
// slice is kept for reuse when the list shrinks back to one element.
//
// The zero List is empty and ready to use.
type List[T any] struct {
	one   T
	rest  []T
	shape shape
}

// Of builds a list holding values in order.
func Of[T any](values ...T) List[T] {
	var l List[T]
	for _, v := range values {
		l.Push(v)
	}
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	switch l.shape {
	case single:
		return 1
	case many:
		return len(l.rest)
	default:
		return 0
	}
}

// At returns the i-th element. It panics when i is out of range.
func (l *List[T]) At(i int) T {
	if l.shape == single && i == 0 {
		return l.one
	}
	if l.shape == many {
		return l.rest[i]
	}
	panic("list: index out of range")
}

// Push appends v.
func (l *List[T]) Push(v T) {
	switch l.shape {
	case empty:
		l.one = v
		l.shape = single
	case single:
		l.rest = append(l.rest[:0], l.one, v)
		var zero T
		l.one = zero
		l.shape = many
	default:
		l.rest = append(l.rest, v)
	}
}

// RemoveFunc removes the first element for which match returns true while
// keeping the order of the remaining elements. It reports whether an element
// was removed.
func (l *List[T]) RemoveFunc(match func(T) bool) bool {
	var zero T
	switch l.shape {
	case single:
		if !match(l.one) {
			return false
		}
		l.one = zero
		l.shape = empty
		return true
	case many:
		for i, v := range l.rest {
			if !match(v) {
				continue
			}
			n := len(l.rest)
			copy(l.rest[i:], l.rest[i+1:])
			l.rest[n-1] = zero
			l.rest = l.rest[:n-1]
			if len(l.rest) == 1 {
				l.one = l.rest[0]
				l.rest[0] = zero
				l.rest = l.rest[:0]
				l.shape = single
			}
			return true
		}
	}
	return false
}

// Each calls fn for every element in order until fn returns false.
func (l *List[T]) Each(fn func(T) bool) {
	switch l.shape {
	case single:
		fn(l.one)
	case many:
		for _, v := range l.rest {
			if !fn(v) {
				return
			}
		}
	}
}

// AppendTo appends the elements to dst and returns the extended slice.
func (l *List[T]) AppendTo(dst []T) []T {
	switch l.shape {
	case single:
		return append(dst, l.one)
	case many:
		return append(dst, l.rest...)
	default:
		return dst
	}
}

// Clear empties the list, keeping any backing storage for reuse.
func (l *List[T]) Clear() {
	var zero T
	for i := range l.rest {
		l.rest[i] = zero
	}
	l.rest = l.rest[:0]
	l.one = zero
	l.shape = empty
}

// Take moves the contents into a new list and leaves l empty. The returned
// list owns the backing storage.
func (l *List[T]) Take() List[T] {
	out := *l
	*l = List[T]{}
	return out
}

// Contains reports whether l holds v.
func Contains[T comparable](l *List[T], v T) bool {
	found := false
	l.Each(func(x T) bool {
		found = x == v
		return !found
	})
	return found
}

// Remove removes the first occurrence of v, keeping order.
func Remove[T comparable](l *List[T], v T) bool {
	return l.RemoveFunc(func(x T) bool { return x == v })
}
