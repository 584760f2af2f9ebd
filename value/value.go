package value

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// inlineWords is the size of the inline buffer in 64-bit words. It fits every
// scalar kind up to complex128.
const inlineWords = 2

// vtable carries the per-type information a Value needs once its static type
// has been erased. One vtable exists per type and is shared by all values.
type vtable struct {
	typ    reflect.Type
	inline bool
}

var vtables sync.Map // reflect.Type -> *vtable

func vtableFor[T any]() *vtable {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if vt, ok := vtables.Load(typ); ok {
		return vt.(*vtable)
	}
	var zero T
	vt, _ := vtables.LoadOrStore(typ, &vtable{typ: typ, inline: fitsInline(zero)})
	return vt.(*vtable)
}

// fitsInline reports whether v belongs to the closed set of pointer-free
// scalar types that are stored in the inline buffer. Named types and
// composites are boxed.
func fitsInline(v any) bool {
	switch v.(type) {
	case bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64,
		complex64, complex128:
		return true
	}
	return false
}

// Value is a container for a value of any type whose static type has been
// erased. Small scalars live in an inline buffer, everything else is boxed.
// The held type is checked on every access.
//
// A Value must not be copied while pointers returned by Ref are in use.
type Value struct {
	vt   *vtable
	word [inlineWords]uint64
	ptr  unsafe.Pointer
}

// New wraps v.
func New[T any](v T) Value {
	vt := vtableFor[T]()
	out := Value{vt: vt}
	if vt.inline {
		*(*T)(unsafe.Pointer(&out.word)) = v
	} else {
		box := new(T)
		*box = v
		out.ptr = unsafe.Pointer(box)
	}
	return out
}

// Ref returns a pointer to the held value when it has type T. Writes through
// the pointer update v in place.
func Ref[T any](v *Value) (*T, bool) {
	if v == nil || v.vt == nil || v.vt.typ != reflect.TypeOf((*T)(nil)).Elem() {
		return nil, false
	}
	return (*T)(v.addr()), true
}

// Get returns a copy of the held value when it has type T.
func Get[T any](v *Value) (T, bool) {
	p, ok := Ref[T](v)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// Set replaces the held value when it has type T.
func Set[T any](v *Value, x T) bool {
	p, ok := Ref[T](v)
	if ok {
		*p = x
	}
	return ok
}

// Is reports whether v holds a T.
func Is[T any](v *Value) bool {
	return v != nil && v.vt != nil && v.vt.typ == reflect.TypeOf((*T)(nil)).Elem()
}

// Type returns the dynamic type of the held value, or nil once dropped.
func (v *Value) Type() reflect.Type {
	if v.vt == nil {
		return nil
	}
	return v.vt.typ
}

// IsInline reports whether the value is stored without a heap box.
func (v *Value) IsInline() bool {
	return v.vt != nil && v.vt.inline
}

// Valid reports whether v still holds a value.
func (v *Value) Valid() bool {
	return v.vt != nil
}

// Any returns a copy of the held value as an interface, or nil once dropped.
func (v *Value) Any() any {
	if v.vt == nil {
		return nil
	}
	return reflect.NewAt(v.vt.typ, v.addr()).Elem().Interface()
}

// Drop releases the held value. Only the first call has an effect and reports
// true; afterwards v is empty and every typed access fails.
func (v *Value) Drop() bool {
	if v.vt == nil {
		return false
	}
	v.vt = nil
	v.word = [inlineWords]uint64{}
	v.ptr = nil
	return true
}

func (v *Value) String() string {
	if v.vt == nil {
		return "<dropped>"
	}
	return fmt.Sprintf("%v", v.Any())
}

func (v *Value) addr() unsafe.Pointer {
	if v.vt.inline {
		return unsafe.Pointer(&v.word)
	}
	return v.ptr
}
