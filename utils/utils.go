// Package utils implements small generic helpers shared by the ring
// and bfv packages: slice aliasing checks, bit-reversal, and
// reflection-based nil checks on interface values.
package utils

import (
	"reflect"
	"unsafe"
)

// Pointy returns a pointer on a copy of the input value.
func Pointy[T any](x T) *T {
	return &x
}

// IsNil returns true if v is nil, or if v wraps a nil pointer/interface/slice/map.
// Useful to test interface values (e.g. EvaluationKeySet) that may hold a typed nil.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// AllDistinct returns true if all elements of s are pairwise distinct.
func AllDistinct[T comparable](s []T) bool {
	seen := make(map[T]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Alias1D returns true if the two slices share backing memory, i.e. writing
// through one may be observed through the other.
func Alias1D[T any](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart, aEnd := aliasBounds(a)
	bStart, bEnd := aliasBounds(b)
	return aStart < bEnd && bStart < aEnd
}

func aliasBounds[T any](s []T) (uintptr, uintptr) {
	var zero T
	sz := unsafe.Sizeof(zero)
	start := uintptr(unsafe.Pointer(&s[:1][0]))
	return start, start + uintptr(len(s))*sz
}

// BitReverse64 returns the bit-reversal of x truncated to the bitLen least
// significant bits.
func BitReverse64(x uint64, bitLen int) (r uint64) {
	r = 0
	for i := 0; i < bitLen; i++ {
		r |= ((x >> i) & 1) << (bitLen - 1 - i)
	}
	return
}

// RotateSliceAllocFree writes into dst the slice src cyclically rotated left
// by k positions, without allocating. dst and src must have the same length
// and must not overlap (the ring package always passes a scratch buffer).
func RotateSliceAllocFree[T any](src []T, k int, dst []T) {
	n := len(src)
	if n == 0 {
		return
	}
	k = ((k % n) + n) % n
	copy(dst, src[k:])
	copy(dst[n-k:], src[:k])
}
