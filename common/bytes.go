package common

import "unsafe"

// BytesToSlice reinterprets a raw byte slice as a slice of T using unsafe.
// The byte length must be an exact multiple of T's size; trailing bytes that
// do not fill a complete element are discarded.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source byte slice
//
// Returns:
//   - []T: typed slice view of the input bytes, or nil if input is empty
func BytesToSlice[T any](data []byte) []T {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	count := len(data) / size
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), count)
}

// SliceToBytes reinterprets a slice of T as its raw bytes using unsafe.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source typed slice
//
// Returns:
//   - []byte: byte view of the input slice, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}

// BytesToStruct reinterprets a raw byte slice as a pointer to T using unsafe.
// Returns nil if the slice is shorter than T's size in memory.
//
// Parameters:
//   - data: source byte slice, at least as long as T's size
//
// Returns:
//   - *T: pointer view of the input bytes, or nil if the slice is too short
func BytesToStruct[T any](data []byte) *T {
	var zero T
	if len(data) < int(unsafe.Sizeof(zero)) {
		return nil
	}
	return (*T)(unsafe.Pointer(&data[0]))
}
