package engine

import "fmt"

// Allocator supplies track pixel buffers.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator hands out buffers from the Go heap and keeps count of what
// is outstanding. A positive Limit caps the bytes in use.
type HeapAllocator struct {
	Limit int

	inUse int
	live  int
}

func (h *HeapAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", n)
	}
	if h.Limit > 0 && h.inUse+n > h.Limit {
		return nil, fmt.Errorf("%d bytes requested with %d of %d in use", n, h.inUse, h.Limit)
	}
	h.inUse += n
	h.live++
	return make([]byte, n), nil
}

func (h *HeapAllocator) Free(b []byte) {
	if b == nil {
		return
	}
	h.inUse -= len(b)
	h.live--
}

// InUse is the number of bytes handed out and not yet freed.
func (h *HeapAllocator) InUse() int { return h.inUse }

// Live is the number of buffers handed out and not yet freed.
func (h *HeapAllocator) Live() int { return h.live }
