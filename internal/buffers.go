package internal

import "sync"

// Buffers are pooled by the streaming encoder, which reuses one scratch
// slice per value instead of allocating an exact-size result.
var bufPool = sync.Pool{New: func() any { b := make([]byte, 0, 512); return &b }}

// GetBuffer returns a slice of length n, reusing pooled capacity when it
// is large enough.
func GetBuffer(n int) *[]byte {
	p := bufPool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
	}
	*p = (*p)[:n]
	return p
}

func PutBuffer(p *[]byte) {
	if p == nil || cap(*p) > 1<<20 {
		return
	}
	*p = (*p)[:0]
	bufPool.Put(p)
}
