package ndicast

import (
	"sync"
	"sync/atomic"
)

// bufferPool recycles frame payload buffers passed between the capture
// callback and the send loop. Ownership of a buffer moves with it: whoever
// holds the packet releases the payload, so a buffer can never be freed
// twice or leak past Stop. The outstanding counter tracks buffers currently
// checked out, which tests use to prove teardown releases everything.
type bufferPool struct {
	pool        sync.Pool
	outstanding atomic.Int64
}

// get returns a buffer of length n, reusing a pooled allocation when one is
// large enough.
func (p *bufferPool) get(n int) []byte {
	p.outstanding.Add(1)
	if b, ok := p.pool.Get().([]byte); ok && cap(b) >= n {
		return b[:n]
	}
	return make([]byte, n)
}

// put returns a buffer to the pool. The caller must not touch b afterwards.
func (p *bufferPool) put(b []byte) {
	p.outstanding.Add(-1)
	p.pool.Put(b[:cap(b)])
}
