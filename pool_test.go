package ndicast

import "testing"

func TestBufferPoolOutstanding(t *testing.T) {
	var p bufferPool

	a := p.get(64)
	b := p.get(128)
	if got := p.outstanding.Load(); got != 2 {
		t.Fatalf("outstanding = %d, want 2", got)
	}

	p.put(a)
	p.put(b)
	if got := p.outstanding.Load(); got != 0 {
		t.Fatalf("outstanding after put = %d, want 0", got)
	}
}

func TestBufferPoolReuse(t *testing.T) {
	var p bufferPool

	b := p.get(256)
	p.put(b)

	// A smaller request may reuse the larger buffer; length must still
	// match the request.
	c := p.get(100)
	if len(c) != 100 {
		t.Errorf("len = %d, want 100", len(c))
	}
	p.put(c)
}
