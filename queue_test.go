package ndicast

import "testing"

func TestFrameQueueFIFO(t *testing.T) {
	q := newFrameQueue(4)

	a := &VideoPacket{Timecode: 1}
	b := &VideoPacket{Timecode: 2}
	c := &VideoPacket{Timecode: 3}
	for _, p := range []*VideoPacket{a, b, c} {
		if !q.tryPush(p) {
			t.Fatalf("tryPush failed below capacity")
		}
	}
	if q.len() != 3 {
		t.Fatalf("len = %d, want 3", q.len())
	}

	for i, want := range []*VideoPacket{a, b, c} {
		got, ok := q.tryPop()
		if !ok || got != want {
			t.Fatalf("pop %d = %v, want %v", i, got, want)
		}
	}
}

func TestFrameQueueCap(t *testing.T) {
	q := newFrameQueue(maxBufferedFrames)

	for i := 0; i < maxBufferedFrames; i++ {
		if !q.tryPush(&VideoPacket{}) {
			t.Fatalf("push %d failed below capacity", i)
		}
	}

	// The push over the cap must fail without blocking.
	if q.tryPush(&VideoPacket{}) {
		t.Errorf("push %d succeeded past the cap", maxBufferedFrames)
	}
	if q.len() != maxBufferedFrames {
		t.Errorf("len = %d, want %d", q.len(), maxBufferedFrames)
	}
}

func TestFrameQueueTryPopEmpty(t *testing.T) {
	q := newFrameQueue(2)
	if p, ok := q.tryPop(); ok || p != nil {
		t.Errorf("tryPop on empty queue = %v, %v", p, ok)
	}
}
