package ndicast

// frameQueue is a bounded FIFO of pending outbound video packets, decoupling
// the host's capture callback from the send loop. A buffered channel gives
// both the capacity bound and the consumer's blocking wait in one structure,
// so queue depth and wakeup count can never disagree.
type frameQueue struct {
	ch chan *VideoPacket
}

func newFrameQueue(capacity int) *frameQueue {
	return &frameQueue{ch: make(chan *VideoPacket, capacity)}
}

// tryPush appends p without blocking. It reports false when the queue is at
// capacity; back-pressure is by drop, never by blocking the capture thread.
func (q *frameQueue) tryPush(p *VideoPacket) bool {
	select {
	case q.ch <- p:
		return true
	default:
		return false
	}
}

// tryPop removes the oldest packet without blocking.
func (q *frameQueue) tryPop() (*VideoPacket, bool) {
	select {
	case p := <-q.ch:
		return p, true
	default:
		return nil, false
	}
}

// len returns the current number of pending packets.
func (q *frameQueue) len() int {
	return len(q.ch)
}
