package level

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// queue is a lock-free multi-producer multi-consumer FIFO of entries with
// id lookup. The list is a Michael-Scott queue behind a sentinel head;
// dead entries (filled, refilled, cancelled, expired) stay linked until
// they reach the front and are lazily unlinked. The index maps id to the
// current entry and is the cancellation path's way in.
//
// Ordering: enqueue publishes with a release CAS on the predecessor's next
// pointer, so a consumer that observes an entry also observes its
// descriptor. If enqueue(A) happens before enqueue(B), A precedes B in
// every traversal until one of them is removed.
type queue struct {
	head  atomic.Pointer[entry]
	tail  atomic.Pointer[entry]
	index sync.Map // uuid.UUID -> *entry
}

func newQueue() *queue {
	q := &queue{}
	sentinel := &entry{}
	sentinel.state.Store(int32(entryFilled))
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// enqueue appends e and publishes it in the index. Never blocks; bounded
// CAS retries under contention.
func (q *queue) enqueue(e *entry) {
	q.index.Store(e.id(), e)
	for {
		t := q.tail.Load()
		next := t.next.Load()
		if t != q.tail.Load() {
			continue
		}
		if next != nil {
			// Tail is lagging; help it along.
			q.tail.CompareAndSwap(t, next)
			continue
		}
		if t.next.CompareAndSwap(nil, e) {
			q.tail.CompareAndSwap(t, e)
			return
		}
	}
}

// front returns the first entry with visible quantity, unlinking dead
// entries that have reached the head. Live entries whose visible count is
// transiently zero (another consumer is mid-refill) are walked past but
// left linked.
func (q *queue) front() *entry {
	h := q.head.Load()
	atHead := true
	for {
		n := h.next.Load()
		if n == nil {
			return nil
		}
		if !n.live() {
			if !atHead {
				// Past a transient entry; leave the unlink for later.
				h = n
				continue
			}
			if q.head.CompareAndSwap(h, n) {
				h = n
			} else {
				h = q.head.Load()
			}
			continue
		}
		if n.visible.Load() == 0 {
			h = n
			atHead = false
			continue
		}
		return n
	}
}

// lookup finds the current entry for an id.
func (q *queue) lookup(id uuid.UUID) (*entry, bool) {
	v, ok := q.index.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// forget drops the index mapping, but only if it still points at e. A
// refill overwrites the mapping with the replacement entry before the old
// one dies, and that mapping must survive.
func (q *queue) forget(e *entry) {
	q.index.CompareAndDelete(e.id(), e)
}

// iterate walks the live entries in queue order. The walk is a lazy
// snapshot: entries enqueued after the walk started may or may not be
// seen, dead entries never are. fn returns false to stop.
func (q *queue) iterate(fn func(*entry) bool) {
	for n := q.head.Load().next.Load(); n != nil; n = n.next.Load() {
		if !n.live() {
			continue
		}
		if !fn(n) {
			return
		}
	}
}
