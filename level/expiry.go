package level

import (
	"bytes"
	"math"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// unresolvedDeadline parks Day orders added before the caller has defined
// the session close. They sit at the top of the key space and are only
// swept once a close tick exists.
const unresolvedDeadline = math.MaxUint64

type expiryKey struct {
	deadline uint64
	id       uuid.UUID
}

func expiryLess(a, b expiryKey) bool {
	if a.deadline != b.deadline {
		return a.deadline < b.deadline
	}
	return bytes.Compare(a.id[:], b.id[:]) < 0
}

// expiryIndex orders GTD/Day orders by deadline so a sweep is a range scan
// instead of a queue walk. It is auxiliary state: the queue stays the
// source of truth and index entries for orders that already left the book
// are dropped lazily during sweeps.
type expiryIndex struct {
	tree *btree.BTreeG[expiryKey]
}

func newExpiryIndex() *expiryIndex {
	return &expiryIndex{tree: btree.NewBTreeG(expiryLess)}
}

func (x *expiryIndex) insert(deadline uint64, id uuid.UUID) {
	x.tree.Set(expiryKey{deadline: deadline, id: id})
}

// due collects the keys ripe at tick: everything with deadline <= tick,
// plus the unresolved Day bucket once the session close has passed.
func (x *expiryIndex) due(tick, sessionClose uint64) []expiryKey {
	var keys []expiryKey
	x.tree.Scan(func(k expiryKey) bool {
		if k.deadline > tick {
			return false
		}
		keys = append(keys, k)
		return true
	})
	if sessionClose > 0 && tick >= sessionClose {
		pivot := expiryKey{deadline: unresolvedDeadline}
		x.tree.Ascend(pivot, func(k expiryKey) bool {
			keys = append(keys, k)
			return true
		})
	}
	return keys
}

func (x *expiryIndex) remove(k expiryKey) {
	x.tree.Delete(k)
}

// ExpireBefore sweeps the queue for GTD and Day orders whose deadline has
// passed at tick, removing them and returning how many were expired. The
// caller drives the cadence; the level never schedules its own sweeps.
func (l *PriceLevel) ExpireBefore(tick uint64) int {
	close := l.sessionClose.Load()
	expired := 0
	for _, k := range l.expiry.due(tick, close) {
		l.expiry.remove(k)
		e, ok := l.orders.lookup(k.id)
		if !ok {
			continue
		}
		if !e.ord.TIF.IsExpired(tick, close) {
			continue
		}
		vis, hid, ok := e.kill(entryExpired)
		if !ok {
			continue
		}
		l.orders.forget(e)
		l.discount(vis, hid)
		l.orderCount.Add(-1)
		l.stats.RecordOrderRemoved()
		expired++
	}
	if expired > 0 {
		l.log.Debug().Uint64("tick", tick).Int("expired", expired).Msg("expiry sweep")
	}
	return expired
}
