package skiplist

import (
	"cmp"
	"sync/atomic"

	"github.com/vkolb/ccmetrics/internal/hazard"
	"github.com/vkolb/ccmetrics/internal/tlocal"
)

// hazardSlots is the number of hazard registers each find/insert/erase call
// carries: 1 holds the node currently being examined, 2 holds the running
// predecessor, and 3 (insert only) holds a freshly allocated node between
// its construction and the CAS that publishes it. Register 0 is not used.
const hazardSlots = 4

// SkipList is a lock-free ordered map from K to V.
type SkipList[K cmp.Ordered, V any] struct {
	head   *node[K, V]
	height atomic.Int32
	size   atomic.Int64

	hzPool *hazard.Pool[node[K, V]]
	rngMgr *tlocal.Manager[*tlocal.RNG]
}

// New creates an empty SkipList.
func New[K cmp.Ordered, V any]() *SkipList[K, V] {
	var zeroK K
	var zeroV V
	sl := &SkipList[K, V]{
		head:   newNode[K, V](zeroK, zeroV, maxHeight),
		hzPool: hazard.NewPool[node[K, V]](hazardSlots),
		rngMgr: tlocal.NewManager(func() *tlocal.RNG { return tlocal.NewRNG() }),
	}
	sl.height.Store(1)
	return sl
}

func randomLevel(rng *tlocal.RNG) int {
	level := 1
	for level < maxHeight && rng.Float64() < 0.5 {
		level++
	}
	return level
}

// searchState is reused across a find()'s internal retries to avoid
// reallocating the per-level scratch slices on every restart.
type searchState[K any, V any] struct {
	preds     [maxHeight]*node[K, V]
	succs     [maxHeight]*node[K, V]
	predLinks [maxHeight]*markPtr[K, V]
}

// findOnce performs a single top-to-bottom pass, opportunistically
// physically unlinking any dead node it passes over. It returns false if it
// observed an inconsistent forward pointer mid-pass, in which case the
// caller should discard whatever it collected and try again.
func (sl *SkipList[K, V]) findOnce(key K, slot *hazard.Slot[node[K, V]], st *searchState[K, V]) bool {
	pred := sl.head
	for level := int(sl.height.Load()) - 1; level >= 0; level-- {
		curLink := pred.next[level].Load()
		if curLink.dead {
			return false
		}
		for curLink.next != nil {
			cur := curLink.next
			slot.SetHazard(1, cur)
			if pred.next[level].Load() != curLink {
				return false
			}
			if cur.isDead() {
				unlinked := &markPtr[K, V]{next: cur.next[level].Load().next}
				if !pred.next[level].CompareAndSwap(curLink, unlinked) {
					return false
				}
				if level == 0 {
					slot.Retire(cur)
				}
				curLink = unlinked
				continue
			}
			if cur.key < key {
				pred = cur
				slot.SetHazard(2, pred)
				curLink = cur.next[level].Load()
				if curLink.dead {
					return false
				}
				continue
			}
			break
		}
		st.preds[level] = pred
		st.succs[level] = curLink.next
		st.predLinks[level] = curLink
	}
	return true
}

func (sl *SkipList[K, V]) find(key K, slot *hazard.Slot[node[K, V]], st *searchState[K, V]) (*node[K, V], bool) {
	for !sl.findOnce(key, slot, st) {
	}
	if st.succs[0] != nil && st.succs[0].key == key {
		return st.succs[0], true
	}
	return nil, false
}

func (sl *SkipList[K, V]) raiseHeight(h int) {
	for {
		cur := sl.height.Load()
		if int(cur) >= h {
			return
		}
		if sl.height.CompareAndSwap(cur, int32(h)) {
			return
		}
	}
}

// Find returns the value stored under key, if any.
func (sl *SkipList[K, V]) Find(key K) (V, bool) {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	var st searchState[K, V]
	n, ok := sl.find(key, slot, &st)
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Exists reports whether key is present.
func (sl *SkipList[K, V]) Exists(key K) bool {
	_, ok := sl.Find(key)
	return ok
}

// Insert adds key/value if key is absent. It returns the value already
// associated with key (and false) if key was already present, without
// overwriting it; otherwise it returns value and true.
func (sl *SkipList[K, V]) Insert(key K, value V) (V, bool) {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	rl := sl.rngMgr.Acquire()
	height := randomLevel(*rl.Value)
	rl.Release()
	sl.raiseHeight(height)

	var st searchState[K, V]
	for {
		if existing, ok := sl.find(key, slot, &st); ok {
			return existing.value, false
		}

		n := newNode(key, value, height)
		n.next[0].Store(&markPtr[K, V]{next: st.succs[0]})
		slot.SetHazard(3, n)

		if !st.preds[0].next[0].CompareAndSwap(st.predLinks[0], &markPtr[K, V]{next: n}) {
			continue
		}

	raise:
		for level := 1; level < height; level++ {
			n.next[level].Store(&markPtr[K, V]{next: st.succs[level]})
			for {
				if n.isDead() {
					break raise
				}
				if st.preds[level].next[level].CompareAndSwap(st.predLinks[level], &markPtr[K, V]{next: n}) {
					break
				}
				if _, ok := sl.find(key, slot, &st); !ok || st.succs[0] != n {
					break raise
				}
				n.next[level].Store(&markPtr[K, V]{next: st.succs[level]})
			}
		}

		sl.size.Add(1)
		return value, true
	}
}

// Erase removes key, returning its value and true if it was present.
func (sl *SkipList[K, V]) Erase(key K) (V, bool) {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	var st searchState[K, V]
	for {
		target, ok := sl.find(key, slot, &st)
		if !ok {
			var zero V
			return zero, false
		}

		bottom := target.next[0].Load()
		if bottom.dead {
			var zero V
			return zero, false
		}
		marked := &markPtr[K, V]{next: bottom.next, dead: true}
		if target.next[0].CompareAndSwap(bottom, marked) {
			value := target.value
			sl.size.Add(-1)
			// Force the physical unlink now rather than waiting for some
			// future Find to do it lazily.
			sl.find(key, slot, &st)
			return value, true
		}
	}
}

// Len returns the number of live entries. Like every other operation here,
// it is not linearizable with concurrent Insert/Erase calls.
func (sl *SkipList[K, V]) Len() int {
	return int(sl.size.Load())
}

// Entries returns a point-in-time snapshot of every live key/value pair in
// ascending key order. Concurrent Insert/Erase calls may or may not be
// reflected depending on timing.
func (sl *SkipList[K, V]) Entries() []Entry[K, V] {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	var entries []Entry[K, V]
	link := sl.head.next[0].Load()
	for link.next != nil {
		cur := link.next
		slot.SetHazard(1, cur)
		if !cur.isDead() {
			entries = append(entries, Entry[K, V]{Key: cur.key, Value: cur.value})
		}
		link = cur.next[0].Load()
	}
	return entries
}

// Values returns a point-in-time snapshot of every live value in ascending
// key order, without allocating the keys Entries would.
func (sl *SkipList[K, V]) Values() []V {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	var values []V
	link := sl.head.next[0].Load()
	for link.next != nil {
		cur := link.next
		slot.SetHazard(1, cur)
		if !cur.isDead() {
			values = append(values, cur.value)
		}
		link = cur.next[0].Load()
	}
	return values
}

// Entry is one key/value pair returned by Entries.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// FirstKey returns the smallest live key, if the map is non-empty.
func (sl *SkipList[K, V]) FirstKey() (K, bool) {
	slot := sl.hzPool.Acquire()
	defer sl.hzPool.Release(slot)

	link := sl.head.next[0].Load()
	for link.next != nil {
		cur := link.next
		slot.SetHazard(1, cur)
		if !cur.isDead() {
			return cur.key, true
		}
		link = cur.next[0].Load()
	}
	var zero K
	return zero, false
}
