package tasklist

// List is a singly-linked, owning list of Records. The zero value is not
// usable; construct with NewSharedLists.
//
// A List has no internal synchronization: per spec.md §5, the DDS core is
// the sole goroutine that ever touches a given set of lists, so mutual
// exclusion between Active/Completed/Overdue is unnecessary. Callers that
// share a List across goroutines must provide their own locking.
type List struct {
	head *node
	tail *node
	pool *pool
	n    int
}

// NewSharedLists constructs the three task lists spec.md §3 describes
// (Active, Completed, Overdue), backed by a single node pool sized to
// capacity. Because instances move between lists by unlinking from one and
// relinking into another (not by copying through the pool), one pool
// correctly bounds the total population across all three at any instant.
func NewSharedLists(capacity int) (active, completed, overdue *List) {
	p := newPool(capacity)
	return &List{pool: p}, &List{pool: p}, &List{pool: p}
}

// InsertFront prepends rec. O(1).
func (l *List) InsertFront(rec Record) error {
	nd, err := l.pool.get(rec)
	if err != nil {
		return err
	}
	nd.next = l.head
	l.head = nd
	if l.tail == nil {
		l.tail = nd
	}
	l.n++
	return nil
}

// InsertBack appends rec. O(1): the list keeps a tail pointer, so no walk
// from the head is needed.
func (l *List) InsertBack(rec Record) error {
	nd, err := l.pool.get(rec)
	if err != nil {
		return err
	}
	if l.tail == nil {
		l.head = nd
		l.tail = nd
	} else {
		l.tail.next = nd
		l.tail = nd
	}
	l.n++
	return nil
}

// ErrEmpty is returned by PopFront when the list has no entries. Per
// spec.md §7 this is an end-of-sweep condition internally, not a failure;
// callers that treat an empty Active list as "nothing more to sweep" should
// check for it explicitly rather than propagating it.
var ErrEmpty = errNoMoreRecords{}

type errNoMoreRecords struct{}

func (errNoMoreRecords) Error() string { return "tasklist: list is empty" }

// PopFront removes and returns the first Record, or ErrEmpty.
func (l *List) PopFront() (Record, error) {
	if l.head == nil {
		return Record{}, ErrEmpty
	}
	nd := l.head
	l.head = nd.next
	if l.head == nil {
		l.tail = nil
	}
	rec := nd.rec
	l.n--
	l.pool.put(nd)
	return rec, nil
}

// DeleteByID removes the first Record with the given TaskID. No-op (returns
// false) if absent, per spec.md §7's "unknown id" policy.
func (l *List) DeleteByID(id uint32) (Record, bool) {
	var prev *node
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.rec.TaskID == id {
			if prev == nil {
				l.head = cur.next
			} else {
				prev.next = cur.next
			}
			if cur == l.tail {
				l.tail = prev
			}
			rec := cur.rec
			l.n--
			l.pool.put(cur)
			return rec, true
		}
		prev = cur
	}
	return Record{}, false
}

// SortEDF performs a stable ascending sort on AbsoluteDeadline. Stability is
// load-bearing: spec.md §4.D's tie-breaking rule requires that when two
// instances share a deadline, the earlier-inserted one stays first so it
// keeps priority MED. Insertion sort is used deliberately (not a generic
// sort.Stable on a slice view) so ties never reorder — it only ever swaps
// strictly-greater-than-neighbour pairs, the same invariant the original
// bubble-sort reference (dd_task_list.c) relies on.
func (l *List) SortEDF() {
	if l.head == nil || l.head.next == nil {
		return
	}
	var sorted *node
	cur := l.head
	for cur != nil {
		next := cur.next
		if sorted == nil || cur.rec.AbsoluteDeadline < sorted.rec.AbsoluteDeadline {
			cur.next = sorted
			sorted = cur
		} else {
			s := sorted
			for s.next != nil && s.next.rec.AbsoluteDeadline <= cur.rec.AbsoluteDeadline {
				s = s.next
			}
			cur.next = s.next
			s.next = cur
		}
		cur = next
	}
	l.head = sorted
	tail := sorted
	for tail.next != nil {
		tail = tail.next
	}
	l.tail = tail
}

// Count returns the number of Records currently in the list. O(1).
func (l *List) Count() int { return l.n }

// Traverse calls visit for every Record front-to-back, stopping early if
// visit returns false. It never mutates the list.
func (l *List) Traverse(visit func(Record) bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if !visit(cur.rec) {
			return
		}
	}
}

// Front returns the first Record without removing it, and whether the list
// was non-empty.
func (l *List) Front() (Record, bool) {
	if l.head == nil {
		return Record{}, false
	}
	return l.head.rec, true
}

// Snapshot returns a deep copy of the list's contents, in order. Used by the
// DDS core to answer GetActive/GetCompleted/GetOverdue (spec.md §4.D
// "Idempotence": two snapshots of an unchanged list must compare equal).
func (l *List) Snapshot() []Record {
	out := make([]Record, 0, l.n)
	l.Traverse(func(r Record) bool {
		out = append(out, r)
		return true
	})
	return out
}
