package cache

// entry is one cached value threaded on the recency ring.
type entry[K comparable, V any] struct {
	key        K
	value      V
	newer, old *entry[K, V]
}

// ring is a circular recency list around a sentinel. root.old is the most
// recently used entry and root.newer the least recently used. The zero ring
// is not usable; call init first. Not safe for concurrent use.
type ring[K comparable, V any] struct {
	root entry[K, V]
	n    int
}

func (r *ring[K, V]) init() {
	r.root.newer = &r.root
	r.root.old = &r.root
	r.n = 0
}

func (r *ring[K, V]) len() int { return r.n }

// front links e as the most recently used entry.
func (r *ring[K, V]) front(e *entry[K, V]) {
	e.newer = &r.root
	e.old = r.root.old
	r.root.old.newer = e
	r.root.old = e
	r.n++
}

// touch moves a linked entry to the front.
func (r *ring[K, V]) touch(e *entry[K, V]) {
	if r.root.old == e {
		return
	}
	r.unlink(e)
	r.front(e)
}

// oldest returns the least recently used entry, or nil when empty.
func (r *ring[K, V]) oldest() *entry[K, V] {
	if r.n == 0 {
		return nil
	}
	return r.root.newer
}

func (r *ring[K, V]) unlink(e *entry[K, V]) {
	e.old.newer = e.newer
	e.newer.old = e.old
	e.newer, e.old = nil, nil
	r.n--
}
