package nclist

import (
	"github.com/grailbio/base/errors"
)

// ErrModified is reported by Iterator.Err when the Store or List being
// iterated over was modified after the iterator was created.
var ErrModified = errors.E("nclist: store modified during iteration")

type cursor[T Item] struct {
	list *List[T]
	idx  int
}

// Iterator walks the intervals of a Store or List lazily.  Store iterators
// yield the spine first, then the nested intervals depth first: each node
// before the nodes nested inside it, then its next sibling.
//
// Use it like a bufio.Scanner:
//   for it := s.Iterator(); it.Scan(); {
//     iv := it.Value()
//     ...
//   }
//   if err := it.Err(); err != nil { ... }
//
// An iterator stops, and Err returns ErrModified, if its Store or List is
// modified after the iterator was created; it can't be restarted.
type Iterator[T Item] struct {
	store   *Store[T]
	list    *List[T]
	version uint64
	spine   int
	started bool
	stack   []cursor[T]
	value   T
	err     error
}

// Scan advances to the next interval, returning false at the end or on error.
func (it *Iterator[T]) Scan() bool {
	if it.err != nil {
		return false
	}
	if it.store == nil {
		if it.list.version != it.version {
			it.err = ErrModified
			return false
		}
		return it.next()
	}
	s := it.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.version != it.version {
		it.err = ErrModified
		return false
	}
	if it.spine < len(s.spine) {
		it.value = s.spine[it.spine]
		it.spine++
		return true
	}
	if !it.started {
		it.started = true
		if s.nested != nil && len(s.nested.nodes) > 0 {
			it.stack = append(it.stack, cursor[T]{list: s.nested})
		}
	}
	return it.next()
}

// next steps the depth-first walk over it.stack.
func (it *Iterator[T]) next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.idx >= len(top.list.nodes) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		n := top.list.nodes[top.idx]
		top.idx++
		if n.sub != nil {
			it.stack = append(it.stack, cursor[T]{list: n.sub})
		}
		it.value = n.region
		return true
	}
	var zero T
	it.value = zero
	return false
}

// Value returns the interval found by the last successful call to Scan.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Err returns the error, if any, that stopped the iteration.
func (it *Iterator[T]) Err() error {
	return it.err
}
