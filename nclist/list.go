// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nclist

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/nclist/interval"
)

// node is one stored interval (its region) plus the List of intervals it
// properly contains, if any.  A node uniquely owns its sub-list.
type node[T Item] struct {
	region T
	sub    *List[T]
}

// Begin implements interval.Interval.
func (n *node[T]) Begin() interval.PosType { return n.region.Begin() }

// End implements interval.Interval.
func (n *node[T]) End() interval.PosType { return n.region.End() }

// size returns the number of intervals rooted at n, n's region included.
func (n *node[T]) size() int {
	if n.sub == nil {
		return 1
	}
	return 1 + n.sub.size
}

// add pushes m somewhere below n.  m must be contained in n's region; anything
// else means the caller has broken the tree.
func (n *node[T]) add(m *node[T]) {
	if !interval.Contains(n, m) {
		log.Panicf("nclist: adding improper subrange %d-%d to range %d-%d",
			m.Begin(), m.End(), n.Begin(), n.End())
	}
	if n.sub == nil {
		n.sub = &List[T]{}
	}
	n.sub.addNode(m)
}

func (n *node[T]) depth() int {
	if n.sub == nil {
		return 1
	}
	return 1 + n.sub.Depth()
}

func (n *node[T]) writeString(sb *strings.Builder) {
	fmt.Fprintf(sb, "%d-%d", n.Begin(), n.End())
	if n.sub != nil {
		sb.WriteByte(' ')
		n.sub.writeString(sb)
	}
}

// List is a nested containment list.  Its nodes are sorted by start position,
// longer first among nodes with the same start, and no node properly contains
// one of its siblings.  Since nodes with the same span can't properly contain
// each other, co-located intervals always end up as siblings.
//
// A consequence of the no-containment rule is that sibling end positions are
// nondecreasing, which is what makes the end-based binary search in
// firstOverlap valid.
//
// The zero List is empty and ready to use.  List does no locking; use Store
// when the index is shared between goroutines.
type List[T Item] struct {
	nodes []*node[T]
	// size is the number of intervals in the whole tree, not just len(nodes).
	size int
	// version is bumped by Add, Clear and successful calls to Remove.
	version uint64
}

// Build constructs a List from a batch of intervals.  items itself is not
// modified.
//
// The intervals are sorted by start (longer first), then each maximal run in
// which the head of the run properly contains every following interval
// becomes one subtree, recursively.  This is O(n log n), versus
// O(n (log n + d)) for adding one at a time, and the resulting shape may
// differ from the incremental one.
func Build[T Item](items []T) *List[T] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int { return interval.CompareByStart(a, b) })
	l := buildSorted(sorted)
	log.Debug.Printf("nclist: built %d interval(s) into %d top-level node(s)", l.size, len(l.nodes))
	return l
}

func buildSorted[T Item](sorted []T) *List[T] {
	l := &List[T]{size: len(sorted)}
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && interval.ProperlyContains(sorted[i], sorted[j]) {
			j++
		}
		n := &node[T]{region: sorted[i]}
		if j > i+1 {
			n.sub = buildSorted(sorted[i+1 : j])
		}
		l.nodes = append(l.nodes, n)
		i = j
	}
	return l
}

// Len returns the number of intervals stored.
func (l *List[T]) Len() int { return l.size }

// Add adds one interval.  Duplicates are kept as separate entries.
func (l *List[T]) Add(x T) {
	l.version++
	l.addNode(&node[T]{region: x})
}

// firstOverlap returns the index of the first node whose end is at or after
// pos, i.e. the first node that may overlap a range starting at pos.
func (l *List[T]) firstOverlap(pos interval.PosType) int {
	return interval.SearchByEnd(l.nodes, pos)
}

// addNode adds n, along with the subtree it already owns, to the list.
//
// Cases, in the order they're tested for each candidate sibling:
//   1) n has the same span as the sibling: insert n next to it
//   2) n lies entirely before the sibling: insert n in front of it
//   3) the sibling properly contains n: recurse into the sibling
//   4) n starts at or before the sibling and contains it: remember the run
//      of enclosed siblings and keep going
//   5) n starts at or before the sibling but ends inside it: either push the
//      run from 4) inside n, or insert n here
// If the scan runs off the end, n either encloses a trailing run or simply
// goes last.
func (l *List[T]) addNode(n *node[T]) {
	start, end := n.Begin(), n.End()
	l.size += n.size()

	var (
		enclosing     bool
		firstEnclosed int
		lastEnclosed  int
	)
	for j := l.firstOverlap(start); j < len(l.nodes); j++ {
		sibling := l.nodes[j]
		if interval.SpanEquals(sibling, n) {
			l.nodes = slices.Insert(l.nodes, j, n)
			return
		}
		if end < sibling.Begin() && !enclosing {
			l.nodes = slices.Insert(l.nodes, j, n)
			return
		}
		if interval.ProperlyContains(sibling, n) {
			sibling.add(n)
			return
		}
		if start <= sibling.Begin() {
			if end >= sibling.End() {
				if !enclosing {
					firstEnclosed = j
				}
				lastEnclosed = j
				enclosing = true
				continue
			}
			if enclosing {
				l.push(n, firstEnclosed, lastEnclosed)
			} else {
				l.nodes = slices.Insert(l.nodes, j, n)
			}
			return
		}
	}
	if enclosing {
		l.push(n, firstEnclosed, lastEnclosed)
	} else {
		l.nodes = append(l.nodes, n)
	}
}

// push replaces nodes [i, j] with n, moving them into n's subtree.  It
// doesn't change l.size.
func (l *List[T]) push(n *node[T], i, j int) {
	for k := i; k <= j; k++ {
		if m := l.nodes[k]; !interval.Contains(n, m) {
			log.Panicf("nclist: can't push %d-%d inside %d-%d", m.Begin(), m.End(), n.Begin(), n.End())
		}
	}
	for k := i; k <= j; k++ {
		n.add(l.nodes[k])
	}
	l.nodes[i] = n
	l.nodes = slices.Delete(l.nodes, i+1, j+1)
}

// Remove removes the first stored interval equal to x, returning false if
// there is none.  If the removed interval had nested intervals, they are
// promoted to its level and re-sorted in among its former siblings.
func (l *List[T]) Remove(x T) bool {
	begin := x.Begin()
	for i := l.firstOverlap(begin); i < len(l.nodes); i++ {
		sibling := l.nodes[i]
		if sibling.Begin() > begin {
			return false
		}
		if equal(sibling.region, x) {
			l.nodes = slices.Delete(l.nodes, i, i+1)
			l.size -= sibling.size()
			l.version++
			if sibling.sub != nil {
				log.Debug.Printf("nclist: promoting %d node(s) from removed %d-%d",
					len(sibling.sub.nodes), sibling.Begin(), sibling.End())
				for _, child := range sibling.sub.nodes {
					l.addNode(child)
				}
			}
			return true
		}
		if sibling.sub != nil && interval.Contains(sibling, x) && sibling.sub.Remove(x) {
			if sibling.sub.size == 0 {
				sibling.sub = nil
			}
			l.size--
			l.version++
			return true
		}
	}
	return false
}

// Contains returns whether an interval equal to x is stored.
func (l *List[T]) Contains(x T) bool {
	begin := x.Begin()
	for i := l.firstOverlap(begin); i < len(l.nodes); i++ {
		sibling := l.nodes[i]
		if sibling.Begin() > begin {
			break
		}
		if equal(sibling.region, x) {
			return true
		}
		if sibling.sub != nil && interval.Contains(sibling, x) && sibling.sub.Contains(x) {
			return true
		}
	}
	return false
}

// FindOverlaps returns the stored intervals that overlap [from, to], in no
// particular order.  Duplicates are all returned.
func (l *List[T]) FindOverlaps(from, to interval.PosType) []T {
	return l.appendOverlaps(nil, from, to)
}

func (l *List[T]) appendOverlaps(result []T, from, to interval.PosType) []T {
	for i := l.firstOverlap(from); i < len(l.nodes); i++ {
		sibling := l.nodes[i]
		if sibling.Begin() > to {
			break
		}
		if !interval.OverlapsRange(sibling, from, to) {
			continue
		}
		result = append(result, sibling.region)
		// Everything below sibling lies within it, so there's no point looking
		// under siblings that don't overlap.
		if sibling.sub != nil {
			result = sibling.sub.appendOverlaps(result, from, to)
		}
	}
	return result
}

// Entries returns all stored intervals, depth first.
func (l *List[T]) Entries() []T {
	return l.appendEntries(make([]T, 0, l.size))
}

func (l *List[T]) appendEntries(result []T) []T {
	for _, n := range l.nodes {
		result = append(result, n.region)
		if n.sub != nil {
			result = n.sub.appendEntries(result)
		}
	}
	return result
}

// Depth returns the nesting depth of the tree: 0 if empty, 1 if no interval
// is nested inside another.
func (l *List[T]) Depth() int {
	depth := 0
	for _, n := range l.nodes {
		depth = max(depth, n.depth())
	}
	return depth
}

// Clear removes everything.
func (l *List[T]) Clear() {
	l.nodes = nil
	l.size = 0
	l.version++
}

// IsValid checks the structural invariants of the tree, logging the first
// violation found.  It's meant for tests and debugging.
func (l *List[T]) IsValid() bool {
	_, ok := l.validate(interval.PosTypeMin, interval.PosTypeMax)
	return ok
}

// validate checks the list as the child list of a node spanning [start, end].
// It returns the recomputed number of intervals in the list.
func (l *List[T]) validate(start, end interval.PosType) (int, bool) {
	count := 0
	var prev *node[T]
	for _, n := range l.nodes {
		if n.Begin() > n.End() {
			log.Error.Printf("nclist: range %d-%d has begin > end", n.Begin(), n.End())
			return count, false
		}
		if n.Begin() < start {
			log.Error.Printf("nclist: range %d-%d starts before %d", n.Begin(), n.End(), start)
			return count, false
		}
		if n.End() > end {
			log.Error.Printf("nclist: range %d-%d ends after %d", n.Begin(), n.End(), end)
			return count, false
		}
		if prev != nil {
			if interval.CompareByStart(prev, n) > 0 {
				log.Error.Printf("nclist: range %d-%d sorts before preceding %d-%d",
					n.Begin(), n.End(), prev.Begin(), prev.End())
				return count, false
			}
			if interval.ProperlyContains(n, prev) {
				log.Error.Printf("nclist: range %d-%d encloses preceding %d-%d",
					n.Begin(), n.End(), prev.Begin(), prev.End())
				return count, false
			}
			if interval.ProperlyContains(prev, n) {
				log.Error.Printf("nclist: range %d-%d enclosed by preceding %d-%d",
					n.Begin(), n.End(), prev.Begin(), prev.End())
				return count, false
			}
		}
		prev = n
		count++
		if n.sub != nil {
			if len(n.sub.nodes) == 0 {
				log.Error.Printf("nclist: range %d-%d has an empty sub-list", n.Begin(), n.End())
				return count, false
			}
			subCount, ok := n.sub.validate(n.Begin(), n.End())
			if !ok {
				return count, false
			}
			count += subCount
		}
	}
	if count != l.size {
		log.Error.Printf("nclist: list holds %d interval(s) but its size is %d", count, l.size)
		return count, false
	}
	return count, true
}

// String formats the tree as a bracketed list e.g.
//   [1-100 [10-30 [10-20]], 15-30 [20-20]]
func (l *List[T]) String() string {
	var sb strings.Builder
	l.writeString(&sb)
	return sb.String()
}

func (l *List[T]) writeString(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, n := range l.nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		n.writeString(sb)
	}
	sb.WriteByte(']')
}

// PrettyPrint formats the tree one node per line, each level indented by two
// more spaces than its parent.
func (l *List[T]) PrettyPrint() string {
	var sb strings.Builder
	l.prettyPrint(&sb, 0)
	return sb.String()
}

func (l *List[T]) prettyPrint(sb *strings.Builder, offset int) {
	for _, n := range l.nodes {
		sb.WriteString(strings.Repeat(" ", offset))
		fmt.Fprintf(sb, "%d-%d\n", n.Begin(), n.End())
		if n.sub != nil {
			n.sub.prettyPrint(sb, offset+2)
		}
	}
}

// Iterator returns a depth-first iterator over the list.  Like a Store
// iterator, it stops with ErrModified once the list is modified.  List does
// no locking, so the list must not be modified concurrently with Scan.
func (l *List[T]) Iterator() *Iterator[T] {
	it := &Iterator[T]{list: l, version: l.version}
	if len(l.nodes) > 0 {
		it.stack = append(it.stack, cursor[T]{list: l})
	}
	return it
}
