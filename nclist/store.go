// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nclist

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/nclist/interval"
)

// Store is an interval index safe for concurrent use.
//
// Intervals which neither contain nor are contained by any other entry of
// the spine are kept in the spine, a slice sorted like a List level.  Any
// interval that would break that rule when it's added goes to a nested List
// instead, and stays there; the spine is never rebalanced.
//
// All mutations hold the write lock for the whole call, so the spine and the
// nested list are never observed half-updated.  Queries hold the read lock.
type Store[T Item] struct {
	mu    sync.RWMutex
	spine []T
	// nested is created by the first interval the spine rejects.
	nested *List[T]
	// version is bumped by every successful mutation.  Iterators compare it
	// with the value they were created with.
	version uint64
}

// NewStore returns a Store holding items.
func NewStore[T Item](items ...T) *Store[T] {
	s := &Store[T]{}
	for _, x := range items {
		s.Add(x)
	}
	return s
}

// Add adds one interval, returning false only if x is a nil pointer or
// interface.  Duplicates are kept as separate entries.
func (s *Store[T]) Add(x T) bool {
	if isNil(x) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	if !s.addToSpine(x) {
		if s.nested == nil {
			s.nested = &List[T]{}
		}
		s.nested.Add(x)
	}
	return true
}

// addToSpine inserts x into the spine unless that would put two spine entries
// in a containment relation.  Since the spine is sorted and nothing in it
// nests, checking the two neighbors of the insertion point is enough.
func (s *Store[T]) addToSpine(x T) bool {
	pos := interval.SearchOrdered(s.spine, x, interval.CompareByStart)
	if pos > 0 && interval.ProperlyContains(s.spine[pos-1], x) {
		return false
	}
	if pos < len(s.spine) && interval.ProperlyContains(x, s.spine[pos]) {
		return false
	}
	s.spine = slices.Insert(s.spine, pos, x)
	return true
}

// spineIndex returns the index of the first spine entry equal to x, or -1.
// Entries with the same span as x are contiguous in the spine.
func (s *Store[T]) spineIndex(x T) int {
	for i := interval.SearchOrdered(s.spine, x, interval.CompareByStart); i < len(s.spine); i++ {
		entry := s.spine[i]
		if !interval.SpanEquals(entry, x) {
			break
		}
		if equal(entry, x) {
			return i
		}
	}
	return -1
}

// Remove removes the first stored interval equal to x.  It returns false if
// there is none, or if x is nil.
func (s *Store[T]) Remove(x T) bool {
	if isNil(x) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.spineIndex(x); i >= 0 {
		s.spine = slices.Delete(s.spine, i, i+1)
		s.version++
		return true
	}
	if s.nested != nil && s.nested.Remove(x) {
		if s.nested.Len() == 0 {
			s.nested = nil
		}
		s.version++
		return true
	}
	return false
}

// Contains returns whether an interval equal to x is stored.
func (s *Store[T]) Contains(x T) bool {
	if isNil(x) {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.spineIndex(x) >= 0 {
		return true
	}
	return s.nested != nil && s.nested.Contains(x)
}

// FindOverlaps returns the stored intervals that overlap [from, to], in no
// particular order.  Duplicates are all returned.
func (s *Store[T]) FindOverlaps(from, to interval.PosType) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []T
	// No spine entry contains another, so spine end positions are
	// nondecreasing and can be binary searched.
	for i := interval.SearchByEnd(s.spine, from); i < len(s.spine); i++ {
		entry := s.spine[i]
		if entry.Begin() > to {
			break
		}
		if interval.OverlapsRange(entry, from, to) {
			result = append(result, entry)
		}
	}
	if s.nested != nil {
		result = s.nested.appendOverlaps(result, from, to)
	}
	return result
}

// Len returns the number of intervals stored.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count()
}

func (s *Store[T]) count() int {
	n := len(s.spine)
	if s.nested != nil {
		n += s.nested.Len()
	}
	return n
}

// IsEmpty returns whether the store holds no intervals.
func (s *Store[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Depth returns 1 plus the depth of the nested list, or 1 if nothing is
// nested.  An empty store also has depth 1.
func (s *Store[T]) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.nested == nil {
		return 1
	}
	return 1 + s.nested.Depth()
}

// Entries returns all stored intervals: the spine in order, then the nested
// intervals depth first.
func (s *Store[T]) Entries() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, s.count())
	result = append(result, s.spine...)
	if s.nested != nil {
		result = s.nested.appendEntries(result)
	}
	return result
}

// Iterator returns a lazy iterator over the store, in the same order as
// Entries.  See Iterator for the rules on concurrent modification.
func (s *Store[T]) Iterator() *Iterator[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Iterator[T]{store: s, version: s.version}
}

// Clear removes everything.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spine = nil
	s.nested = nil
	s.version++
}

// IsValid checks the invariants of the spine and the nested list, logging the
// first violation found.  It's meant for tests and debugging.
func (s *Store[T]) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, entry := range s.spine {
		if entry.Begin() > entry.End() {
			log.Error.Printf("nclist: spine range %d-%d has begin > end", entry.Begin(), entry.End())
			return false
		}
		if i == 0 {
			continue
		}
		prev := s.spine[i-1]
		if interval.CompareByStart(prev, entry) > 0 {
			log.Error.Printf("nclist: spine out of order: %d-%d, %d-%d",
				prev.Begin(), prev.End(), entry.Begin(), entry.End())
			return false
		}
		if interval.ProperlyContains(prev, entry) || interval.ProperlyContains(entry, prev) {
			log.Error.Printf("nclist: spine contains nested ranges: %d-%d, %d-%d",
				prev.Begin(), prev.End(), entry.Begin(), entry.End())
			return false
		}
	}
	return s.nested == nil || s.nested.IsValid()
}

// String formats the spine as a flat list, followed by the nested list (if
// any) on the next line.
func (s *Store[T]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sb strings.Builder
	s.writeSpine(&sb)
	if s.nested != nil {
		sb.WriteByte('\n')
		s.nested.writeString(&sb)
	}
	return sb.String()
}

// PrettyPrint is like String, but formats the nested list with
// List.PrettyPrint.
func (s *Store[T]) PrettyPrint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sb strings.Builder
	s.writeSpine(&sb)
	sb.WriteByte('\n')
	if s.nested != nil {
		s.nested.prettyPrint(&sb, 0)
	}
	return sb.String()
}

func (s *Store[T]) writeSpine(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, entry := range s.spine {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%d-%d", entry.Begin(), entry.End())
	}
	sb.WriteByte(']')
}
