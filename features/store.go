// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package features

import (
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/nclist/nclist"
)

// Store holds the features of one type on one sequence.  It is safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex
	// positional holds every positional feature that isn't a contact.
	positional *nclist.Store[*Feature]
	// contactStarts and contactEnds hold the same contact features, sorted by
	// interval.CompareByStart and interval.CompareByEnd respectively.
	contactStarts []*Feature
	contactEnds   []*Feature
	nonPositional []*Feature

	positionalGroups    map[string]struct{}
	nonPositionalGroups map[string]struct{}
	totalLength         int
	// Score ranges are NaN until a scored feature is added.
	positionalMin, positionalMax       float64
	nonPositionalMin, nonPositionalMax float64
}

var nan = math.NaN()

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{positional: nclist.NewStore[*Feature]()}
	s.resetStats()
	return s
}

func (s *Store) resetStats() {
	s.positionalGroups = map[string]struct{}{}
	s.nonPositionalGroups = map[string]struct{}{}
	s.totalLength = 0
	s.positionalMin, s.positionalMax = nan, nan
	s.nonPositionalMin, s.nonPositionalMax = nan, nan
}

// updateStats folds f into the group sets, total length and score ranges.
func (s *Store) updateStats(f *Feature) {
	s.totalLength += f.Length()
	if f.IsNonPositional() {
		s.nonPositionalGroups[f.Group] = struct{}{}
		s.nonPositionalMin = minScore(s.nonPositionalMin, f.Score)
		s.nonPositionalMax = maxScore(s.nonPositionalMax, f.Score)
		return
	}
	s.positionalGroups[f.Group] = struct{}{}
	s.positionalMin = minScore(s.positionalMin, f.Score)
	s.positionalMax = maxScore(s.positionalMax, f.Score)
}

// minScore returns the smaller of a and b, ignoring NaNs.
func minScore(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return math.Min(a, b)
}

// maxScore returns the larger of a and b, ignoring NaNs.
func maxScore(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return math.Max(a, b)
}

// Add adds f to the store.  It returns false if f is nil or an equal feature
// is already stored.
func (s *Store) Add(f *Feature) bool {
	if f == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contains(f) {
		return false
	}
	switch {
	case f.IsNonPositional():
		s.nonPositional = append(s.nonPositional, f)
	case f.IsContact():
		i := interval.SearchOrdered(s.contactStarts, f, interval.CompareByStart)
		s.contactStarts = slices.Insert(s.contactStarts, i, f)
		i = interval.SearchOrdered(s.contactEnds, f, interval.CompareByEnd)
		s.contactEnds = slices.Insert(s.contactEnds, i, f)
	default:
		s.positional.Add(f)
	}
	s.updateStats(f)
	return true
}

// Contains returns whether a feature equal to f is stored.
func (s *Store) Contains(f *Feature) bool {
	if f == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contains(f)
}

func (s *Store) contains(f *Feature) bool {
	switch {
	case f.IsNonPositional():
		return indexOf(s.nonPositional, f) >= 0
	case f.IsContact():
		return contactIndex(s.contactStarts, f, interval.CompareByStart) >= 0
	}
	return s.positional.Contains(f)
}

func indexOf(list []*Feature, f *Feature) int {
	for i, g := range list {
		if g.Equal(f) {
			return i
		}
	}
	return -1
}

// contactIndex returns the index of f in list, which is sorted by cmp, or -1.
func contactIndex(list []*Feature, f *Feature, cmp interval.CompareFunc) int {
	for i := interval.SearchOrdered(list, f, cmp); i < len(list); i++ {
		g := list[i]
		if !interval.SpanEquals(g, f) {
			break
		}
		if g.Equal(f) {
			return i
		}
	}
	return -1
}

// Delete removes the stored feature equal to f.  It returns false if there is
// none.
func (s *Store) Delete(f *Feature) bool {
	if f == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := false
	switch {
	case f.IsNonPositional():
		if i := indexOf(s.nonPositional, f); i >= 0 {
			s.nonPositional = slices.Delete(s.nonPositional, i, i+1)
			removed = true
		}
	case f.IsContact():
		if i := contactIndex(s.contactStarts, f, interval.CompareByStart); i >= 0 {
			s.contactStarts = slices.Delete(s.contactStarts, i, i+1)
			j := contactIndex(s.contactEnds, f, interval.CompareByEnd)
			s.contactEnds = slices.Delete(s.contactEnds, j, j+1)
			removed = true
		}
	default:
		removed = s.positional.Remove(f)
	}
	if removed {
		s.rescan()
	}
	return removed
}

// rescan recomputes the groups, total length and score ranges from scratch.
// Ranges can't be shrunk incrementally when their extreme is deleted.
func (s *Store) rescan() {
	s.resetStats()
	for _, f := range s.nonPositional {
		s.updateStats(f)
	}
	for _, f := range s.contactStarts {
		s.updateStats(f)
	}
	for it := s.positional.Iterator(); it.Scan(); {
		s.updateStats(it.Value())
	}
}

// FindOverlaps returns the features that overlap [from, to], in no
// particular order.  A contact feature overlaps the range if either of its
// end points is inside it.
func (s *Store) FindOverlaps(from, to interval.PosType) []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := s.positional.FindOverlaps(from, to)
	return s.appendContacts(result, from, to)
}

func (s *Store) appendContacts(result []*Feature, from, to interval.PosType) []*Feature {
	// Contacts starting inside [from, to].
	lo := interval.SearchByStart(s.contactStarts, from)
	hi := len(s.contactStarts)
	if to < interval.PosTypeMax {
		hi = interval.ExpSearchByStart(s.contactStarts, to+1, lo)
	}
	result = append(result, s.contactStarts[lo:hi]...)

	// Contacts ending inside [from, to], unless already found by their start.
	for i := interval.SearchByEnd(s.contactEnds, from); i < len(s.contactEnds); i++ {
		f := s.contactEnds[i]
		if f.Stop > to {
			break
		}
		if f.Start < from {
			result = append(result, f)
		}
	}
	return result
}

// Positional returns all positional features, including contacts.
func (s *Store) Positional() []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positionalEntries()
}

func (s *Store) positionalEntries() []*Feature {
	return append(s.positional.Entries(), s.contactStarts...)
}

// Contact returns the contact features, sorted by start.
func (s *Store) Contact() []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contactStarts)
}

// NonPositional returns the non-positional features, in insertion order.
func (s *Store) NonPositional() []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nonPositional)
}

// Groups returns the sorted list of groups of the positional, or
// non-positional, features.  Features without a group contribute "".
func (s *Store) Groups(positional bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := s.nonPositionalGroups
	if positional {
		groups = s.positionalGroups
	}
	result := make([]string, 0, len(groups))
	for g := range groups {
		result = append(result, g)
	}
	sort.Strings(result)
	return result
}

// HasGroup returns whether any positional, or non-positional, feature
// belongs to group.
func (s *Store) HasGroup(positional bool, group string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasGroup(positional, group)
}

func (s *Store) hasGroup(positional bool, group string) bool {
	var ok bool
	if positional {
		_, ok = s.positionalGroups[group]
	} else {
		_, ok = s.nonPositionalGroups[group]
	}
	return ok
}

// ForGroup returns the positional, or non-positional, features in the given
// group.
func (s *Store) ForGroup(positional bool, group string) []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasGroup(positional, group) {
		return nil
	}
	candidates := s.nonPositional
	if positional {
		candidates = s.positionalEntries()
	}
	var result []*Feature
	for _, f := range candidates {
		if f.Group == group {
			result = append(result, f)
		}
	}
	return result
}

// Count returns the number of positional, or non-positional, features.  A
// contact feature counts once.
func (s *Store) Count(positional bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !positional {
		return len(s.nonPositional)
	}
	return s.positional.Len() + len(s.contactStarts)
}

// TotalLength returns the sum of Length over all stored features.
func (s *Store) TotalLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalLength
}

// MinScore returns the lowest score of the positional, or non-positional,
// features, or NaN if none of them has a score.
func (s *Store) MinScore(positional bool) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if positional {
		return s.positionalMin
	}
	return s.nonPositionalMin
}

// MaxScore is like MinScore, for the highest score.
func (s *Store) MaxScore(positional bool) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if positional {
		return s.positionalMax
	}
	return s.nonPositionalMax
}

// IsEmpty returns whether the store holds no features.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positional.IsEmpty() && len(s.contactStarts) == 0 && len(s.nonPositional) == 0
}

// Index returns the interval index holding the non-contact positional
// features.  The caller must not modify it.
func (s *Store) Index() *nclist.Store[*Feature] {
	return s.positional
}

// IsValid checks the invariants of the interval index.
func (s *Store) IsValid() bool {
	return s.positional.IsValid()
}
