// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package features

import (
	"cmp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/log"
	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/nclist/nclist"
)

// typeStore is the llrb key of SequenceFeatures: a feature type and the Store
// holding features of that type.
type typeStore struct {
	typ   string
	store *Store
}

// Compare implements llrb.Comparable.
func (k typeStore) Compare(c llrb.Comparable) int {
	return strings.Compare(k.typ, c.(typeStore).typ)
}

// SequenceFeatures holds the features of a single sequence, one Store per
// feature type.  Methods which take a list of types consider every type when
// the list is empty.  It is safe for concurrent use.
type SequenceFeatures struct {
	mu sync.RWMutex
	// byType is ordered by type name, so multi-type results come out in a
	// deterministic order.
	byType llrb.Tree
}

// NewSequenceFeatures creates a SequenceFeatures holding the given features.
func NewSequenceFeatures(features ...*Feature) *SequenceFeatures {
	sf := &SequenceFeatures{}
	for _, f := range features {
		sf.Add(f)
	}
	return sf
}

// Add adds f to the store for its type.  It returns false if f is nil, has no
// type, or an equal feature is already stored.
func (sf *SequenceFeatures) Add(f *Feature) bool {
	if f == nil {
		return false
	}
	if f.Type == "" {
		log.Error.Printf("features: feature type may not be empty: %v", f)
		return false
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	var s *Store
	if c := sf.byType.Get(typeStore{typ: f.Type}); c != nil {
		s = c.(typeStore).store
	} else {
		s = NewStore()
		sf.byType.Insert(typeStore{typ: f.Type, store: s})
	}
	return s.Add(f)
}

// store returns the Store for typ, or nil.
func (sf *SequenceFeatures) store(typ string) *Store {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	if c := sf.byType.Get(typeStore{typ: typ}); c != nil {
		return c.(typeStore).store
	}
	return nil
}

// stores returns the stores for the given types, ordered by type.  An empty
// list selects every type.
func (sf *SequenceFeatures) stores(types ...string) []typeStore {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	var result []typeStore
	if len(types) == 0 {
		sf.byType.Do(func(c llrb.Comparable) bool {
			result = append(result, c.(typeStore))
			return false
		})
		return result
	}
	sorted := slices.Clone(types)
	sort.Strings(sorted)
	sorted = slices.Compact(sorted)
	for _, typ := range sorted {
		if c := sf.byType.Get(typeStore{typ: typ}); c != nil {
			result = append(result, c.(typeStore))
		}
	}
	return result
}

// Find returns the features of the given types which overlap [from, to].
func (sf *SequenceFeatures) Find(from, to interval.PosType, types ...string) []*Feature {
	var result []*Feature
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.FindOverlaps(from, to)...)
	}
	return result
}

// All returns the positional features of the given types, followed by the
// non-positional ones.
func (sf *SequenceFeatures) All(types ...string) []*Feature {
	return append(sf.Positional(types...), sf.NonPositional(types...)...)
}

// Positional returns the positional features, including contacts, of the
// given types.
func (sf *SequenceFeatures) Positional(types ...string) []*Feature {
	var result []*Feature
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.Positional()...)
	}
	return result
}

// Contact returns the contact features of the given types.
func (sf *SequenceFeatures) Contact(types ...string) []*Feature {
	var result []*Feature
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.Contact()...)
	}
	return result
}

// NonPositional returns the non-positional features of the given types.
func (sf *SequenceFeatures) NonPositional(types ...string) []*Feature {
	var result []*Feature
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.NonPositional()...)
	}
	return result
}

// Delete removes the stored feature equal to f, returning false if there is
// none.
func (sf *SequenceFeatures) Delete(f *Feature) bool {
	if f == nil {
		return false
	}
	s := sf.store(f.Type)
	return s != nil && s.Delete(f)
}

// HasFeatures returns whether any feature is stored.
func (sf *SequenceFeatures) HasFeatures() bool {
	for _, ts := range sf.stores() {
		if !ts.store.IsEmpty() {
			return true
		}
	}
	return false
}

// Count returns the number of positional, or non-positional, features of the
// given types.
func (sf *SequenceFeatures) Count(positional bool, types ...string) int {
	n := 0
	for _, ts := range sf.stores(types...) {
		n += ts.store.Count(positional)
	}
	return n
}

// TotalLength returns the number of positions covered by features of the
// given types, counting overlapping positions once per feature.
func (sf *SequenceFeatures) TotalLength(types ...string) int {
	n := 0
	for _, ts := range sf.stores(types...) {
		n += ts.store.TotalLength()
	}
	return n
}

// Groups returns the sorted groups of the positional, or non-positional,
// features of the given types.
func (sf *SequenceFeatures) Groups(positional bool, types ...string) []string {
	var result []string
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.Groups(positional)...)
	}
	sort.Strings(result)
	return slices.Compact(result)
}

// TypesForGroups returns the sorted types having a positional, or
// non-positional, feature in at least one of the given groups.
func (sf *SequenceFeatures) TypesForGroups(positional bool, groups ...string) []string {
	var result []string
	for _, ts := range sf.stores() {
		for _, g := range groups {
			if ts.store.HasGroup(positional, g) {
				result = append(result, ts.typ)
				break
			}
		}
	}
	return result
}

// Types returns the sorted types of the stored features which are one of
// the given ontology terms or a descendant of one, according to
// DefaultOntology.  With no terms, it returns every type with a feature.
func (sf *SequenceFeatures) Types(terms ...string) []string {
	var so Ontology
	if len(terms) > 0 {
		so = DefaultOntology()
	}
	var result []string
	for _, ts := range sf.stores() {
		if ts.store.IsEmpty() {
			continue
		}
		if so == nil || isA(so, ts.typ, terms) {
			result = append(result, ts.typ)
		}
	}
	return result
}

func isA(so Ontology, typ string, terms []string) bool {
	for _, term := range terms {
		if typ == term || so.IsA(typ, term) {
			return true
		}
	}
	return false
}

// ByOntology returns every feature whose type is one of the given ontology
// terms or a descendant of one.  It returns nil if terms is empty.
func (sf *SequenceFeatures) ByOntology(terms ...string) []*Feature {
	if len(terms) == 0 {
		return nil
	}
	types := sf.Types(terms...)
	if len(types) == 0 {
		return nil
	}
	return sf.All(types...)
}

// MinScore returns the lowest score of the positional, or non-positional,
// features of type typ.  It returns NaN if there is no scored feature of that
// kind.
func (sf *SequenceFeatures) MinScore(typ string, positional bool) float64 {
	if s := sf.store(typ); s != nil {
		return s.MinScore(positional)
	}
	return nan
}

// MaxScore is like MinScore, for the highest score.
func (sf *SequenceFeatures) MaxScore(typ string, positional bool) float64 {
	if s := sf.store(typ); s != nil {
		return s.MaxScore(positional)
	}
	return nan
}

// ForGroup returns the positional, or non-positional, features of the given
// types that belong to group.
func (sf *SequenceFeatures) ForGroup(positional bool, group string, types ...string) []*Feature {
	var result []*Feature
	for _, ts := range sf.stores(types...) {
		result = append(result, ts.store.ForGroup(positional, group)...)
	}
	return result
}

// SortFeatures sorts features in place, by ascending start when forward is
// true and by descending end otherwise.  The sort is stable.
func SortFeatures(features []*Feature, forward bool) {
	if forward {
		slices.SortStableFunc(features, func(a, b *Feature) int { return cmp.Compare(a.Start, b.Start) })
		return
	}
	slices.SortStableFunc(features, func(a, b *Feature) int { return cmp.Compare(b.Stop, a.Stop) })
}

// Index returns the interval index holding the non-contact positional
// features of type typ, or nil if there are none.  The caller must not modify
// it.
func (sf *SequenceFeatures) Index(typ string) *nclist.Store[*Feature] {
	if s := sf.store(typ); s != nil {
		return s.Index()
	}
	return nil
}

// IsValid checks the invariants of the interval index of every type.
func (sf *SequenceFeatures) IsValid() bool {
	for _, ts := range sf.stores() {
		if !ts.store.IsValid() {
			log.Error.Printf("features: invalid index for type %s", ts.typ)
			return false
		}
	}
	return true
}

// Depth returns the largest interval index depth over all types, or 0 if
// there are no types.
func (sf *SequenceFeatures) Depth() int {
	depth := 0
	for _, ts := range sf.stores() {
		if d := ts.store.Index().Depth(); d > depth {
			depth = d
		}
	}
	return depth
}
