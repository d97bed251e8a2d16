// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

// This file holds the binary searches used by the nclist and features
// packages.  All of them are thin wrappers around Search, and all of them
// assume that the slice is sorted in a way that makes the predicate
// monotonic; if it isn't, the result is meaningless.
//
// For a slice sorted with CompareByStart:
//   SearchByStart(list, pos)        first entry with Begin() >= pos
//   SearchOrdered(list, x, CompareByStart)
//                                   first entry that doesn't sort before x
// For a slice whose end positions are nondecreasing (e.g. a list of
// intervals none of which contains another, or any slice sorted with
// CompareByEnd):
//   SearchByEnd(list, pos)          first entry with End() >= pos

// Search returns the smallest index i in [0, n) at which pred(i) is true, or
// n if there is no such index.  pred must be false for some (possibly empty)
// prefix of [0, n) and true for the rest.
//
// It's exactly sort.Search; spelled out here so that the loop shape matches
// the specialized searches below and is trivially inlinable.
func Search(n int, pred func(int) bool) int {
	startIdx, endIdx := 0, n
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if pred(midIdx) {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// SearchByStart returns the index of the first entry of list whose start is
// >= pos, or len(list).
func SearchByStart[T Interval](list []T, pos PosType) int {
	return Search(len(list), func(i int) bool { return list[i].Begin() >= pos })
}

// SearchByEnd returns the index of the first entry of list whose end is >=
// pos, or len(list).  This is the first entry that may overlap a query range
// starting at pos.
func SearchByEnd[T Interval](list []T, pos PosType) int {
	return Search(len(list), func(i int) bool { return list[i].End() >= pos })
}

// SearchOrdered returns the index of the first entry of list which does not
// sort before x according to cmp, or len(list).  This is the position at
// which x would be inserted to keep list sorted, ahead of any entries that
// compare equal to it.
func SearchOrdered[T Interval](list []T, x Interval, cmp CompareFunc) int {
	return Search(len(list), func(i int) bool { return cmp(list[i], x) >= 0 })
}

// ExpSearchByStart performs "exponential search"
// (https://en.wikipedia.org/wiki/Exponential_search ) for the first entry at
// or after idx whose start is >= pos, checking list[idx], then list[idx + 1],
// then list[idx + 3], etc., and finishing with binary search.  It's usually a
// better choice than SearchByStart when advancing a cursor through a sorted
// list in small steps.
func ExpSearchByStart[T Interval](list []T, pos PosType, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(list)
	for idx < endIdx {
		if list[idx].Begin() >= pos {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if list[midIdx].Begin() >= pos {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}
