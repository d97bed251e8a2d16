// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"math"
)

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// PosTypeMin is the minimum value that can be represented by a PosType.
const PosTypeMin = math.MinInt32

// Interval is anything located on a closed range [Begin(), End()].
type Interval interface {
	Begin() PosType
	End() PosType
}

// Range is the plain value implementation of Interval.  Both ends are closed.
type Range struct {
	Start, Stop PosType
}

// Begin implements Interval.
func (r Range) Begin() PosType { return r.Start }

// End implements Interval.
func (r Range) End() PosType { return r.Stop }

// String formats the range as "start-stop".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.Stop)
}

// Length returns the number of positions covered by iv, minus one.  This is
// the tie-break key of the ordering policies; two intervals with the same
// Length have the same span.
func Length(iv Interval) PosType {
	return iv.End() - iv.Begin()
}

// Contains returns whether a contains (or matches) b.
func Contains(a, b Interval) bool {
	return b.Begin() >= a.Begin() && b.End() <= a.End()
}

// ProperlyContains returns whether a contains b and is larger than it.
func ProperlyContains(a, b Interval) bool {
	return Contains(a, b) && (b.Begin() > a.Begin() || b.End() < a.End())
}

// SpanEquals returns whether a and b cover exactly the same positions.  It
// says nothing about payload equality.
func SpanEquals(a, b Interval) bool {
	return a.Begin() == b.Begin() && a.End() == b.End()
}

// Overlaps returns whether a and b share at least one position.
func Overlaps(a, b Interval) bool {
	return OverlapsRange(a, b.Begin(), b.End())
}

// OverlapsRange returns whether iv shares at least one position with the
// closed range [from, to].
func OverlapsRange(iv Interval, from, to PosType) bool {
	return iv.Begin() <= to && iv.End() >= from
}
