package interval

// A CompareFunc orders two intervals, returning a negative number, zero or a
// positive number as a sorts before, level with, or after b.
type CompareFunc func(a, b Interval) int

// CompareByStart orders by start position ascending.  Among intervals with the
// same start, the longer one sorts first, so that a containing interval
// always precedes the intervals it contains.
func CompareByStart(a, b Interval) int {
	return compareByPos(a.Begin(), b.Begin(), Length(a), Length(b))
}

// CompareByEnd orders by end position ascending, longer first on ties.
func CompareByEnd(a, b Interval) int {
	return compareByPos(a.End(), b.End(), Length(a), Length(b))
}

func compareByPos(pos1, pos2, len1, len2 PosType) int {
	switch {
	case pos1 < pos2:
		return -1
	case pos1 > pos2:
		return 1
	case len1 > len2:
		// Longer sorts to the left, i.e. the reverse of the usual length order.
		return -1
	case len1 < len2:
		return 1
	}
	return 0
}
