package interval_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/testutil/expect"
)

func TestPredicates(t *testing.T) {
	r := func(b, e interval.PosType) interval.Range { return interval.Range{Start: b, Stop: e} }
	tests := []struct {
		a, b                                 interval.Range
		contains, properly, equals, overlaps bool
	}{
		{r(10, 20), r(10, 20), true, false, true, true},
		{r(10, 20), r(10, 19), true, true, false, true},
		{r(10, 20), r(11, 20), true, true, false, true},
		{r(10, 20), r(12, 18), true, true, false, true},
		{r(10, 20), r(5, 15), false, false, false, true},
		{r(10, 20), r(20, 30), false, false, false, true},
		{r(10, 20), r(21, 30), false, false, false, false},
		{r(10, 20), r(1, 9), false, false, false, false},
		{r(10, 20), r(1, 30), false, false, false, true},
	}
	for _, tt := range tests {
		expect.EQ(t, interval.Contains(tt.a, tt.b), tt.contains, tt)
		expect.EQ(t, interval.ProperlyContains(tt.a, tt.b), tt.properly, tt)
		expect.EQ(t, interval.SpanEquals(tt.a, tt.b), tt.equals, tt)
		expect.EQ(t, interval.Overlaps(tt.a, tt.b), tt.overlaps, tt)
		expect.EQ(t, interval.Overlaps(tt.b, tt.a), tt.overlaps, tt)
	}
	expect.EQ(t, r(3, 9).String(), "3-9")
	expect.EQ(t, interval.Length(r(3, 9)), interval.PosType(6))
}

func TestCompare(t *testing.T) {
	a := interval.Range{Start: 10, Stop: 20}
	expect.EQ(t, interval.CompareByStart(a, interval.Range{Start: 11, Stop: 12}), -1)
	expect.EQ(t, interval.CompareByStart(a, interval.Range{Start: 9, Stop: 30}), 1)
	// Same start: longer first.
	expect.EQ(t, interval.CompareByStart(a, interval.Range{Start: 10, Stop: 30}), 1)
	expect.EQ(t, interval.CompareByStart(a, interval.Range{Start: 10, Stop: 15}), -1)
	expect.EQ(t, interval.CompareByStart(a, a), 0)

	expect.EQ(t, interval.CompareByEnd(a, interval.Range{Start: 1, Stop: 21}), -1)
	expect.EQ(t, interval.CompareByEnd(a, interval.Range{Start: 1, Stop: 19}), 1)
	// Same end: longer first.
	expect.EQ(t, interval.CompareByEnd(a, interval.Range{Start: 5, Stop: 20}), 1)
	expect.EQ(t, interval.CompareByEnd(a, interval.Range{Start: 15, Stop: 20}), -1)
	expect.EQ(t, interval.CompareByEnd(a, a), 0)
}

func TestSearch(t *testing.T) {
	list := []interval.Range{{1, 5}, {3, 9}, {3, 7}, {8, 10}, {12, 12}, {20, 40}}
	expect.EQ(t, interval.SearchByStart(list, 0), 0)
	expect.EQ(t, interval.SearchByStart(list, 3), 1)
	expect.EQ(t, interval.SearchByStart(list, 4), 3)
	expect.EQ(t, interval.SearchByStart(list, 41), len(list))

	expect.EQ(t, interval.SearchOrdered(list, interval.Range{Start: 3, Stop: 8}, interval.CompareByStart), 2)
	expect.EQ(t, interval.SearchOrdered(list, interval.Range{Start: 3, Stop: 9}, interval.CompareByStart), 1)
	expect.EQ(t, interval.SearchOrdered(list, interval.Range{Start: 50, Stop: 50}, interval.CompareByStart), len(list))

	flat := []interval.Range{{1, 5}, {3, 7}, {6, 10}, {12, 12}}
	expect.EQ(t, interval.SearchByEnd(flat, 0), 0)
	expect.EQ(t, interval.SearchByEnd(flat, 6), 1)
	expect.EQ(t, interval.SearchByEnd(flat, 11), 3)
	expect.EQ(t, interval.SearchByEnd(flat, 13), len(flat))

	expect.EQ(t, interval.Search(0, func(int) bool { return true }), 0)
}

func TestExpSearchByStart(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	for iter := 0; iter < 100; iter++ {
		n := rnd.Intn(200)
		list := make([]interval.Range, n)
		for i := range list {
			b := interval.PosType(rnd.Intn(1000))
			list[i] = interval.Range{Start: b, Stop: b + interval.PosType(rnd.Intn(50))}
		}
		sort.Slice(list, func(i, j int) bool { return interval.CompareByStart(list[i], list[j]) < 0 })
		idx := 0
		for pos := interval.PosType(0); pos < 1100; pos += interval.PosType(rnd.Intn(30)) {
			want := interval.SearchByStart(list, pos)
			idx = interval.ExpSearchByStart(list, pos, idx)
			expect.EQ(t, idx, want)
		}
	}
}
