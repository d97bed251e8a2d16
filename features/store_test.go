package features

import (
	"math"
	"testing"

	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/testutil/expect"
)

// ranges sorts features by start and returns their spans.
func ranges(features []*Feature) []interval.Range {
	SortFeatures(features, true)
	result := make([]interval.Range, len(features))
	for i, f := range features {
		result[i] = interval.Range{Start: f.Start, Stop: f.Stop}
	}
	return result
}

func rg(b, e interval.PosType) interval.Range {
	return interval.Range{Start: b, Stop: e}
}

func TestFeature(t *testing.T) {
	f := NewFeature("Disulfide Bond", "bond", 10, 20, math.NaN(), "g")
	expect.True(t, f.IsContact())
	expect.False(t, f.IsNonPositional())
	expect.EQ(t, f.Length(), 1)
	expect.False(t, f.HasScore())
	expect.True(t, NewFeature("disulphide bond", "", 1, 2, 0, "").IsContact())
	expect.True(t, NewFeature("disulfide_bond", "", 1, 2, 0, "").IsContact())
	expect.False(t, NewFeature("disulfide", "", 1, 2, 0, "").IsContact())

	g := NewFeature("domain", "d", 0, 0, 1.5, "")
	expect.True(t, g.IsNonPositional())
	expect.EQ(t, g.Length(), 0)
	expect.EQ(t, NewFeature("domain", "d", 5, 9, 0, "").Length(), 5)

	// NaN scores compare equal.
	expect.True(t, f.Equal(NewFeature("Disulfide Bond", "bond", 10, 20, math.NaN(), "g")))
	expect.False(t, f.Equal(NewFeature("Disulfide Bond", "bond", 10, 20, 0, "g")))
	expect.False(t, f.Equal(NewFeature("Disulfide Bond", "bond", 10, 20, math.NaN(), "h")))
	expect.False(t, f.Equal(NewFeature("Disulfide Bond", "other", 10, 20, math.NaN(), "g")))
	expect.False(t, f.Equal(nil))
	expect.EQ(t, f.String(), "10 20 Disulfide Bond bond")
}

func TestStoreAddContains(t *testing.T) {
	s := NewStore()
	expect.True(t, s.IsEmpty())
	f1 := NewFeature("Cath", "", 10, 20, 1, "g1")
	expect.True(t, s.Add(f1))
	// Duplicates are rejected.
	expect.False(t, s.Add(NewFeature("Cath", "", 10, 20, 1, "g1")))
	expect.False(t, s.Add(nil))
	expect.True(t, s.Add(NewFeature("Cath", "", 10, 20, 2, "g1")))
	expect.True(t, s.Add(NewFeature("Cath", "", 5, 50, math.NaN(), "g2")))
	expect.True(t, s.Add(NewFeature("Cath", "", 0, 0, 7, "np")))
	expect.True(t, s.Add(NewFeature("Cath", "", 30, 40, 3, "")))

	expect.True(t, s.Contains(NewFeature("Cath", "", 10, 20, 1, "g1")))
	expect.True(t, s.Contains(NewFeature("Cath", "", 5, 50, math.NaN(), "g2")))
	expect.True(t, s.Contains(NewFeature("Cath", "", 0, 0, 7, "np")))
	expect.False(t, s.Contains(NewFeature("Cath", "", 10, 20, 3, "g1")))
	expect.False(t, s.Contains(nil))

	expect.EQ(t, s.Count(true), 4)
	expect.EQ(t, s.Count(false), 1)
	expect.EQ(t, s.TotalLength(), 11+11+46+11)
	expect.EQ(t, s.Groups(true), []string{"", "g1", "g2"})
	expect.EQ(t, s.Groups(false), []string{"np"})
	expect.EQ(t, s.MinScore(true), 1.0)
	expect.EQ(t, s.MaxScore(true), 3.0)
	expect.EQ(t, s.MinScore(false), 7.0)
	expect.EQ(t, s.MaxScore(false), 7.0)
	expect.EQ(t, len(s.ForGroup(true, "g1")), 2)
	expect.EQ(t, len(s.ForGroup(true, "np")), 0)
	expect.EQ(t, len(s.ForGroup(false, "np")), 1)
	expect.True(t, s.Index().IsValid())
}

func TestStoreNoScores(t *testing.T) {
	s := NewStore()
	expect.True(t, math.IsNaN(s.MinScore(true)))
	s.Add(NewFeature("x", "", 1, 2, math.NaN(), ""))
	expect.True(t, math.IsNaN(s.MinScore(true)))
	expect.True(t, math.IsNaN(s.MaxScore(false)))
}

func TestStoreFindOverlaps(t *testing.T) {
	s := NewStore()
	s.Add(NewFeature("t", "", 10, 20, 0, ""))
	s.Add(NewFeature("t", "", 15, 25, 0, ""))
	s.Add(NewFeature("t", "", 1, 100, 0, ""))
	s.Add(NewFeature("t", "", 0, 0, 0, ""))
	expect.EQ(t, ranges(s.FindOverlaps(22, 30)), []interval.Range{rg(1, 100), rg(15, 25)})
	expect.EQ(t, ranges(s.FindOverlaps(101, 200)), []interval.Range{})
	// Non-positional features never overlap anything.
	expect.EQ(t, ranges(s.FindOverlaps(0, 0)), []interval.Range{})
}

func TestStoreContacts(t *testing.T) {
	s := NewStore()
	const bond = "disulfide bond"
	s.Add(NewFeature(bond, "", 10, 50, 0, ""))
	s.Add(NewFeature(bond, "", 20, 30, 0, ""))
	s.Add(NewFeature(bond, "", 40, 60, 0, ""))
	s.Add(NewFeature("t", "", 25, 45, 0, ""))

	// Contacts only overlap at their ends.
	expect.EQ(t, ranges(s.FindOverlaps(31, 39)), []interval.Range{rg(25, 45)})
	expect.EQ(t, ranges(s.FindOverlaps(5, 10)), []interval.Range{rg(10, 50)})
	expect.EQ(t, ranges(s.FindOverlaps(50, 50)), []interval.Range{rg(10, 50)})
	// Both ends inside the range: reported once.
	expect.EQ(t, ranges(s.FindOverlaps(15, 35)), []interval.Range{rg(20, 30), rg(25, 45)})
	expect.EQ(t, ranges(s.FindOverlaps(30, 40)), []interval.Range{rg(20, 30), rg(25, 45), rg(40, 60)})
	expect.EQ(t, ranges(s.FindOverlaps(0, interval.PosTypeMax)),
		[]interval.Range{rg(10, 50), rg(20, 30), rg(25, 45), rg(40, 60)})

	expect.EQ(t, ranges(s.Contact()), []interval.Range{rg(10, 50), rg(20, 30), rg(40, 60)})
	expect.EQ(t, s.Count(true), 4)
	expect.EQ(t, s.TotalLength(), 3+21)

	expect.True(t, s.Delete(NewFeature(bond, "", 20, 30, 0, "")))
	expect.False(t, s.Delete(NewFeature(bond, "", 20, 30, 0, "")))
	expect.EQ(t, ranges(s.FindOverlaps(15, 35)), []interval.Range{rg(25, 45)})
	expect.EQ(t, s.TotalLength(), 2+21)
	expect.EQ(t, len(s.Positional()), 3)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	s.Add(NewFeature("t", "", 10, 20, 1, "a"))
	s.Add(NewFeature("t", "", 12, 18, 9, "b"))
	s.Add(NewFeature("t", "", 0, 0, 5, "c"))
	expect.EQ(t, s.MaxScore(true), 9.0)

	expect.True(t, s.Delete(NewFeature("t", "", 12, 18, 9, "b")))
	expect.EQ(t, s.MaxScore(true), 1.0)
	expect.EQ(t, s.Groups(true), []string{"a"})
	expect.EQ(t, s.TotalLength(), 11)

	expect.True(t, s.Delete(NewFeature("t", "", 0, 0, 5, "c")))
	expect.EQ(t, len(s.Groups(false)), 0)
	expect.True(t, math.IsNaN(s.MinScore(false)))
	expect.False(t, s.Delete(nil))

	expect.True(t, s.Delete(NewFeature("t", "", 10, 20, 1, "a")))
	expect.True(t, s.IsEmpty())
	expect.EQ(t, s.TotalLength(), 0)
	expect.True(t, math.IsNaN(s.MaxScore(true)))
}
