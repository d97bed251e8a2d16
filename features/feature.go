package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/grailbio/nclist/interval"
)

// Feature is a single sequence annotation.  Coordinates are 1-based and
// inclusive.  A Feature must not be modified once it has been added to a
// Store.
type Feature struct {
	Type        string
	Description string
	Start       interval.PosType
	Stop        interval.PosType
	// Score is NaN if the feature has none.
	Score float64
	Group string

	contact bool
}

// NewFeature creates a Feature.  Use math.NaN() for a feature without a
// score.
func NewFeature(typ, desc string, begin, end interval.PosType, score float64, group string) *Feature {
	return &Feature{
		Type:        typ,
		Description: desc,
		Start:       begin,
		Stop:        end,
		Score:       score,
		Group:       group,
		contact:     isContactType(typ),
	}
}

// contactTypes are the feature types, compared case-insensitively, whose two
// end points are bonded rather than spanning a range: the UniProt spellings
// and the Sequence Ontology term used in GFF3.
var contactTypes = []string{"disulfide bond", "disulphide bond", "disulfide_bond"}

func isContactType(typ string) bool {
	for _, c := range contactTypes {
		if strings.EqualFold(typ, c) {
			return true
		}
	}
	return false
}

// Begin implements interval.Interval.
func (f *Feature) Begin() interval.PosType { return f.Start }

// End implements interval.Interval.
func (f *Feature) End() interval.PosType { return f.Stop }

// IsContact returns whether the feature only links its two end positions,
// e.g. a disulfide bond, rather than covering the range between them.
func (f *Feature) IsContact() bool { return f.contact }

// IsNonPositional returns whether the feature applies to the whole sequence.
func (f *Feature) IsNonPositional() bool { return f.Start == 0 && f.Stop == 0 }

// Length is the number of positions covered by the feature: 0 for a
// non-positional feature, and 1 for a contact feature.
func (f *Feature) Length() int {
	switch {
	case f.IsNonPositional():
		return 0
	case f.contact:
		return 1
	}
	return int(f.Stop-f.Start) + 1
}

// HasScore returns whether the feature has a score.
func (f *Feature) HasScore() bool { return !math.IsNaN(f.Score) }

// Equal returns whether the two features have the same position, score,
// type, description and group.  Two features without a score have the same
// score.
func (f *Feature) Equal(g *Feature) bool {
	if f == g {
		return true
	}
	if f == nil || g == nil {
		return false
	}
	if f.Start != g.Start || f.Stop != g.Stop {
		return false
	}
	if f.HasScore() != g.HasScore() || (f.HasScore() && f.Score != g.Score) {
		return false
	}
	return f.Type == g.Type && f.Description == g.Description && f.Group == g.Group
}

func (f *Feature) String() string {
	return fmt.Sprintf("%d %d %s %s", f.Start, f.Stop, f.Type, f.Description)
}
