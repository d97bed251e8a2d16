package cmd

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/nclist/features"
	"github.com/grailbio/nclist/interval"
)

type queryFlags struct {
	format   *string
	oneBased *bool
	regions  *string
	types    *string
	terms    *string
	ontology *string
}

func parseRegions(flag string) ([]interval.Entry, error) {
	if flag == "" {
		return nil, fmt.Errorf("-regions must be set")
	}
	var regions []interval.Entry
	for _, s := range strings.Split(flag, ",") {
		r, err := interval.ParseRegionString(s)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func formatScore(score float64) string {
	if math.IsNaN(score) {
		return "."
	}
	return strconv.FormatFloat(score, 'g', -1, 64)
}

// query prints the entries of the track at path which overlap any of the
// regions.  BED entries are printed as "chrom start0 end"; GFF features as
// "chrom start end type group score description", 1-based.  A feature
// overlapping several regions is printed once per region.
func query(w io.Writer, flags queryFlags, path string) error {
	regions, err := parseRegions(*flags.regions)
	if err != nil {
		return err
	}
	t, err := loadTrack(path, loadOpts{format: *flags.format, oneBasedInput: *flags.oneBased})
	if err != nil {
		return err
	}
	var types, terms []string
	if *flags.types != "" {
		types = strings.Split(*flags.types, ",")
	}
	if *flags.terms != "" {
		if len(types) > 0 {
			return fmt.Errorf("-types and -terms are mutually exclusive")
		}
		terms = strings.Split(*flags.terms, ",")
	}
	if *flags.ontology != "" {
		o, err := features.ReadOntology(vcontext.Background(), *flags.ontology)
		if err != nil {
			return err
		}
		features.SetOntology(o)
	}
	out := tsv.NewWriter(w)
	for _, r := range regions {
		if !t.hasSeq(r.ChrName) {
			continue
		}
		if t.format == formatBED {
			// Indexed ranges are 0-based and closed.
			found := t.bed[r.ChrName].FindOverlaps(r.Start0, r.End-1)
			slices.SortFunc(found, func(a, b interval.Range) int { return interval.CompareByStart(a, b) })
			for _, x := range found {
				out.WriteString(r.ChrName)
				out.WriteInt64(int64(x.Start))
				out.WriteInt64(int64(x.Stop) + 1)
				if err := out.EndLine(); err != nil {
					return err
				}
			}
			continue
		}
		sf := t.gff[r.ChrName]
		if len(terms) > 0 {
			if types = sf.Types(terms...); len(types) == 0 {
				continue
			}
		}
		found := sf.Find(r.Start0+1, r.End, types...)
		features.SortFeatures(found, true)
		for _, f := range found {
			out.WriteString(r.ChrName)
			out.WriteInt64(int64(f.Start))
			out.WriteInt64(int64(f.Stop))
			out.WriteString(f.Type)
			out.WriteString(f.Group)
			out.WriteString(formatScore(f.Score))
			out.WriteString(f.Description)
			if err := out.EndLine(); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}
