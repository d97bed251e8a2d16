package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/nclist/features"
	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/nclist/nclist"
)

const (
	formatBED = "bed"
	formatGFF = "gff"
)

// guessFormat returns the input format implied by the file extension, or "".
func guessFormat(path string) string {
	path = strings.TrimSuffix(path, ".gz")
	switch {
	case strings.HasSuffix(path, ".bed"):
		return formatBED
	case strings.HasSuffix(path, ".gff"), strings.HasSuffix(path, ".gff3"):
		return formatGFF
	}
	return ""
}

func resolveFormat(format, path string) (string, error) {
	if format == "" {
		format = guessFormat(path)
	}
	switch format {
	case formatBED, formatGFF:
		return format, nil
	case "":
		return "", fmt.Errorf("can't guess the format of %s; use -format", path)
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// track is an input file loaded into per-sequence indexes.  Exactly one of
// bed and gff is set, depending on the format.
type track struct {
	format string
	// seqs lists the sequence names, in file order for BED and sorted for
	// GFF.
	seqs []string
	bed  map[string]*nclist.Store[interval.Range]
	gff  map[string]*features.SequenceFeatures
}

type loadOpts struct {
	format        string
	oneBasedInput bool
}

func loadTrack(path string, opts loadOpts) (*track, error) {
	format, err := resolveFormat(opts.format, path)
	if err != nil {
		return nil, err
	}
	if format == formatBED {
		return loadBED(path, opts.oneBasedInput)
	}
	byseq, err := features.ReadGFF(vcontext.Background(), path, features.GFFOpts{})
	if err != nil {
		return nil, err
	}
	t := &track{format: formatGFF, gff: byseq}
	for seq := range byseq {
		t.seqs = append(t.seqs, seq)
	}
	sort.Strings(t.seqs)
	return t, nil
}

// loadBED reads a BED file and indexes each chromosome in parallel.
func loadBED(path string, oneBasedInput bool) (*track, error) {
	entries, err := interval.ReadBEDFromPath(path, interval.ReadBEDOpts{OneBasedInput: oneBasedInput})
	if err != nil {
		return nil, err
	}
	names, byChr := interval.GroupByChr(entries)
	stores := make([]*nclist.Store[interval.Range], len(names))
	err = traverse.Each(len(names), func(i int) error {
		stores[i] = nclist.NewStore(byChr[names[i]]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	t := &track{format: formatBED, seqs: names, bed: make(map[string]*nclist.Store[interval.Range], len(names))}
	for i, name := range names {
		t.bed[name] = stores[i]
	}
	log.Printf("BED %s loaded, %d interval(s) on %d chromosome(s)", path, len(entries), len(names))
	return t, nil
}

func (t *track) hasSeq(seq string) bool {
	if t.format == formatBED {
		return t.bed[seq] != nil
	}
	return t.gff[seq] != nil
}
