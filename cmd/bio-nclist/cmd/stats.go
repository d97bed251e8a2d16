package cmd

import (
	"io"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
)

type seqStats struct {
	count, depth int
	valid        bool
}

// stats prints one line per sequence: name, number of entries, depth of the
// index and whether the index passes its validity check.  The checks run in
// parallel.
func stats(w io.Writer, format, path string) error {
	t, err := loadTrack(path, loadOpts{format: format})
	if err != nil {
		return err
	}
	results := make([]seqStats, len(t.seqs))
	err = traverse.Each(len(t.seqs), func(i int) error {
		seq := t.seqs[i]
		if t.format == formatBED {
			s := t.bed[seq]
			results[i] = seqStats{count: s.Len(), depth: s.Depth(), valid: s.IsValid()}
			return nil
		}
		sf := t.gff[seq]
		results[i] = seqStats{
			count: sf.Count(true) + sf.Count(false),
			depth: sf.Depth(),
			valid: sf.IsValid(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	out := tsv.NewWriter(w)
	out.WriteString("SEQ\tCOUNT\tDEPTH\tVALID")
	if err := out.EndLine(); err != nil {
		return err
	}
	for i, seq := range t.seqs {
		out.WriteString(seq)
		out.WriteInt64(int64(results[i].count))
		out.WriteInt64(int64(results[i].depth))
		if results[i].valid {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
