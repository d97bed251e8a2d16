package features

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/nclist/interval"
)

// GFFOpts controls which records ReadGFF keeps.
type GFFOpts struct {
	// Types, if nonempty, lists the feature types to load.  Other records are
	// skipped.
	Types []string
	// Seqs, if nonempty, lists the sequences to load.
	Seqs []string
}

// gffColumns is the number of tab-separated columns of a GFF3 data line.
const gffColumns = 9

// gffRecord is one data line of a GFF3 file.  Every column is read as a
// string so that a record with bad coordinates can be skipped rather than
// failing the whole read.
type gffRecord struct {
	SeqID      string
	Source     string
	Type       string
	Start      string
	End        string
	Score      string // "." when absent
	Strand     string
	Phase      string
	Attributes string
}

func stringSet(list []string) map[string]bool {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}

// parseAttributes parses the ninth GFF3 column, "key=value;key=value".
// Values are percent-decoded; malformed escapes are kept verbatim.
func parseAttributes(attrs string) map[string]string {
	m := map[string]string{}
	for _, kv := range strings.Split(attrs, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" || kv == "." {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			m[kv] = ""
			continue
		}
		val := kv[eq+1:]
		if u, err := url.PathUnescape(val); err == nil {
			val = u
		}
		m[kv[:eq]] = val
	}
	return m
}

// featureFromGFF converts a record into a Feature.  The description is the
// Name attribute, or the ID when there's no name; the group is the source
// column.
func featureFromGFF(rec *gffRecord) (*Feature, error) {
	start, err := strconv.Atoi(rec.Start)
	if err != nil {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("bad start %q", rec.Start), err)
	}
	end, err := strconv.Atoi(rec.End)
	if err != nil {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("bad end %q", rec.End), err)
	}
	if start > end || start < 0 || end > math.MaxInt32 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("bad coordinates %d-%d", start, end))
	}
	score := nan
	if rec.Score != "." && rec.Score != "" {
		var err error
		if score, err = strconv.ParseFloat(rec.Score, 64); err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("bad score %q", rec.Score), err)
		}
	}
	attrs := parseAttributes(rec.Attributes)
	desc, ok := attrs["Name"]
	if !ok {
		desc = attrs["ID"]
	}
	group := rec.Source
	if group == "." {
		group = ""
	}
	return NewFeature(rec.Type, desc, interval.PosType(start), interval.PosType(end), score, group), nil
}

// readGFF adds the records read from r to byseq.  It returns the number of
// features added.
func readGFF(r io.Reader, opts GFFOpts, byseq map[string]*SequenceFeatures) (int, error) {
	types := stringSet(opts.Types)
	seqs := stringSet(opts.Seqs)
	reader := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	reader.Comment = '#'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = gffColumns
	var (
		rec    gffRecord
		nAdded int
		lineNo int
	)
	for {
		err := reader.Read(&rec)
		if err == io.EOF {
			return nAdded, nil
		}
		lineNo++
		if err != nil {
			// csv keeps going after a record with the wrong number of fields.
			if pe, ok := err.(*csv.ParseError); ok && pe.Err == csv.ErrFieldCount {
				log.Error.Printf("skipping GFF record %d: %v", lineNo, err)
				continue
			}
			return nAdded, err
		}
		if (types != nil && !types[rec.Type]) || (seqs != nil && !seqs[rec.SeqID]) {
			continue
		}
		f, err := featureFromGFF(&rec)
		if err != nil {
			log.Error.Printf("skipping GFF record %d (%s:%s-%s): %v", lineNo, rec.SeqID, rec.Start, rec.End, err)
			continue
		}
		sf := byseq[rec.SeqID]
		if sf == nil {
			sf = NewSequenceFeatures()
			byseq[rec.SeqID] = sf
		}
		if sf.Add(f) {
			nAdded++
		}
	}
}

// ReadGFF loads a GFF3 file, possibly compressed, into one SequenceFeatures
// per sequence ID.  Malformed records, such as ones with a non-numeric
// start, are logged and skipped, as are duplicates.  A ##FASTA section is
// not supported.
func ReadGFF(ctx context.Context, path string, opts GFFOpts) (byseq map[string]*SequenceFeatures, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, path)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	byseq = map[string]*SequenceFeatures{}
	n, err := readGFF(r, opts, byseq)
	if err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("GFF %s loaded, %d feature(s) on %d sequence(s)", path, n, len(byseq))
	return byseq, nil
}
