package interval

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// splitBEDFields stores the leading whitespace-separated fields of line in
// fields, and returns how many it found.  Any byte <= ' ' separates fields.
// The fields alias line.
func splitBEDFields(line []byte, fields [][]byte) int {
	n := 0
	for i := 0; i < len(line) && n < len(fields); {
		if line[i] <= ' ' {
			i++
			continue
		}
		j := i + 1
		for j < len(line) && line[j] > ' ' {
			j++
		}
		fields[n] = line[i:j]
		n++
		i = j
	}
	return n
}

// ReadBEDOpts defines behavior of this package's BED-loading function(s).
type ReadBEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// Entry represents a single interval, with 0-based half-open coordinates
// [Start0, End), as it appears in a BED file.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// Range returns the closed interval covered by the entry.  The entry must be
// nonempty.
func (e Entry) Range() Range {
	return Range{Start: e.Start0, Stop: e.End - 1}
}

func isBrowserLine(line []byte) bool {
	return len(line) == 0 || line[0] == '#' ||
		strings.HasPrefix(gunsafe.BytesToString(line), "track") ||
		strings.HasPrefix(gunsafe.BytesToString(line), "browser")
}

func scanBED(scanner *bufio.Scanner, opts ReadBEDOpts) (entries []Entry, err error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}

	var tokens [3][]byte

	lineIdx := 0
	nEmpty := 0
	prevChr := ""
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if isBrowserLine(curLine) {
			continue
		}
		nToken := splitBEDFields(curLine, tokens[:])
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			err = errors.Errorf("interval.ReadBED: line %d: want 3 columns, found %d", lineIdx, nToken)
			return
		}

		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			err = errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = errors.Errorf("interval.ReadBED: line %d: start %s is negative", lineIdx, tokens[1])
			return
		}
		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			err = errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = errors.Errorf("interval.ReadBED: line %d: bad range %d-%d", lineIdx, parsedStart, parsedEnd)
			return
		}
		if parsedEnd == parsedStart {
			// Empty intervals can't be represented as closed ranges.
			nEmpty++
			continue
		}
		// Chromosome names repeat on consecutive lines; avoid re-allocating
		// the string each time.  The token refers to bytes on curLine that
		// will be overwritten soon, so a full copy is needed otherwise.
		if prevChr != gunsafe.BytesToString(tokens[0]) {
			prevChr = string(tokens[0])
		}
		entries = append(entries, Entry{
			ChrName: prevChr,
			Start0:  PosType(parsedStart),
			End:     PosType(parsedEnd),
		})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	log.Printf("BED loaded, %d interval(s), %d empty interval(s) skipped.", len(entries), nEmpty)
	return
}

// ReadBED loads the intervals of a BED file, in file order.  Unlike a union,
// overlapping and duplicate intervals are all kept.  The input need not be
// sorted.
func ReadBED(reader io.Reader, opts ReadBEDOpts) ([]Entry, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, 1<<20)
	return scanBED(scanner, opts)
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped files are detected by extension.
func ReadBEDFromPath(path string, opts ReadBEDOpts) (entries []Entry, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ReadBED(reader, opts)
}

// GroupByChr splits entries by chromosome.  The names are returned in order
// of first appearance.
func GroupByChr(entries []Entry) (names []string, byChr map[string][]Range) {
	byChr = make(map[string][]Range)
	for _, e := range entries {
		ranges, ok := byChr[e.ChrName]
		if !ok {
			names = append(names, e.ChrName)
		}
		byChr[e.ChrName] = append(ranges, e.Range())
	}
	return
}

// parsePos1 parses a 1-based position of a region string.
func parsePos1(s string) (int, error) {
	pos, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "interval.ParseRegionString: position %q", s)
	}
	if pos <= 0 || pos >= PosTypeMax {
		return 0, errors.Errorf("interval.ParseRegionString: position %d out of range", pos)
	}
	return pos, nil
}

// ParseRegionString parses a samtools-style region, "chr", "chr:pos" or
// "chr:first-last" with 1-based inclusive positions, into a BED entry.  A bare
// contig name covers [0, PosTypeMax-1).
func ParseRegionString(region string) (Entry, error) {
	chr, span, hasSpan := strings.Cut(region, ":")
	if chr == "" {
		return Entry{}, errors.Errorf("interval.ParseRegionString: no contig in region %q", region)
	}
	if !hasSpan {
		return Entry{ChrName: chr, Start0: 0, End: PosTypeMax - 1}, nil
	}
	firstStr, lastStr, isRange := strings.Cut(span, "-")
	if !isRange {
		lastStr = firstStr
	}
	first, err := parsePos1(firstStr)
	if err != nil {
		return Entry{}, err
	}
	last, err := parsePos1(lastStr)
	if err != nil {
		return Entry{}, err
	}
	if last < first {
		return Entry{}, errors.Errorf("interval.ParseRegionString: empty range %q", span)
	}
	return Entry{ChrName: chr, Start0: PosType(first - 1), End: PosType(last)}, nil
}
