package interval

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const testBED = `track name=test
chr1	2488104	2488172
chr1	2488104	2488172
chr1	2489165	2489273
chr1	2489200	2489200
chr2	2489782	2489907
chr1	2490320	2490438
`

func TestReadBED(t *testing.T) {
	tests := []struct {
		oneBasedInput bool
		want          []Entry
	}{
		{
			false,
			[]Entry{
				{"chr1", 2488104, 2488172},
				{"chr1", 2488104, 2488172},
				{"chr1", 2489165, 2489273},
				{"chr2", 2489782, 2489907},
				{"chr1", 2490320, 2490438},
			},
		},
		{
			true,
			[]Entry{
				{"chr1", 2488103, 2488172},
				{"chr1", 2488103, 2488172},
				{"chr1", 2489164, 2489273},
				{"chr1", 2489199, 2489200},
				{"chr2", 2489781, 2489907},
				{"chr1", 2490319, 2490438},
			},
		},
	}
	for _, tt := range tests {
		result, err := ReadBED(strings.NewReader(testBED), ReadBEDOpts{OneBasedInput: tt.oneBasedInput})
		assert.NoError(t, err)
		expect.EQ(t, result, tt.want)
	}
}

func TestReadBEDErrors(t *testing.T) {
	for _, bed := range []string{
		"chr1\t100\n",
		"chr1\tx\t200\n",
		"chr1\t200\t100\n",
		"chr1\t-5\t100\n",
	} {
		_, err := ReadBED(strings.NewReader(bed), ReadBEDOpts{})
		expect.NotNil(t, err, bed)
	}
}

func TestReadBEDFromPath(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	plainPath := filepath.Join(tempDir, "test.bed")
	assert.NoError(t, os.WriteFile(plainPath, []byte(testBED), 0644))

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(testBED))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	gzPath := filepath.Join(tempDir, "test.bed.gz")
	assert.NoError(t, os.WriteFile(gzPath, buf.Bytes(), 0644))

	for _, path := range []string{plainPath, gzPath} {
		entries, err := ReadBEDFromPath(path, ReadBEDOpts{})
		assert.NoError(t, err)
		expect.EQ(t, len(entries), 5)
		names, byChr := GroupByChr(entries)
		expect.EQ(t, names, []string{"chr1", "chr2"})
		expect.EQ(t, len(byChr["chr1"]), 4)
		expect.EQ(t, byChr["chr2"], []Range{{2489782, 2489906}})
	}
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region  string
		chrName string
		start0  PosType
		end     PosType
	}{
		{
			"chr1:1-1000",
			"chr1",
			0,
			1000,
		},
		{
			"chr1:1000",
			"chr1",
			999,
			1000,
		},
		{
			"chr1:7-7",
			"chr1",
			6,
			7,
		},
		{
			"chr1",
			"chr1",
			0,
			math.MaxInt32 - 1,
		},
	}

	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, tt.chrName, result.ChrName)
		expect.EQ(t, tt.start0, result.Start0)
		expect.EQ(t, tt.end, result.End)
	}
	for _, region := range []string{"", ":1-5", "chr1:0-5", "chr1:10-5", "chr1:x", "chr1:", "chr1:5-"} {
		_, err := ParseRegionString(region)
		expect.NotNil(t, err, region)
	}
}

func TestSplitBEDFields(t *testing.T) {
	var fields [3][]byte
	expect.EQ(t, splitBEDFields([]byte("  chr1\t10  20\tname\n"), fields[:]), 3)
	expect.EQ(t, string(fields[0])+"|"+string(fields[1])+"|"+string(fields[2]), "chr1|10|20")
	expect.EQ(t, splitBEDFields([]byte("chr2 5"), fields[:]), 2)
	expect.EQ(t, string(fields[1]), "5")
	expect.EQ(t, splitBEDFields([]byte(" \t "), fields[:]), 0)
}
