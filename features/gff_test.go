package features

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/nclist/interval"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const testGFF = `##gff-version 3
##sequence-region chr1 1 1000
chr1	ensembl	gene	100	900	.	+	.	ID=gene1;Name=BRCA%3B1
chr1	ensembl	exon	100	200	0.5	+	.	ID=exon1;Parent=gene1
chr1	ensembl	exon	300	400	1.5	+	.	ID=exon2;Parent=gene1
chr1	ensembl	exon	300	400	1.5	+	.	ID=exon2;Parent=gene1
chr1	ensembl	CDS	150	380	.	+	0	ID=cds1;Parent=gene1
chr1	uniprot	disulfide bond	120	310	.	.	.	.
chr2	.	exon	5	10	x	-	.	ID=bad
chr2	havana	exon	20	10	.	-	.	ID=bad2
chr2	.	exon	abc	10	.	+	.	ID=bad3
chr2	havana	exon	1
chr2	havana	exon	1	10	.	-	.	ID=exon3
`

func TestReadGFFFromReader(t *testing.T) {
	byseq := map[string]*SequenceFeatures{}
	n, err := readGFF(strings.NewReader(testGFF), GFFOpts{}, byseq)
	assert.NoError(t, err)
	// One duplicate and four malformed records are skipped.
	expect.EQ(t, n, 6)
	expect.EQ(t, len(byseq), 2)

	chr1 := byseq["chr1"]
	expect.EQ(t, chr1.Types(), []string{"CDS", "disulfide bond", "exon", "gene"})
	expect.EQ(t, chr1.Count(true, "exon"), 2)
	expect.EQ(t, chr1.Groups(true), []string{"ensembl", "uniprot"})
	expect.EQ(t, chr1.MaxScore("exon", true), 1.5)
	expect.True(t, math.IsNaN(chr1.MaxScore("gene", true)))

	genes := chr1.Positional("gene")
	expect.EQ(t, len(genes), 1)
	expect.EQ(t, genes[0].Description, "BRCA;1")
	expect.EQ(t, genes[0].Start, interval.PosType(100))
	expect.True(t, chr1.Contact()[0].IsContact())
	expect.EQ(t, chr1.Contact()[0].Group, "uniprot")

	found := chr1.Find(201, 299)
	SortFeatures(found, true)
	expect.EQ(t, len(found), 2)
	expect.EQ(t, found[0].Type, "gene")
	expect.EQ(t, found[1].Type, "CDS")
	expect.EQ(t, len(chr1.Find(310, 310, "disulfide bond")), 1)

	expect.EQ(t, byseq["chr2"].Count(true), 1)
}

func TestReadGFFOpts(t *testing.T) {
	byseq := map[string]*SequenceFeatures{}
	n, err := readGFF(strings.NewReader(testGFF), GFFOpts{Types: []string{"exon"}, Seqs: []string{"chr1"}}, byseq)
	assert.NoError(t, err)
	expect.EQ(t, n, 2)
	expect.EQ(t, len(byseq), 1)
	expect.EQ(t, byseq["chr1"].Types(), []string{"exon"})
}

func TestParseAttributes(t *testing.T) {
	want := map[string]string{"ID": "a", "Name": "b,c", "Note": "50%", "flag": ""}
	if diff := cmp.Diff(want, parseAttributes("ID=a;Name=b%2Cc; Note=50%;flag")); diff != "" {
		t.Errorf("parseAttributes mismatch (-want +got):\n%s", diff)
	}
	expect.EQ(t, len(parseAttributes(".")), 0)
}

func TestReadGFF(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	plainPath := filepath.Join(tempDir, "test.gff3")
	assert.NoError(t, os.WriteFile(plainPath, []byte(testGFF), 0644))
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(testGFF))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	gzPath := filepath.Join(tempDir, "test.gff3.gz")
	assert.NoError(t, os.WriteFile(gzPath, buf.Bytes(), 0644))

	for _, path := range []string{plainPath, gzPath} {
		byseq, err := ReadGFF(ctx, path, GFFOpts{})
		assert.NoError(t, err, path)
		expect.EQ(t, len(byseq), 2, path)
		expect.EQ(t, byseq["chr1"].Count(true), 5, path)
	}

	_, err = ReadGFF(ctx, filepath.Join(tempDir, "missing.gff3"), GFFOpts{})
	expect.True(t, errors.Is(errors.NotExist, err), err)

	// Bad records don't fail the load.
	badPath := filepath.Join(tempDir, "bad.gff3")
	assert.NoError(t, os.WriteFile(badPath, []byte(
		"chr1\tsrc\texon\tone\t10\t.\t+\t.\t.\n"+
			"chr1\tsrc\texon\t5\n"+
			"chr1\tsrc\texon\t5\t10\t.\t+\t.\t.\n"), 0644))
	byseq, err := ReadGFF(ctx, badPath, GFFOpts{})
	assert.NoError(t, err)
	expect.EQ(t, byseq["chr1"].Count(true), 1)

	// Unreadable input does.
	corruptPath := filepath.Join(tempDir, "corrupt.gff3.gz")
	assert.NoError(t, os.WriteFile(corruptPath, []byte(testGFF), 0644))
	_, err = ReadGFF(ctx, corruptPath, GFFOpts{})
	expect.NotNil(t, err)
}
