package cmd

import (
	"fmt"
	"io"
)

// dump pretty-prints the index of one sequence.  For GFF input, each feature
// type is printed separately, preceded by a "# type" line.
func dump(w io.Writer, format, path, seq string) error {
	t, err := loadTrack(path, loadOpts{format: format})
	if err != nil {
		return err
	}
	if !t.hasSeq(seq) {
		return fmt.Errorf("sequence %s not found in %s", seq, path)
	}
	if t.format == formatBED {
		_, err = io.WriteString(w, t.bed[seq].PrettyPrint())
		return err
	}
	sf := t.gff[seq]
	for _, typ := range sf.Types() {
		if _, err = fmt.Fprintf(w, "# %s\n%s", typ, sf.Index(typ).PrettyPrint()); err != nil {
			return err
		}
	}
	return nil
}
