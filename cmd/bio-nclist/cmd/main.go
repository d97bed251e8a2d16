// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/grailbio/base/cmdutil"
	"v.io/x/lib/cmdline"
)

const formatHelp = `Input file format, "bed" or "gff".
If empty, the format is guessed from the file extension (.bed, .gff, .gff3,
optionally followed by .gz).`

func newCmdQuery() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "query",
		Short:    "Print the entries of a BED or GFF3 file that overlap the given regions",
		ArgsName: "path",
	}
	flags := queryFlags{
		format:   cmd.Flags.String("format", "", formatHelp),
		oneBased: cmd.Flags.Bool("one-based", false, "BED input uses 1-based closed intervals instead of 0-based half-open ones"),
		regions: cmd.Flags.String("regions", "", `A comma-separated list of regions to query.
Each region is 'chr:begin-end', 'chr:pos' or 'chr', like samtools. [begin,end]
is a 1-based, closed interval.`),
		types: cmd.Flags.String("types", "", "GFF only: comma-separated list of feature types to report. By default, all types"),
		terms: cmd.Flags.String("terms", "", `GFF only: comma-separated list of Sequence Ontology terms.
Only features whose type is one of the terms, or a descendant of one, are
reported. Can't be combined with -types.`),
		ontology: cmd.Flags.String("ontology", "", `YAML file mapping each ontology term to the list of its parents, used by
-terms. By default, a small built-in subset of the Sequence Ontology is used.`),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("query takes one pathname argument, but got %v", argv)
		}
		return query(os.Stdout, flags, argv[0])
	})
	return cmd
}

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Show per-sequence entry counts and index depth, and check the index invariants",
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("stats takes one pathname argument, but got %v", argv)
		}
		return stats(os.Stdout, *format, argv[0])
	})
	return cmd
}

func newCmdDump() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "dump",
		Short:    "Pretty-print the index built for one sequence",
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	seq := cmd.Flags.String("chrom", "", "Sequence to print")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("dump takes one pathname argument, but got %v", argv)
		}
		if *seq == "" {
			return fmt.Errorf("-chrom must be set")
		}
		return dump(os.Stdout, *format, argv[0], *seq)
	})
	return cmd
}

// Run is the entry point of bio-nclist.
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-nclist",
			Short:    "Query BED and GFF3 files through a nested containment list index",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdQuery(),
				newCmdStats(),
				newCmdDump(),
			},
		})
}
