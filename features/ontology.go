package features

import (
	"context"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"gopkg.in/yaml.v3"
)

// Ontology answers "is this feature type a kind of that one" questions.
type Ontology interface {
	// IsA returns whether child is parent, or a descendant of it.
	IsA(child, parent string) bool
}

// termGraph is an Ontology backed by a map from each term to its direct
// parents.  Terms may have several parents.
type termGraph struct {
	parents map[string][]string
}

// NewOntology creates an Ontology from a map of term -> direct parents.  The
// graph should be acyclic; a cycle doesn't loop forever, but makes every term
// on it a descendant of the others.
func NewOntology(parents map[string][]string) Ontology {
	g := &termGraph{parents: make(map[string][]string, len(parents))}
	for term, ps := range parents {
		g.parents[term] = append([]string(nil), ps...)
	}
	return g
}

func (g *termGraph) IsA(child, parent string) bool {
	if child == parent {
		return true
	}
	seen := map[string]bool{child: true}
	queue := []string{child}
	for len(queue) > 0 {
		term := queue[0]
		queue = queue[1:]
		for _, p := range g.parents[term] {
			if p == parent {
				return true
			}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}

// ReadOntology reads an ontology from a YAML file mapping each term to the
// list of its direct parents, e.g.
//   exon: [transcript_region]
//   CDS: [mRNA_region, coding_region]
// An empty file yields an empty ontology.
func ReadOntology(ctx context.Context, path string) (o Ontology, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, path)
		}
	}()
	var parents map[string][]string
	if err := yaml.NewDecoder(in.Reader(ctx)).Decode(&parents); err != nil && err != io.EOF {
		return nil, errors.E(errors.Invalid, path, err)
	}
	return NewOntology(parents), nil
}

// soLiteParents is a small slice of the Sequence Ontology covering the
// feature types commonly found in GFF3 gene models and protein annotations.
var soLiteParents = map[string][]string{
	"biological_region":        {"region"},
	"sequence_feature":         {"region"},
	"gene":                     {"biological_region"},
	"pseudogene":               {"biological_region"},
	"transcript":               {"gene_member_region"},
	"gene_member_region":       {"biological_region"},
	"primary_transcript":       {"transcript"},
	"mRNA":                     {"mature_transcript"},
	"mature_transcript":        {"transcript"},
	"ncRNA":                    {"mature_transcript"},
	"tRNA":                     {"ncRNA"},
	"rRNA":                     {"ncRNA"},
	"lnc_RNA":                  {"ncRNA"},
	"miRNA":                    {"ncRNA"},
	"transcript_region":        {"gene_member_region"},
	"exon":                     {"transcript_region"},
	"coding_exon":              {"exon"},
	"noncoding_exon":           {"exon"},
	"intron":                   {"transcript_region"},
	"mRNA_region":              {"transcript_region"},
	"CDS":                      {"mRNA_region"},
	"UTR":                      {"mRNA_region"},
	"five_prime_UTR":           {"UTR"},
	"three_prime_UTR":          {"UTR"},
	"start_codon":              {"mRNA_region"},
	"stop_codon":               {"mRNA_region"},
	"sequence_variant":         {"sequence_feature"},
	"SNV":                      {"sequence_variant"},
	"insertion":                {"sequence_variant"},
	"deletion":                 {"sequence_variant"},
	"polypeptide_region":       {"biological_region"},
	"polypeptide_domain":       {"polypeptide_region"},
	"signal_peptide":           {"polypeptide_region"},
	"transmembrane_region":     {"polypeptide_region"},
	"disulfide_bond":           {"polypeptide_region"},
	"repeat_region":            {"biological_region"},
	"tandem_repeat":            {"repeat_region"},
	"regulatory_region":        {"biological_region"},
	"promoter":                 {"regulatory_region"},
	"enhancer":                 {"regulatory_region"},
	"TF_binding_site":          {"regulatory_region"},
	"CpG_island":               {"biological_region"},
	"chromosome":               {"region"},
	"contig":                   {"region"},
	"match":                    {"region"},
	"nucleotide_match":         {"match"},
	"protein_match":            {"match"},
	"cDNA_match":               {"nucleotide_match"},
	"EST_match":                {"nucleotide_match"},
	"expressed_sequence_match": {"nucleotide_match"},
}

var (
	ontologyMu      sync.Mutex
	defaultOntology Ontology
)

// SOLite returns an Ontology holding a small built-in subset of the Sequence
// Ontology.
func SOLite() Ontology {
	return NewOntology(soLiteParents)
}

// DefaultOntology returns the process-wide Ontology used by
// SequenceFeatures.Types and ByOntology.  It's SOLite unless SetOntology was
// called.
func DefaultOntology() Ontology {
	ontologyMu.Lock()
	defer ontologyMu.Unlock()
	if defaultOntology == nil {
		defaultOntology = SOLite()
	}
	return defaultOntology
}

// SetOntology replaces the process-wide Ontology.  Passing nil restores
// SOLite.
func SetOntology(o Ontology) {
	ontologyMu.Lock()
	defaultOntology = o
	ontologyMu.Unlock()
}
