package mutation

import (
	"strings"
	"testing"

	"flusignal/internal/model"
	"flusignal/internal/reference"
)

// aaCodons picks one codon per amino acid so tests can synthesize
// nucleotide input for a wanted translation.
var aaCodons = map[byte]string{
	'F': "TTT", 'L': "TTA", 'S': "TCT", 'Y': "TAT", 'C': "TGT",
	'W': "TGG", 'P': "CCT", 'H': "CAT", 'Q': "CAA", 'R': "CGT",
	'I': "ATT", 'M': "ATG", 'T': "ACT", 'N': "AAT", 'K': "AAA",
	'V': "GTT", 'A': "GCT", 'D': "GAT", 'E': "GAA", 'G': "GGT",
}

func toNucleotides(t *testing.T, aa string) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < len(aa); i++ {
		codon, ok := aaCodons[aa[i]]
		if !ok {
			t.Fatalf("no codon for residue %c", aa[i])
		}
		b.WriteString(codon)
	}
	return b.String()
}

// substitute returns a residue different from the original and never the
// unknown symbol.
func substitute(original byte) byte {
	if original != 'W' {
		return 'W'
	}
	return 'Y'
}

func TestDetectTranslatedIdenticalToReference(t *testing.T) {
	d := NewDetector(reference.H3N2HA, nil)
	if got := d.DetectTranslated(reference.H3N2HA.Sequence); len(got) != 0 {
		t.Fatalf("identical query should yield no mutations, got %d", len(got))
	}
}

func TestDetectTranslatedTooShort(t *testing.T) {
	d := NewDetector(reference.H3N2HA, nil)
	if got := d.DetectTranslated(reference.H3N2HA.Sequence[:MinTranslatedLength-1]); got != nil {
		t.Fatalf("short fragment should yield nil, got %v", got)
	}
}

func TestDetectTranslatedEscapeMutation(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	position := 145 + reference.H3N2HA.SignalPeptideLen // known escape site
	index := position - 1

	query := []byte(refAA[:200])
	variantAA := byte('K')
	if refAA[index] == 'K' {
		variantAA = 'N'
	}
	query[index] = variantAA

	d := NewDetector(reference.H3N2HA, nil)
	mutations := d.DetectTranslated(string(query))
	if len(mutations) != 1 {
		t.Fatalf("expected exactly one mutation, got %d", len(mutations))
	}

	m := mutations[0]
	if m.Position != position {
		t.Fatalf("position = %d, want %d", m.Position, position)
	}
	if m.ReferenceAA != string(refAA[index]) || m.VariantAA != string(variantAA) {
		t.Fatalf("unexpected substitution %s -> %s", m.ReferenceAA, m.VariantAA)
	}
	if !m.Escape {
		t.Fatalf("%s should be flagged as escape", m.Notation)
	}
	if m.AntigenicSite != "A" {
		t.Fatalf("antigenic site = %q, want A", m.AntigenicSite)
	}
	if !m.Novel {
		t.Fatal("empty known set means every mutation is novel")
	}
}

func TestDetectTranslatedKnownSuppressesNovelty(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	query := []byte(refAA[:120])
	query[70] = substitute(refAA[70])
	notation := model.NewMutation(71, string(refAA[70]), string(query[70])).Notation

	d := NewDetector(reference.H3N2HA, []string{notation})
	mutations := d.DetectTranslated(string(query))
	if len(mutations) != 1 {
		t.Fatalf("expected one mutation, got %d", len(mutations))
	}
	if mutations[0].Novel {
		t.Fatalf("%s is in the known set and must not be novel", notation)
	}
}

func TestDetectTranslatedSkipsUnknownResidues(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	query := []byte(refAA[:120])
	query[10] = reference.UnknownAA

	d := NewDetector(reference.H3N2HA, nil)
	if got := d.DetectTranslated(string(query)); len(got) != 0 {
		t.Fatalf("unknown residues must not be called, got %d mutations", len(got))
	}
}

func TestDetectTranslatedFragmentOffset(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	const start = 30
	query := []byte(refAA[start : start+100])
	query[50] = substitute(refAA[start+50])

	d := NewDetector(reference.H3N2HA, nil)
	mutations := d.DetectTranslated(string(query))
	if len(mutations) != 1 {
		t.Fatalf("expected one mutation on fragment, got %d", len(mutations))
	}
	wantPosition := start + 50 + 1
	if mutations[0].Position != wantPosition {
		t.Fatalf("position = %d, want %d (offset-corrected)", mutations[0].Position, wantPosition)
	}
}

func TestDetectTranslatedSortedAscending(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	query := []byte(refAA[:150])
	query[20] = substitute(refAA[20])
	query[90] = substitute(refAA[90])

	d := NewDetector(reference.H3N2HA, nil)
	mutations := d.DetectTranslated(string(query))
	if len(mutations) != 2 {
		t.Fatalf("expected two mutations, got %d", len(mutations))
	}
	if mutations[0].Position >= mutations[1].Position {
		t.Fatalf("mutations not sorted: %d then %d", mutations[0].Position, mutations[1].Position)
	}
}

func TestDetectNucleotidePath(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	d := NewDetector(reference.H3N2HA, nil)

	clean := toNucleotides(t, refAA[:60])
	if got := d.Detect(clean); len(got) != 0 {
		t.Fatalf("reference-identical nucleotides should yield none, got %d", len(got))
	}

	mutated := []byte(refAA[:60])
	mutated[40] = substitute(refAA[40])
	mutations := d.Detect(toNucleotides(t, string(mutated)))
	if len(mutations) != 1 || mutations[0].Position != 41 {
		t.Fatalf("expected single mutation at 41, got %+v", mutations)
	}
}

func TestAnalyzeCounts(t *testing.T) {
	refAA := reference.H3N2HA.Sequence
	escapeIndex := 145 + reference.H3N2HA.SignalPeptideLen - 1

	query := []byte(refAA[:200])
	variantAA := byte('K')
	if refAA[escapeIndex] == 'K' {
		variantAA = 'N'
	}
	query[escapeIndex] = variantAA

	d := NewDetector(reference.H3N2HA, nil)
	rec := model.SequenceRecord{
		ID:          "seq-1",
		StrainName:  "A/Japan/101/2024",
		RawSequence: toNucleotides(t, string(query)),
	}
	analysis := d.Analyze(rec)

	if analysis.SequenceID != "seq-1" || analysis.StrainName != rec.StrainName {
		t.Fatalf("analysis identity mismatch: %+v", analysis)
	}
	if analysis.TotalMutations != 1 || analysis.EscapeMutations != 1 ||
		analysis.AntigenicMutations != 1 || analysis.NovelMutations != 1 {
		t.Fatalf("unexpected counts: %+v", analysis)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "No mutations detected" {
		t.Fatalf("empty summary = %q", got)
	}

	mutations := []model.Mutation{
		{Notation: "N161K", AntigenicSite: "A", Escape: true},
		{Notation: "Q33L"},
	}
	got := Summary(mutations)
	want := "2 total mutations, 1 at antigenic sites, 1 known escape mutations"
	if got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
}
