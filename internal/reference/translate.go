package reference

import "strings"

// UnknownAA marks residues decoded from unmapped codons, including
// ambiguity codes.
const UnknownAA = 'X'

const stopAA = '*'

var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// Translate converts a nucleotide sequence to amino acids. Input is
// case-insensitive and may contain whitespace. Unmapped triplets decode to
// UnknownAA, a stop codon terminates translation, and trailing leftover
// nucleotides are dropped. Never fails; returns "" for empty input.
func Translate(nucleotides string) string {
	seq := normalize(nucleotides)

	var b strings.Builder
	b.Grow(len(seq) / 3)
	for i := 0; i+3 <= len(seq); i += 3 {
		aa, ok := codonTable[seq[i:i+3]]
		if !ok {
			aa = UnknownAA
		}
		if aa == stopAA {
			break
		}
		b.WriteByte(aa)
	}
	return b.String()
}

func normalize(nucleotides string) string {
	upper := strings.ToUpper(nucleotides)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, upper)
}
