package reference

// Strain is an immutable reference protein with its annotation tables.
// Positions throughout are absolute, 1-indexed on the full sequence
// including the signal peptide.
type Strain struct {
	Name             string
	Subtype          string
	Segment          string
	SignalPeptideLen int
	Sequence         string
	AntigenicSites   []Site
	EscapeMutations  map[int][]string
}

// Site is a named antigenic region as a set of inclusive position ranges.
// Sites can overlap (Burke & Smith B and D do); lookups resolve the overlap
// by scanning sites in declaration order, first match wins.
type Site struct {
	Name   string
	Ranges []PosRange
}

// PosRange is an inclusive absolute position range.
type PosRange struct {
	Start, End int
}

func (r PosRange) contains(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

// SiteForPosition returns the antigenic site covering an absolute position,
// or "" when the position is outside every site. Declaration order is the
// canonical priority for overlapping sites.
func (s *Strain) SiteForPosition(pos int) string {
	for _, site := range s.AntigenicSites {
		for _, r := range site.Ranges {
			if r.contains(pos) {
				return site.Name
			}
		}
	}
	return ""
}

// IsEscape reports whether a substitution at an absolute position matches a
// known escape outcome for that position.
func (s *Strain) IsEscape(pos int, variantAA string) bool {
	allowed, ok := s.EscapeMutations[pos]
	if !ok {
		return false
	}
	for _, aa := range allowed {
		if aa == variantAA {
			return true
		}
	}
	return false
}

// H3Position converts an absolute position to H3 numbering, which starts
// after the signal peptide.
func (s *Strain) H3Position(absolute int) int {
	return absolute - s.SignalPeptideLen
}

const signalPeptideLen = 16

// H3N2HA is the A/Darwin/6/2021 HA reference (WHO recommended vaccine
// strain), 566 amino acids including the 16-residue signal peptide.
// Antigenic site ranges follow the Burke & Smith definitions in H3
// numbering, shifted here to absolute positions.
var H3N2HA = &Strain{
	Name:             "A/Darwin/6/2021",
	Subtype:          "H3N2",
	Segment:          "HA",
	SignalPeptideLen: signalPeptideLen,
	Sequence: "MKTIIALSYILCLVFA" +
		"QKLPGNDNSTATLCLGHHAVPNGTIVKTITNDQIEVTNATELVQNSSIGEICDSPHQILDGENCTLIDALLGDPQCDGFQNKKWDLFVERSKAYSNCYPYDVPDYASLRSLVASSGTLEFNNESFNWTGVTQNGTSSACKRRSNNSFFSRLNWLTHLNFKYPALNVTMPNNEQFDKLYIWGVHHPGTDKDQISLYAQASGRITVSTKRSQQAVIPNIGSRPRVRDIPSRISIYWTIVKPGDILLINSTGNLIAPRGYFKIRSGKSSIMRSDAPIGKCNSECITPNGSIPNDKPFQNVNRITYGACPRYVKQNTLKLATGMRNVPEKQTRGIFGAIAGFIENGWEGMVDGWYGFRHQNSEGRGQAADLKSTQAAIDQINGKLNRLIGKTNEKFHQIEKEFSEVEGRIQDLEKYVEDTKIDLWSYNAELLVALENQHTIDLTDSEMNKLFEKTKKQLRENAEDMGNGCFKIYHKCDNACIGSIRNGTYDHDVYRDEALNNRFQIKGVELKSGYKDWILWISFAISCFLLCVALLGFIMWACQKGNIRCNICI",
	AntigenicSites: []Site{
		{Name: "A", Ranges: absRanges(122, 146)},
		{Name: "B", Ranges: absRanges(155, 195)},
		{Name: "C", Ranges: append(absRanges(44, 51), absRanges(271, 278)...)},
		{Name: "D", Ranges: append(absRanges(172, 176), absRanges(201, 211)...)},
		{Name: "E", Ranges: append(absRanges(62, 63), absRanges(78, 83)...)},
	},
	EscapeMutations: map[int][]string{
		145 + signalPeptideLen: {"K", "N"},
		156 + signalPeptideLen: {"H", "Q"},
		158 + signalPeptideLen: {"N", "K"}, // egg adaptation
		189 + signalPeptideLen: {"N", "K"},
		193 + signalPeptideLen: {"F", "S"},
		194 + signalPeptideLen: {"L", "I"},
	},
}

// absRanges shifts an inclusive H3-numbered range to absolute positions.
func absRanges(start, end int) []PosRange {
	return []PosRange{{Start: start + signalPeptideLen, End: end + signalPeptideLen}}
}
