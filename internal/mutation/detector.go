package mutation

import (
	"flusignal/internal/align"
	"flusignal/internal/model"
	"flusignal/internal/reference"
)

// MinTranslatedLength is the shortest translated query the detector will
// call mutations on. Shorter fragments yield an empty list by policy to
// avoid spurious calls; callers distinguish that from "mutation-free" via
// sequence-length metadata.
const MinTranslatedLength = 50

// Detector compares translated queries against a reference strain. The
// known-mutation set is an explicit value so novelty flags stay reproducible
// across parallel callers.
type Detector struct {
	reference *reference.Strain
	known     map[string]struct{}
	window    int
}

// Option configures a Detector.
type Option func(*Detector)

// WithAlignmentWindow overrides the anchor window for offset search.
func WithAlignmentWindow(window int) Option {
	return func(d *Detector) {
		if window > 0 {
			d.window = window
		}
	}
}

// NewDetector builds a detector against ref. An empty known set means every
// detected mutation is flagged novel.
func NewDetector(ref *reference.Strain, known []string, opts ...Option) *Detector {
	d := &Detector{
		reference: ref,
		known:     make(map[string]struct{}, len(known)),
		window:    align.DefaultWindow,
	}
	for _, notation := range known {
		d.known[notation] = struct{}{}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect translates a nucleotide sequence and calls mutations against the
// reference. Output is sorted ascending by position.
func (d *Detector) Detect(nucleotides string) []model.Mutation {
	return d.DetectTranslated(reference.Translate(nucleotides))
}

// DetectTranslated calls mutations on an already-translated query.
func (d *Detector) DetectTranslated(queryAA string) []model.Mutation {
	if len(queryAA) < MinTranslatedLength {
		return nil
	}

	refAA := d.reference.Sequence
	offset := align.Offset(queryAA, refAA, d.window)

	maxPos := len(queryAA)
	if rest := len(refAA) - offset; rest < maxPos {
		maxPos = rest
	}

	var mutations []model.Mutation
	for i := 0; i < maxPos; i++ {
		refByte := refAA[offset+i]
		varByte := queryAA[i]
		if refByte == varByte || varByte == reference.UnknownAA {
			continue
		}
		position := offset + i + 1
		m := model.NewMutation(position, string(refByte), string(varByte))
		m.AntigenicSite = d.reference.SiteForPosition(position)
		m.Escape = d.reference.IsEscape(position, m.VariantAA)
		_, seen := d.known[m.Notation]
		m.Novel = !seen
		mutations = append(mutations, m)
	}
	return mutations
}

// Analyze runs detection over a record and returns the persisted row shape
// with per-record counts.
func (d *Detector) Analyze(rec model.SequenceRecord) model.MutationAnalysis {
	mutations := d.Detect(rec.RawSequence)

	analysis := model.MutationAnalysis{
		SequenceID:     rec.ID,
		StrainName:     rec.StrainName,
		TotalMutations: len(mutations),
		Mutations:      mutations,
	}
	for _, m := range mutations {
		if m.AntigenicSite != "" {
			analysis.AntigenicMutations++
		}
		if m.Escape {
			analysis.EscapeMutations++
		}
		if m.Novel {
			analysis.NovelMutations++
		}
	}
	return analysis
}
