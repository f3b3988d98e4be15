// Package variant clusters sequence records into a bounded vocabulary of
// mutation signatures.
package variant

import (
	"sort"
	"strings"

	"flusignal/internal/model"
)

const (
	// SignatureWildType marks records with no mutations relative to the
	// reference.
	SignatureWildType = "WT"
	// SignatureUnknown marks records whose mutation field could not be
	// parsed.
	SignatureUnknown = "Unknown"
	// ColumnOther is the implicit overflow bucket appended after the fitted
	// vocabulary.
	ColumnOther = "Other"
)

// NotationOf normalizes one mutation-list entry to its canonical notation.
// The second return is false when the entry carries no usable notation.
func NotationOf(f model.MutationField) (string, bool) {
	if f.Entry != nil {
		if f.Entry.Notation != "" {
			return f.Entry.Notation, true
		}
		if f.Entry.ReferenceAA != "" && f.Entry.Position > 0 {
			m := model.NewMutation(f.Entry.Position, f.Entry.ReferenceAA, f.Entry.VariantAA)
			return m.Notation, true
		}
		return "", false
	}
	if f.Notation != "" {
		return f.Notation, true
	}
	return "", false
}

// SignatureOf derives the canonical signature for a record from its mutation
// list: sorted notations joined by commas, SignatureWildType for an empty
// set, SignatureUnknown for a malformed mutation field.
func SignatureOf(rec model.SequenceRecord) string {
	if rec.Mutations.Invalid {
		return SignatureUnknown
	}

	notations := make([]string, 0, len(rec.Mutations.Entries))
	for _, f := range rec.Mutations.Entries {
		if notation, ok := NotationOf(f); ok {
			notations = append(notations, notation)
		}
	}
	if len(notations) == 0 {
		return SignatureWildType
	}
	sort.Strings(notations)
	return strings.Join(notations, ",")
}

// SignatureOfMutations derives a signature directly from detected mutations.
func SignatureOfMutations(mutations []model.Mutation) string {
	if len(mutations) == 0 {
		return SignatureWildType
	}
	notations := make([]string, 0, len(mutations))
	for _, m := range mutations {
		notations = append(notations, m.Notation)
	}
	sort.Strings(notations)
	return strings.Join(notations, ",")
}
