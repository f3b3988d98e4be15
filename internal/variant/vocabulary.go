package variant

import "sort"

// DefaultTopK bounds the fitted vocabulary size.
const DefaultTopK = 5

// Vocabulary is an ordered top-K signature list fitted once from a batch.
// It is immutable after Fit; transforming never refits, so temporal and
// spatial aggregation over the same run share identical columns.
type Vocabulary struct {
	signatures []string
	index      map[string]int
}

// Fit counts signature frequency over a batch and keeps the topK most
// frequent, ordered by descending count with ties broken by first-seen
// order. Fitting the same batch twice yields the same vocabulary.
func Fit(signatures []string, topK int) *Vocabulary {
	if topK <= 0 {
		topK = DefaultTopK
	}

	counts := make(map[string]int, len(signatures))
	order := make([]string, 0, len(signatures))
	for _, sig := range signatures {
		if _, seen := counts[sig]; !seen {
			order = append(order, sig)
		}
		counts[sig]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topK {
		order = order[:topK]
	}

	index := make(map[string]int, len(order))
	for i, sig := range order {
		index[sig] = i
	}
	return &Vocabulary{signatures: order, index: index}
}

// Len is the number of fitted signatures, excluding the Other bucket.
func (v *Vocabulary) Len() int {
	return len(v.signatures)
}

// Signatures returns the fitted signatures in vocabulary order.
func (v *Vocabulary) Signatures() []string {
	return append([]string(nil), v.signatures...)
}

// Columns returns the aggregation column order: fitted signatures followed
// by the Other bucket.
func (v *Vocabulary) Columns() []string {
	return append(v.Signatures(), ColumnOther)
}

// Slot maps a signature to its column index; signatures outside the
// vocabulary land in the trailing Other slot.
func (v *Vocabulary) Slot(signature string) int {
	if i, ok := v.index[signature]; ok {
		return i
	}
	return len(v.signatures)
}

// MapSignature returns the signature itself when fitted, ColumnOther
// otherwise.
func (v *Vocabulary) MapSignature(signature string) string {
	if _, ok := v.index[signature]; ok {
		return signature
	}
	return ColumnOther
}
