// Package align locates the reading offset of a possibly fragmentary query
// against a reference protein. Real samples may start mid-protein, so the
// first residues of the query are used as an anchor and slid along the
// reference. This is a bounded window search, not sequence alignment.
package align

// DefaultWindow is the anchor length used when no window is configured.
const DefaultWindow = 20

// acceptRatio is the minimum identity fraction for an offset to be trusted.
const acceptRatio = 0.6

// Offset returns the reference offset where the query anchor matches best.
// Ties break toward the lowest offset. Returns 0 when the query is empty or
// shorter than the window, or when no offset reaches the accept threshold.
func Offset(query, ref string, window int) int {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(query) < window || len(ref) <= window {
		return 0
	}

	anchor := query[:window]
	bestScore := 0
	bestOffset := 0
	for offset := 0; offset < len(ref)-window; offset++ {
		score := 0
		for i := 0; i < window; i++ {
			if anchor[i] == ref[offset+i] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestOffset = offset
		}
	}

	if float64(bestScore) >= float64(window)*acceptRatio {
		return bestOffset
	}
	return 0
}
