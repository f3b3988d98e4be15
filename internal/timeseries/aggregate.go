package timeseries

import (
	"time"

	"flusignal/internal/model"
	"flusignal/internal/variant"
)

// DefaultSmoothWindow is the trailing rolling-mean width applied to weekly
// counts before normalization.
const DefaultSmoothWindow = 3

// Bucketed is a record reduced to its week bucket and vocabulary slot.
type Bucketed struct {
	Week time.Time
	Slot int
}

// Result carries the aggregated matrix together with the degraded-row
// accounting the caller is expected to surface.
type Result struct {
	Matrix  model.FrequencyMatrix
	Dropped int
	ZeroSum int
}

// Bucketize parses collection dates and maps each record's signature to its
// vocabulary slot. Records with unparseable dates are dropped and counted.
// A record's stored signature wins over re-derivation so classification
// stays a distinct, explicit step.
func Bucketize(records []model.SequenceRecord, vocab *variant.Vocabulary) ([]Bucketed, int) {
	bucketed := make([]Bucketed, 0, len(records))
	dropped := 0
	for _, rec := range records {
		date, ok := ParseDate(rec.CollectionDate)
		if !ok {
			dropped++
			continue
		}
		sig := rec.Signature
		if sig == "" {
			sig = variant.SignatureOf(rec)
		}
		bucketed = append(bucketed, Bucketed{Week: WeekStart(date), Slot: vocab.Slot(sig)})
	}
	return bucketed, dropped
}

// CountsOnIndex counts slot occurrences per week over a fixed weekly index.
// Weeks absent from the index contribute nothing.
func CountsOnIndex(records []Bucketed, width int, index []time.Time) [][]float64 {
	position := make(map[time.Time]int, len(index))
	for i, week := range index {
		position[week] = i
	}

	counts := make([][]float64, len(index))
	for i := range counts {
		counts[i] = make([]float64, width)
	}
	for _, rec := range records {
		if row, ok := position[rec.Week]; ok {
			counts[row][rec.Slot]++
		}
	}
	return counts
}

// Smooth applies a trailing rolling mean of the given window to each column.
// Early rows average over however many rows exist (minimum one period), so
// the head of the series stays defined.
func Smooth(values [][]float64, window int) [][]float64 {
	if window <= 0 {
		window = DefaultSmoothWindow
	}

	smoothed := make([][]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		span := float64(i - lo + 1)
		row := make([]float64, len(values[i]))
		for j := range row {
			acc := 0.0
			for k := lo; k <= i; k++ {
				acc += values[k][j]
			}
			row[j] = acc / span
		}
		smoothed[i] = row
	}
	return smoothed
}

// Normalize scales each row in place to sum to 1.0. A zero-sum row keeps a
// divisor of 1 and stays all zero; the count of such rows is returned so the
// violation of the probability invariant is surfaced, not hidden.
func Normalize(values [][]float64) int {
	zeroSum := 0
	for _, row := range values {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			zeroSum++
			continue
		}
		for j := range row {
			row[j] /= sum
		}
	}
	return zeroSum
}

// AggregateOnIndex runs count, smooth, and normalize against a fixed weekly
// index. Used directly by spatial aggregation, which owns the index.
func AggregateOnIndex(records []Bucketed, width int, index []time.Time, smoothWindow int) ([][]float64, int) {
	counts := CountsOnIndex(records, width, index)
	smoothed := Smooth(counts, smoothWindow)
	zeroSum := Normalize(smoothed)
	return smoothed, zeroSum
}

// AggregateWeekly bins records into Monday-anchored weeks spanning the
// observed range and produces the normalized frequency matrix. Columns are
// the vocabulary order followed by Other.
func AggregateWeekly(records []model.SequenceRecord, vocab *variant.Vocabulary, smoothWindow int) Result {
	bucketed, dropped := Bucketize(records, vocab)
	columns := vocab.Columns()

	start, end, ok := WeekRange(bucketed)
	if !ok {
		return Result{
			Matrix:  model.FrequencyMatrix{Columns: columns},
			Dropped: dropped,
		}
	}

	index := WeeklyIndex(start, end)
	values, zeroSum := AggregateOnIndex(bucketed, len(columns), index, smoothWindow)
	return Result{
		Matrix: model.FrequencyMatrix{
			Dates:   index,
			Columns: columns,
			Values:  values,
		},
		Dropped: dropped,
		ZeroSum: zeroSum,
	}
}
