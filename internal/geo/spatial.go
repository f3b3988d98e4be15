package geo

import (
	"sync"
	"time"

	"flusignal/internal/model"
	"flusignal/internal/timeseries"
	"flusignal/internal/variant"
)

// SpatialResult is the stacked tensor plus the per-batch accounting of
// skipped and degraded rows.
type SpatialResult struct {
	Tensor     model.FrequencyTensor
	Dropped    int
	Unassigned int
	ZeroSum    int
	EmptyNodes []string
}

// AggregateSpatial computes one weekly frequency matrix per topology node on
// a single global weekly index and stacks them into a (time, node, variant)
// tensor. The vocabulary must already be fitted over the whole batch so all
// nodes share identical columns.
//
// Per-node aggregation only reads the shared inputs and writes to its own
// output slot, so nodes run concurrently without locking.
func AggregateSpatial(records []model.SequenceRecord, vocab *variant.Vocabulary, topology *Topology, smoothWindow int) SpatialResult {
	columns := vocab.Columns()
	nodes := topology.Nodes()

	bucketed, dropped := timeseries.Bucketize(records, vocab)
	result := SpatialResult{Dropped: dropped}

	start, end, ok := timeseries.WeekRange(bucketed)
	if !ok {
		result.Tensor = model.FrequencyTensor{Nodes: nodes, Columns: columns}
		return result
	}
	index := timeseries.WeeklyIndex(start, end)

	// Group per node before bucketing so unassigned records are excluded
	// from spatial aggregation only.
	resolver := NewResolver(topology)
	byNode := make(map[string][]model.SequenceRecord, len(nodes))
	for _, rec := range records {
		node, assigned := resolver.NodeFor(rec)
		if !assigned {
			result.Unassigned++
			continue
		}
		byNode[node] = append(byNode[node], rec)
	}

	outcomes := make([]nodeOutcome, len(nodes))

	var wg sync.WaitGroup
	for i, node := range nodes {
		wg.Add(1)
		go func(slot int, nodeRecords []model.SequenceRecord) {
			defer wg.Done()
			outcomes[slot] = aggregateNode(nodeRecords, vocab, index, smoothWindow)
		}(i, byNode[node])
	}
	wg.Wait()

	for i, node := range nodes {
		if outcomes[i].empty {
			result.EmptyNodes = append(result.EmptyNodes, node)
		}
		result.ZeroSum += outcomes[i].zeroSum
	}

	values := make([][][]float64, len(index))
	for t := range index {
		values[t] = make([][]float64, len(nodes))
		for n := range nodes {
			values[t][n] = outcomes[n].values[t]
		}
	}

	result.Tensor = model.FrequencyTensor{
		Dates:   index,
		Nodes:   nodes,
		Columns: columns,
		Values:  values,
	}
	return result
}

type nodeOutcome struct {
	values  [][]float64
	zeroSum int
	empty   bool
}

// aggregateNode runs temporal aggregation for one node on its own observed
// range, then reindexes onto the shared global index.
func aggregateNode(records []model.SequenceRecord, vocab *variant.Vocabulary, globalIndex []time.Time, smoothWindow int) nodeOutcome {
	width := vocab.Len() + 1
	otherSlot := vocab.Len()

	bucketed, _ := timeseries.Bucketize(records, vocab)
	localStart, localEnd, ok := timeseries.WeekRange(bucketed)
	if !ok {
		// No usable records at all: a uniform Other=1.0 default instead of
		// all-zero rows that would imply false certainty.
		return nodeOutcome{values: otherRows(len(globalIndex), width, otherSlot), empty: true}
	}

	localIndex := timeseries.WeeklyIndex(localStart, localEnd)
	local, zeroSum := timeseries.AggregateOnIndex(bucketed, width, localIndex, smoothWindow)

	values := reindexFill(local, localIndex, globalIndex, width, otherSlot)
	renormalize(values)
	return nodeOutcome{values: values, zeroSum: zeroSum}
}

// reindexFill places local rows at their global positions, forward-fills the
// gaps, then back-fills what remains. Rows that stay undefined (no local
// data anywhere) fall back to Other=1.0.
func reindexFill(local [][]float64, localIndex, globalIndex []time.Time, width, otherSlot int) [][]float64 {
	position := make(map[time.Time]int, len(globalIndex))
	for i, week := range globalIndex {
		position[week] = i
	}

	values := make([][]float64, len(globalIndex))
	for i, week := range localIndex {
		if row, ok := position[week]; ok {
			values[row] = local[i]
		}
	}

	var last []float64
	for i := range values {
		if values[i] != nil {
			last = values[i]
			continue
		}
		if last != nil {
			values[i] = append([]float64(nil), last...)
		}
	}
	var next []float64
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			next = values[i]
			continue
		}
		if next != nil {
			values[i] = append([]float64(nil), next...)
		}
	}

	for i := range values {
		if values[i] == nil {
			row := make([]float64, width)
			row[otherSlot] = 1.0
			values[i] = row
		}
	}
	return values
}

// renormalize corrects drift introduced by fill and reindex so every row
// still sums to 1. Zero-sum rows keep the safe divisor and stay zero.
func renormalize(values [][]float64) {
	for _, row := range values {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
	}
}

func otherRows(rows, width, otherSlot int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		row := make([]float64, width)
		row[otherSlot] = 1.0
		out[i] = row
	}
	return out
}
