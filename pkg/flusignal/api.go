// Package flusignal turns raw viral genome samples into normalized, time-
// and geography-indexed variant frequency signals for downstream forecasting
// models. The pipeline is a deterministic in-memory transform: ingestion
// supplies records, storage persists outputs, both stay outside the core.
package flusignal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"flusignal/internal/geo"
	"flusignal/internal/model"
	"flusignal/internal/mutation"
	"flusignal/internal/reference"
	"flusignal/internal/storage"
	"flusignal/internal/timeseries"
	"flusignal/internal/variant"
)

// RunRequest configures one pipeline run over a batch of records.
type RunRequest struct {
	// RunID keys persisted outputs; generated when empty.
	RunID string
	// TopK bounds the fitted variant vocabulary (default 5).
	TopK int
	// SmoothWindow is the trailing rolling-mean width (default 3).
	SmoothWindow int
	// AlignmentWindow is the anchor length for offset search (default 20).
	AlignmentWindow int
	// KnownMutations suppress novelty flags; empty means everything is novel.
	KnownMutations []string
	// DetectMutations runs the mutation caller over raw sequences instead of
	// trusting pre-supplied mutation lists.
	DetectMutations bool
	// Spatial additionally aggregates per node of Topology.
	Spatial bool
	// Topology overrides the built-in Asia graph.
	Topology *geo.Topology
	// Store, when set, receives the run's outputs. It must be initialized
	// by the caller.
	Store storage.Store
}

// RunResult is everything a run computes. Tensor is only populated for
// spatial runs.
type RunResult struct {
	RunID      string
	Analyses   []model.MutationAnalysis
	Vocabulary []string
	Matrix     model.FrequencyMatrix
	Tensor     model.FrequencyTensor
	Summary    model.AggregateSummary
}

// ErrColumnMismatch reports disagreement between a consumer's expected
// variant column order and the fitted vocabulary.
var ErrColumnMismatch = errors.New("variant column order mismatch")

// Run executes the pipeline: mutation detection (optional), signature
// classification, vocabulary fit, temporal aggregation, and optionally
// spatial aggregation. Per-record failures degrade into summary counts and
// never abort the batch.
func Run(ctx context.Context, req RunRequest, records []model.SequenceRecord) (RunResult, error) {
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	detector := mutation.NewDetector(reference.H3N2HA, req.KnownMutations,
		mutation.WithAlignmentWindow(req.AlignmentWindow))

	versioned := model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}

	classified := make([]model.SequenceRecord, 0, len(records))
	var analyses []model.MutationAnalysis
	for _, rec := range records {
		if req.DetectMutations && rec.RawSequence != "" {
			analysis := detector.Analyze(rec)
			analysis.VersionedRecord = versioned
			analyses = append(analyses, analysis)

			rec.TranslatedAA = reference.Translate(rec.RawSequence)
			rec.Signature = variant.SignatureOfMutations(analysis.Mutations)
		} else {
			rec.Signature = variant.SignatureOf(rec)
		}
		classified = append(classified, rec)
	}

	signatures := make([]string, len(classified))
	for i, rec := range classified {
		signatures[i] = rec.Signature
	}
	vocab := variant.Fit(signatures, req.TopK)

	temporal := timeseries.AggregateWeekly(classified, vocab, req.SmoothWindow)
	temporal.Matrix.VersionedRecord = versioned

	result := RunResult{
		RunID:      runID,
		Analyses:   analyses,
		Vocabulary: vocab.Signatures(),
		Matrix:     temporal.Matrix,
	}

	summary := model.AggregateSummary{
		VersionedRecord: versioned,
		RunID:           runID,
		Records:         len(records),
		Dropped:         temporal.Dropped,
		ZeroSumRows:     temporal.ZeroSum,
	}

	if req.Spatial {
		topology := req.Topology
		if topology == nil {
			topology = geo.DefaultAsiaTopology()
		}
		spatial := geo.AggregateSpatial(classified, vocab, topology, req.SmoothWindow)
		spatial.Tensor.VersionedRecord = versioned
		result.Tensor = spatial.Tensor
		summary.Unassigned = spatial.Unassigned
		summary.EmptyNodes = spatial.EmptyNodes
		summary.ZeroSumRows += spatial.ZeroSum
	}

	result.Summary = summary

	if req.Store != nil {
		if err := persist(ctx, req.Store, result, req.Spatial); err != nil {
			return RunResult{}, fmt.Errorf("persist run %s: %w", runID, err)
		}
	}
	return result, nil
}

// CheckColumns verifies that a consumer's expected column order matches the
// fitted vocabulary plus the trailing Other bucket. Consumers trained on one
// vocabulary must not silently read tensors built from another.
func (r RunResult) CheckColumns(expected []string) error {
	columns := r.Matrix.Columns
	if len(expected) != len(columns) {
		return fmt.Errorf("%w: expected %d columns, have %d", ErrColumnMismatch, len(expected), len(columns))
	}
	for i, column := range columns {
		if expected[i] != column {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrColumnMismatch, i, column, expected[i])
		}
	}
	return nil
}

func persist(ctx context.Context, store storage.Store, result RunResult, spatial bool) error {
	if len(result.Analyses) > 0 {
		if err := store.SaveAnalyses(ctx, result.RunID, result.Analyses); err != nil {
			return err
		}
	}
	if err := store.SaveMatrix(ctx, result.RunID, result.Matrix); err != nil {
		return err
	}
	if spatial {
		if err := store.SaveTensor(ctx, result.RunID, result.Tensor); err != nil {
			return err
		}
	}
	return store.SaveSummary(ctx, result.Summary)
}

// MutationSummary renders the human-readable account of one analysis.
func MutationSummary(analysis model.MutationAnalysis) string {
	return mutation.Summary(analysis.Mutations)
}
