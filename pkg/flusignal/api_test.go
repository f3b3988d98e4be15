package flusignal

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"flusignal/internal/model"
	"flusignal/internal/reference"
	"flusignal/internal/storage"
)

func batchRecord(id, country, date string, notations ...string) model.SequenceRecord {
	rec := model.SequenceRecord{ID: id, Country: country, CollectionDate: date}
	for _, n := range notations {
		rec.Mutations.Entries = append(rec.Mutations.Entries, model.FieldFromNotation(n))
	}
	return rec
}

func fullBatch() []model.SequenceRecord {
	return []model.SequenceRecord{
		batchRecord("r1", "Japan", "2024-01-01", "K145N"),
		batchRecord("r2", "Japan", "2024-01-02", "K145N"),
		batchRecord("r3", "China", "2024-01-08"),
		batchRecord("r4", "Brazil", "2024-01-03"),
		batchRecord("r5", "Japan", "not-a-date"),
	}
}

func TestRunEndToEnd(t *testing.T) {
	req := RunRequest{
		RunID:        "run-test",
		TopK:         2,
		SmoothWindow: 1,
		Spatial:      true,
	}

	result, err := Run(context.Background(), req, fullBatch())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID != "run-test" {
		t.Fatalf("run id = %q", result.RunID)
	}

	// WT appears three times, K145N twice.
	wantVocab := []string{"WT", "K145N"}
	if len(result.Vocabulary) != 2 || result.Vocabulary[0] != wantVocab[0] || result.Vocabulary[1] != wantVocab[1] {
		t.Fatalf("vocabulary = %v, want %v", result.Vocabulary, wantVocab)
	}

	if len(result.Matrix.Values) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(result.Matrix.Values))
	}
	week1 := result.Matrix.Values[0]
	want1 := []float64{1.0 / 3.0, 2.0 / 3.0, 0}
	for i := range want1 {
		if math.Abs(week1[i]-want1[i]) > 1e-9 {
			t.Fatalf("week 1 = %v, want %v", week1, want1)
		}
	}
	week2 := result.Matrix.Values[1]
	if week2[0] != 1.0 || week2[1] != 0 {
		t.Fatalf("week 2 = %v", week2)
	}

	tensor := result.Tensor
	if len(tensor.Dates) != 2 || len(tensor.Nodes) != 10 || len(tensor.Columns) != 3 {
		t.Fatalf("tensor shape = (%d, %d, %d)", len(tensor.Dates), len(tensor.Nodes), len(tensor.Columns))
	}

	summary := result.Summary
	if summary.Records != 5 || summary.Dropped != 1 || summary.Unassigned != 1 {
		t.Fatalf("summary accounting: %+v", summary)
	}
	if len(summary.EmptyNodes) != 8 {
		t.Fatalf("empty nodes = %v", summary.EmptyNodes)
	}
}

func TestRunGeneratesRunID(t *testing.T) {
	result, err := Run(context.Background(), RunRequest{}, fullBatch())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("blank request should generate a run ID")
	}
}

func TestRunPersistsToStore(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}

	req := RunRequest{RunID: "run-persist", TopK: 2, Spatial: true, Store: store}
	if _, err := Run(ctx, req, fullBatch()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok, err := store.GetMatrix(ctx, "run-persist"); !ok || err != nil {
		t.Fatalf("matrix not persisted: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetTensor(ctx, "run-persist"); !ok || err != nil {
		t.Fatalf("tensor not persisted: ok=%v err=%v", ok, err)
	}
	summary, ok, err := store.GetSummary(ctx, "run-persist")
	if !ok || err != nil {
		t.Fatalf("summary not persisted: ok=%v err=%v", ok, err)
	}
	if summary.SchemaVersion != storage.CurrentSchemaVersion {
		t.Fatalf("summary schema version = %d", summary.SchemaVersion)
	}
	// No detection was requested, so no analyses row exists.
	if _, ok, _ := store.GetAnalyses(ctx, "run-persist"); ok {
		t.Fatal("analyses should not be persisted without detection")
	}
}

func TestCheckColumns(t *testing.T) {
	result, err := Run(context.Background(), RunRequest{RunID: "run-cols", TopK: 2}, fullBatch())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := result.CheckColumns([]string{"WT", "K145N", "Other"}); err != nil {
		t.Fatalf("matching columns rejected: %v", err)
	}

	err = result.CheckColumns([]string{"K145N", "WT", "Other"})
	if !errors.Is(err, ErrColumnMismatch) {
		t.Fatalf("reordered columns should mismatch, got %v", err)
	}
	err = result.CheckColumns([]string{"WT"})
	if !errors.Is(err, ErrColumnMismatch) {
		t.Fatalf("short column list should mismatch, got %v", err)
	}
}

// detectionCodons covers the residues of the reference prefix used below.
var detectionCodons = map[byte]string{
	'F': "TTT", 'L': "TTA", 'S': "TCT", 'Y': "TAT", 'C': "TGT",
	'W': "TGG", 'P': "CCT", 'H': "CAT", 'Q': "CAA", 'R': "CGT",
	'I': "ATT", 'M': "ATG", 'T': "ACT", 'N': "AAT", 'K': "AAA",
	'V': "GTT", 'A': "GCT", 'D': "GAT", 'E': "GAA", 'G': "GGT",
}

func nucleotidesFor(t *testing.T, aa string) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < len(aa); i++ {
		codon, ok := detectionCodons[aa[i]]
		if !ok {
			t.Fatalf("no codon for residue %c", aa[i])
		}
		b.WriteString(codon)
	}
	return b.String()
}

func TestRunWithDetection(t *testing.T) {
	refAA := reference.H3N2HA.Sequence

	mutated := []byte(refAA[:80])
	original := mutated[40]
	replacement := byte('W')
	if original == 'W' {
		replacement = 'Y'
	}
	mutated[40] = replacement

	records := []model.SequenceRecord{
		{ID: "d1", Country: "Japan", CollectionDate: "2024-01-01", RawSequence: nucleotidesFor(t, refAA[:80])},
		{ID: "d2", Country: "Japan", CollectionDate: "2024-01-02", RawSequence: nucleotidesFor(t, string(mutated))},
	}

	req := RunRequest{RunID: "run-detect", DetectMutations: true, TopK: 2, SmoothWindow: 1}
	result, err := Run(context.Background(), req, records)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(result.Analyses))
	}
	if result.Analyses[0].TotalMutations != 0 {
		t.Fatalf("clean sequence reported mutations: %+v", result.Analyses[0])
	}
	if result.Analyses[1].TotalMutations != 1 {
		t.Fatalf("mutated sequence analysis: %+v", result.Analyses[1])
	}
	if result.Analyses[1].SchemaVersion != storage.CurrentSchemaVersion {
		t.Fatalf("analysis not version-stamped: %+v", result.Analyses[1].VersionedRecord)
	}

	wantNotation := string(original) + "41" + string(replacement)
	found := false
	for _, sig := range result.Vocabulary {
		if sig == wantNotation {
			found = true
		}
	}
	if !found {
		t.Fatalf("vocabulary %v missing detected signature %q", result.Vocabulary, wantNotation)
	}

	if got := MutationSummary(result.Analyses[1]); !strings.Contains(got, "1 total mutation") {
		t.Fatalf("MutationSummary = %q", got)
	}
}
