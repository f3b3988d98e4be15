package model

import (
	"fmt"
	"time"
)

// VersionedRecord captures schema and codec evolution for persisted rows.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SequenceRecord is one raw sample as delivered by ingestion. The pipeline
// attaches derived fields (TranslatedAA, Signature) and never rewrites the
// source fields.
type SequenceRecord struct {
	ID             string            `json:"id"`
	StrainName     string            `json:"strain_name,omitempty"`
	RawSequence    string            `json:"raw_sequence,omitempty"`
	CollectionDate string            `json:"collection_date"`
	Country        string            `json:"country,omitempty"`
	Location       map[string]string `json:"location,omitempty"`
	Mutations      MutationList      `json:"mutations,omitempty"`

	TranslatedAA string `json:"translated_aa,omitempty"`
	Signature    string `json:"variant_signature,omitempty"`
}

// Mutation is a single amino-acid substitution relative to the reference,
// 1-indexed on the full reference sequence. Immutable once computed.
type Mutation struct {
	Position      int    `json:"position"`
	ReferenceAA   string `json:"reference_aa"`
	VariantAA     string `json:"variant_aa"`
	Notation      string `json:"mutation_notation"`
	AntigenicSite string `json:"antigenic_site,omitempty"`
	Escape        bool   `json:"is_escape_mutation"`
	Novel         bool   `json:"is_novel"`
}

// NewMutation fills the standard notation, e.g. K145N.
func NewMutation(position int, referenceAA, variantAA string) Mutation {
	return Mutation{
		Position:    position,
		ReferenceAA: referenceAA,
		VariantAA:   variantAA,
		Notation:    fmt.Sprintf("%s%d%s", referenceAA, position, variantAA),
	}
}

// MutationAnalysis is the per-record output of mutation detection, shaped
// like the rows the storage layer persists.
type MutationAnalysis struct {
	VersionedRecord
	SequenceID         string     `json:"sequence_id"`
	StrainName         string     `json:"strain_name,omitempty"`
	TotalMutations     int        `json:"total_mutations"`
	AntigenicMutations int        `json:"antigenic_mutations"`
	EscapeMutations    int        `json:"escape_mutations"`
	NovelMutations     int        `json:"novel_mutations"`
	Mutations          []Mutation `json:"mutations"`
}

// FrequencyMatrix is a weekly variant-frequency table. Values has one row per
// date and one column per vocabulary entry plus the trailing "Other" column.
// Every row sums to 1.0 within tolerance except the documented zero-data case.
type FrequencyMatrix struct {
	VersionedRecord
	Dates   []time.Time `json:"dates"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// FrequencyTensor stacks one weekly matrix per geographic node in
// (time, node, variant) order. Node order matches the graph topology.
type FrequencyTensor struct {
	VersionedRecord
	Dates   []time.Time   `json:"dates"`
	Nodes   []string      `json:"nodes"`
	Columns []string      `json:"columns"`
	Values  [][][]float64 `json:"values"`
}

// AggregateSummary reports the degraded and skipped portions of a batch so
// callers can surface them instead of losing them silently.
type AggregateSummary struct {
	VersionedRecord
	RunID       string   `json:"run_id"`
	Records     int      `json:"records"`
	Dropped     int      `json:"dropped_dates"`
	ZeroSumRows int      `json:"zero_sum_rows"`
	Unassigned  int      `json:"unassigned_records"`
	EmptyNodes  []string `json:"empty_nodes,omitempty"`
}
