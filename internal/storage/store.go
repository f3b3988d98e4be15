package storage

import (
	"context"

	"flusignal/internal/model"
)

// Store persists computed pipeline outputs keyed by run ID. Persistence is
// an external collaborator of the core transform: the aggregators never
// touch a Store themselves.
type Store interface {
	Init(ctx context.Context) error
	SaveAnalyses(ctx context.Context, runID string, analyses []model.MutationAnalysis) error
	GetAnalyses(ctx context.Context, runID string) ([]model.MutationAnalysis, bool, error)
	SaveMatrix(ctx context.Context, runID string, matrix model.FrequencyMatrix) error
	GetMatrix(ctx context.Context, runID string) (model.FrequencyMatrix, bool, error)
	SaveTensor(ctx context.Context, runID string, tensor model.FrequencyTensor) error
	GetTensor(ctx context.Context, runID string) (model.FrequencyTensor, bool, error)
	SaveSummary(ctx context.Context, summary model.AggregateSummary) error
	GetSummary(ctx context.Context, runID string) (model.AggregateSummary, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
}
