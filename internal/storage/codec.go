package storage

import (
	"encoding/json"
	"errors"

	"flusignal/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeAnalyses(analyses []model.MutationAnalysis) ([]byte, error) {
	return json.Marshal(analyses)
}

func DecodeAnalyses(data []byte) ([]model.MutationAnalysis, error) {
	var analyses []model.MutationAnalysis
	if err := json.Unmarshal(data, &analyses); err != nil {
		return nil, err
	}
	for _, analysis := range analyses {
		if err := checkVersion(analysis.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return analyses, nil
}

func EncodeMatrix(matrix model.FrequencyMatrix) ([]byte, error) {
	return json.Marshal(matrix)
}

func DecodeMatrix(data []byte) (model.FrequencyMatrix, error) {
	var matrix model.FrequencyMatrix
	if err := json.Unmarshal(data, &matrix); err != nil {
		return model.FrequencyMatrix{}, err
	}
	if err := checkVersion(matrix.VersionedRecord); err != nil {
		return model.FrequencyMatrix{}, err
	}
	return matrix, nil
}

func EncodeTensor(tensor model.FrequencyTensor) ([]byte, error) {
	return json.Marshal(tensor)
}

func DecodeTensor(data []byte) (model.FrequencyTensor, error) {
	var tensor model.FrequencyTensor
	if err := json.Unmarshal(data, &tensor); err != nil {
		return model.FrequencyTensor{}, err
	}
	if err := checkVersion(tensor.VersionedRecord); err != nil {
		return model.FrequencyTensor{}, err
	}
	return tensor, nil
}

func EncodeSummary(summary model.AggregateSummary) ([]byte, error) {
	return json.Marshal(summary)
}

func DecodeSummary(data []byte) (model.AggregateSummary, error) {
	var summary model.AggregateSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.AggregateSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.AggregateSummary{}, err
	}
	return summary, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
