package main

import (
	"encoding/json"
	"fmt"
	"os"

	"flusignal/internal/geo"
	"flusignal/internal/model"
)

func loadRecords(path string) ([]model.SequenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.SequenceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return records, nil
}

func loadKnownMutations(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var known []string
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, fmt.Errorf("parse known mutations %s: %w", path, err)
	}
	return known, nil
}

func loadTopology(path string) (*geo.Topology, error) {
	if path == "" {
		return geo.DefaultAsiaTopology(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var topology geo.Topology
	if err := json.Unmarshal(data, &topology); err != nil {
		return nil, fmt.Errorf("parse topology %s: %w", path, err)
	}
	return &topology, nil
}

// writeJSON writes v to path, or to stdout when path is "-" or empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
