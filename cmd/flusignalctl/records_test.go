package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"flusignal/internal/geo"
)

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	payload := `[
		{"id": "s1", "strain_name": "A/Japan/101/2024", "collection_date": "2024-01-01", "mutations": ["K145N"]},
		{"id": "s2", "collection_date": "2024-01-08", "mutations": []}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := loadRecords(path)
	if err != nil {
		t.Fatalf("loadRecords: %v", err)
	}
	if len(records) != 2 || records[0].ID != "s1" {
		t.Fatalf("records = %+v", records)
	}
	if len(records[0].Mutations.Entries) != 1 {
		t.Fatalf("mutations not parsed: %+v", records[0].Mutations)
	}

	if _, err := loadRecords(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadTopology(t *testing.T) {
	topo, err := loadTopology("")
	if err != nil {
		t.Fatalf("default topology: %v", err)
	}
	if len(topo.Nodes()) != 10 {
		t.Fatalf("default topology has %d nodes", len(topo.Nodes()))
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	custom := `{"nodes":["A","B"],"edges":[{"from":"A","to":"B","weight":0.5}]}`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	topo, err = loadTopology(path)
	if err != nil {
		t.Fatalf("loadTopology: %v", err)
	}
	if len(topo.Nodes()) != 2 || len(topo.Edges()) != 1 {
		t.Fatalf("custom topology = %v / %v", topo.Nodes(), topo.Edges())
	}
}

func TestWriteJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeJSON(path, geo.DefaultAsiaTopology()); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var topo geo.Topology
	if err := json.Unmarshal(data, &topo); err != nil {
		t.Fatalf("written JSON does not parse: %v", err)
	}
	if len(topo.Nodes()) != 10 {
		t.Fatalf("round trip lost nodes: %v", topo.Nodes())
	}
}
