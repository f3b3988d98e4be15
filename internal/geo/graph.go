// Package geo aggregates classified records per node of a fixed geographic
// travel-adjacency graph and stacks the results into a time-node-variant
// tensor.
package geo

import "fmt"

// Edge is a weighted undirected connection between two named nodes.
// Weights live in (0, 1].
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Topology is an immutable weighted graph over geographic nodes. Node order
// is fixed at construction and is a cross-component contract with
// graph-structured downstream consumers.
type Topology struct {
	nodes []string
	index map[string]int
	edges []Edge
}

// NewTopology validates the node list and edge weights and builds an
// immutable topology.
func NewTopology(nodes []string, edges []Edge) (*Topology, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("topology requires at least one node")
	}

	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		if node == "" {
			return nil, fmt.Errorf("empty node name at position %d", i)
		}
		if _, dup := index[node]; dup {
			return nil, fmt.Errorf("duplicate node: %s", node)
		}
		index[node] = i
	}

	for _, edge := range edges {
		if _, ok := index[edge.From]; !ok {
			return nil, fmt.Errorf("edge references unknown node: %s", edge.From)
		}
		if _, ok := index[edge.To]; !ok {
			return nil, fmt.Errorf("edge references unknown node: %s", edge.To)
		}
		if edge.Weight <= 0 || edge.Weight > 1 {
			return nil, fmt.Errorf("edge %s-%s weight %v outside (0,1]", edge.From, edge.To, edge.Weight)
		}
	}

	return &Topology{
		nodes: append([]string(nil), nodes...),
		index: index,
		edges: append([]Edge(nil), edges...),
	}, nil
}

// Nodes returns the node names in canonical order.
func (t *Topology) Nodes() []string {
	return append([]string(nil), t.nodes...)
}

// Edges returns the undirected edge list.
func (t *Topology) Edges() []Edge {
	return append([]Edge(nil), t.edges...)
}

// NodeIndex returns a node's position in canonical order.
func (t *Topology) NodeIndex(node string) (int, bool) {
	i, ok := t.index[node]
	return i, ok
}

// AdjacencyMatrix renders the symmetric weighted adjacency over canonical
// node order.
func (t *Topology) AdjacencyMatrix() [][]float64 {
	adj := make([][]float64, len(t.nodes))
	for i := range adj {
		adj[i] = make([]float64, len(t.nodes))
	}
	for _, edge := range t.edges {
		i := t.index[edge.From]
		j := t.index[edge.To]
		adj[i][j] = edge.Weight
		adj[j][i] = edge.Weight
	}
	return adj
}

// DefaultAsiaTopology is the built-in simplified travel/proximity graph over
// ten Asian countries. Weights: 1.0 direct/high volume, mid-range regional,
// low distant.
func DefaultAsiaTopology() *Topology {
	topo, err := NewTopology(
		[]string{
			"China", "Japan", "South Korea",
			"Singapore", "Thailand", "Vietnam",
			"Indonesia", "India", "Malaysia", "Philippines",
		},
		[]Edge{
			{From: "China", To: "Japan", Weight: 1.0},
			{From: "China", To: "South Korea", Weight: 1.0},
			{From: "China", To: "Thailand", Weight: 0.8},
			{From: "Japan", To: "South Korea", Weight: 1.0},
			{From: "Singapore", To: "Thailand", Weight: 0.9},
			{From: "Singapore", To: "Indonesia", Weight: 0.9},
			{From: "Singapore", To: "Malaysia", Weight: 1.0},
			{From: "Malaysia", To: "Thailand", Weight: 0.8},
			{From: "Thailand", To: "Vietnam", Weight: 0.7},
			{From: "Vietnam", To: "China", Weight: 0.6},
			{From: "India", To: "Singapore", Weight: 0.6},
			{From: "Philippines", To: "Singapore", Weight: 0.6},
		},
	)
	if err != nil {
		panic(err)
	}
	return topo
}
