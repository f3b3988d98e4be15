package geo

import "encoding/json"

// topologyJSON is the external form: ordered node names plus weighted edge
// triples.
type topologyJSON struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

func (t *Topology) MarshalJSON() ([]byte, error) {
	return json.Marshal(topologyJSON{Nodes: t.Nodes(), Edges: t.Edges()})
}

func (t *Topology) UnmarshalJSON(data []byte) error {
	var raw topologyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewTopology(raw.Nodes, raw.Edges)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}
