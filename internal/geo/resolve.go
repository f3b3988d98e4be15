package geo

import (
	"strings"

	"flusignal/internal/model"
)

// Resolver assigns records to topology nodes. The strain-name cache is owned
// by the resolver instance rather than a process-wide singleton so parallel
// aggregations stay side-effect free.
type Resolver struct {
	topology *Topology
	cache    map[string]string
}

// NewResolver builds a resolver over a topology.
func NewResolver(topology *Topology) *Resolver {
	return &Resolver{
		topology: topology,
		cache:    make(map[string]string),
	}
}

// NodeFor assigns a record to a node: exact match on the country field, then
// the nested location country, then conventional strain-name patterns
// ("/<Node>/" anywhere or the "A/<Node>" prefix). ok is false when nothing
// matches; such records are excluded from spatial aggregation only.
func (r *Resolver) NodeFor(rec model.SequenceRecord) (string, bool) {
	if _, ok := r.topology.NodeIndex(rec.Country); ok {
		return rec.Country, true
	}
	if country, ok := rec.Location["country"]; ok {
		if _, known := r.topology.NodeIndex(country); known {
			return country, true
		}
	}
	return r.nodeFromStrainName(rec.StrainName)
}

func (r *Resolver) nodeFromStrainName(strain string) (string, bool) {
	if strain == "" {
		return "", false
	}
	if node, hit := r.cache[strain]; hit {
		return node, node != ""
	}

	matched := ""
	for _, node := range r.topology.nodes {
		if strings.Contains(strain, "/"+node+"/") || strings.HasPrefix(strain, "A/"+node) {
			matched = node
			break
		}
	}
	r.cache[strain] = matched
	return matched, matched != ""
}
