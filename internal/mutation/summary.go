package mutation

import (
	"fmt"
	"strings"

	"flusignal/internal/model"
)

// Summary renders a short human-readable account of a mutation list.
func Summary(mutations []model.Mutation) string {
	if len(mutations) == 0 {
		return "No mutations detected"
	}

	antigenic := 0
	escape := 0
	for _, m := range mutations {
		if m.AntigenicSite != "" {
			antigenic++
		}
		if m.Escape {
			escape++
		}
	}

	parts := []string{fmt.Sprintf("%d total mutations", len(mutations))}
	if antigenic > 0 {
		parts = append(parts, fmt.Sprintf("%d at antigenic sites", antigenic))
	}
	if escape > 0 {
		parts = append(parts, fmt.Sprintf("%d known escape mutations", escape))
	}
	return strings.Join(parts, ", ")
}
