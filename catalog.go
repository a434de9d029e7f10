package sidekick

import "strings"

var specializedMarkers = []string{"db", "sql", "math", "embedding"}

// Categorize groups model identifiers into coding, specialized, and
// general buckets by keyword, the way a human scanning the model list
// would. Every identifier lands in exactly one bucket.
func Categorize(models []ModelInfo, recommended string) ModelCatalog {
	catalog := ModelCatalog{Recommended: recommended}

	for _, m := range models {
		id := strings.ToLower(m.ID)

		if recommended != "" && strings.Contains(m.ID, recommended) {
			catalog.RecommendedAvailable = true
		}

		switch {
		case strings.Contains(id, "code") || strings.Contains(id, "coder"):
			catalog.Coding = append(catalog.Coding, m.ID)
		case containsAny(id, specializedMarkers):
			catalog.Specialized = append(catalog.Specialized, m.ID)
		default:
			catalog.General = append(catalog.General, m.ID)
		}
	}
	return catalog
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
