// Package locations derives the set of distinct location names from a
// memory snapshot and matches partial names for autocomplete.
//
// Location identity is structural equality of trimmed, case-sensitive
// strings; no normalization is performed. All matching logic lives here so
// a future canonicalization pass stays a localized change. Suggest is
// advisory only: it helps keep free-text names consistent at entry time
// but cannot merge names that have already diverged.
package locations

import (
	"sort"
	"strings"

	"github.com/fernvale/murmur/internal/models"
)

// All returns the sorted distinct non-empty location and destination
// values across the snapshot.
func All(memories []models.Memory) []string {
	seen := make(map[string]struct{})
	for _, m := range memories {
		if m.Location != "" {
			seen[m.Location] = struct{}{}
		}
		if m.Destination != "" {
			seen[m.Destination] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Suggest returns locations whose name contains partial, case-insensitive.
// Substring rather than prefix matching tolerates partial recall of
// multi-word names. An empty partial yields no suggestions.
func Suggest(memories []models.Memory, partial string) []string {
	if partial == "" {
		return nil
	}
	needle := strings.ToLower(partial)
	var out []string
	for _, loc := range All(memories) {
		if strings.Contains(strings.ToLower(loc), needle) {
			out = append(out, loc)
		}
	}
	return out
}
