package pool

import (
	"sort"
	"strings"

	"esanspool/internal/domain/entity"
)

// StatusFilter selects essences by derived purchase status.
type StatusFilter string

const (
	// FilterAll applies no status predicate.
	FilterAll StatusFilter = "all"
	// FilterConfirmed keeps essences whose pooled demand reached the target.
	FilterConfirmed StatusFilter = "confirmed"
	// FilterUnderTarget keeps essences still below the target ("250gr Altı").
	FilterUnderTarget StatusFilter = "under250"
	// FilterOutOfStock keeps essences whose stock equals pooled demand ("Bitenler").
	FilterOutOfStock StatusFilter = "outOfStock"
)

// Query is the catalog filter: free-text term matched against name or code
// (case-insensitive substring), exact category, and a status predicate.
// Zero values ("" / FilterAll) disable the respective predicate.
type Query struct {
	Term     string
	Category string
	Status   StatusFilter
}

// Filter returns the essences matching every predicate of the query,
// preserving input order.
func Filter(essences []*entity.Essence, q Query) []*entity.Essence {
	term := strings.ToLower(q.Term)

	matched := make([]*entity.Essence, 0, len(essences))
	for _, e := range essences {
		if term != "" &&
			!strings.Contains(strings.ToLower(e.Name), term) &&
			!strings.Contains(strings.ToLower(e.Code), term) {
			continue
		}
		if q.Category != "" && q.Category != "all" && e.Category != q.Category {
			continue
		}
		if !matchesStatus(e, q.Status) {
			continue
		}
		matched = append(matched, e)
	}

	return matched
}

func matchesStatus(e *entity.Essence, status StatusFilter) bool {
	switch status {
	case FilterConfirmed:
		return ReachedTarget(e)
	case FilterUnderTarget:
		return !ReachedTarget(e)
	case FilterOutOfStock:
		return IsExhausted(e)
	default:
		return true
	}
}

// Categories returns the distinct non-empty categories of the catalog,
// sorted, for populating the category filter.
func Categories(essences []*entity.Essence) []string {
	seen := make(map[string]struct{})
	for _, e := range essences {
		if e.Category != "" {
			seen[e.Category] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return categories
}
