package transcript

import (
	"sort"
	"strings"
)

// minTitleLength is the shortest action item title the filter accepts.
const minTitleLength = 10

// FilterItems applies the business rules to a finalized item list:
// items with blank or too-short titles are dropped, duplicate titles
// (case-insensitive exact match) keep the first occurrence, and the result
// is ordered by descending priority then ascending due date with undated
// items last.
func FilterItems(items []ActionItem) []ActionItem {
	seen := make(map[string]bool, len(items))
	out := make([]ActionItem, 0, len(items))

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if len(title) < minTitleLength {
			continue
		}

		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.rank(), out[j].Priority.rank()
		if ri != rj {
			return ri < rj
		}
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil && dj == nil:
			return false
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})

	return out
}
