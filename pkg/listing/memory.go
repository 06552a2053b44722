package listing

import (
	"slices"
	"strings"
)

// Fields describes how to read a T for in-memory evaluation.
type Fields[T any] struct {
	// Search fields are matched case-insensitively by substring.
	Search []func(T) string
	// Filters map a filter key to the values an item carries for it. An
	// item matches when any of its values equals the filter value.
	Filters map[string]func(T) []string
	// Sorts map a sort key to a comparison function.
	Sorts       map[string]func(a, b T) int
	DefaultSort string
}

// FilterKeys lists the filter keys accepted by f, for ParseQuery.
func (f Fields[T]) FilterKeys() []string {
	keys := make([]string, 0, len(f.Filters))
	for k := range f.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Apply returns the items matching q, sorted. All predicates AND together.
// Filter keys unknown to f are ignored. The input slice is not modified.
func Apply[T any](items []T, q Query, f Fields[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle, f.Search) {
			continue
		}
		if !matchesFilters(item, q.Filters, f.Filters) {
			continue
		}
		out = append(out, item)
	}

	sortKey := q.Sort
	if _, ok := f.Sorts[sortKey]; !ok {
		sortKey = f.DefaultSort
	}
	if cmp, ok := f.Sorts[sortKey]; ok {
		if q.Order == Desc {
			slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
		} else {
			slices.SortStableFunc(out, cmp)
		}
	}

	return out
}

// Paginate cuts the page described by q out of items and returns it with
// the total number of items.
func Paginate[T any](items []T, q Query) ([]T, int64) {
	total := int64(len(items))
	offset := q.Offset()
	if offset < 0 || offset >= len(items) {
		return []T{}, total
	}
	end := offset + q.Normalize().Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total
}

func matchesSearch[T any](item T, needle string, fields []func(T) string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](item T, want map[string]string, fields map[string]func(T) []string) bool {
	for key, value := range want {
		field, ok := fields[key]
		if !ok || value == "" {
			continue
		}
		if !slices.Contains(field(item), value) {
			return false
		}
	}
	return true
}
