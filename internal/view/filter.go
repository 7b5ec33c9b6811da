package view

import "strings"

// Filter keeps items where any of the selected fields contains query, ignoring case.
// An empty query keeps everything. The input slice is not modified.
func Filter[T any](items []T, query string, fields ...func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q == "" || matches(item, q, fields) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, q string, fields []func(T) string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(item)), q) {
			return true
		}
	}
	return false
}
