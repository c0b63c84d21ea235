// Package memstore holds in-memory implementations of every store. The
// server uses them when DB_DRIVER=memory, and tests use them throughout.
// Values are copied in and out so callers never share state with the store.
package memstore

import (
	"sort"
	"time"

	"bhraman/utils"
)

// page applies skip/limit to an already filtered and sorted slice. A zero
// limit returns everything after the skip.
func page[T any](items []T, opts utils.QueryOptions) []T {
	start := int(opts.Skip())
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return items[start:end]
}

func newestFirst[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

func matchesAny(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, f := range fields {
		if utils.ContainsIgnoreCase(f, search) {
			return true
		}
	}
	return false
}
