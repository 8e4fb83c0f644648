package request

import (
	"sort"
	"strconv"
)

// hostOrder returns keys in the order the browser host enumerates object
// properties: array-index keys first in ascending numeric order, then every
// other key in insertion order.
func hostOrder(keys []string) []string {
	out := make([]string, 0, len(keys))
	var indices []string
	for _, key := range keys {
		if isArrayIndex(key) {
			indices = append(indices, key)
			continue
		}
		out = append(out, key)
	}
	if len(indices) == 0 {
		return out
	}
	sort.Slice(indices, func(i, j int) bool {
		a, _ := strconv.ParseUint(indices[i], 10, 32)
		b, _ := strconv.ParseUint(indices[j], 10, 32)
		return a < b
	})
	return append(indices, out...)
}

// isArrayIndex reports canonical unsigned integers below 2^32-1.
func isArrayIndex(key string) bool {
	if key == "" || len(key) > 10 {
		return false
	}
	if len(key) > 1 && key[0] == '0' {
		return false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return false
	}
	return n < 1<<32-1
}
