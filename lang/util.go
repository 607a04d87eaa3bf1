package lang

import (
	"maps"
	"slices"
	"strconv"
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
