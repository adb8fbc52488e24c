package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// JoinInts renders ints as a comma separated list, e.g. "1,3,5".
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// SplitInts parses a comma separated list produced by JoinInts. Blank input
// yields an empty slice.
func SplitInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in list: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
