// Package strings holds small string-list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits s on sep, trims each element and drops empty and repeated
// entries. Order is preserved.
//
//	SplitList(" kafka-1:9092, kafka-2:9092,kafka-1:9092,", ",")
//	// []string{"kafka-1:9092", "kafka-2:9092"}
func SplitList(s, sep string) []string {
	return DedupeAndTrim(strings.Split(s, sep))
}

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
