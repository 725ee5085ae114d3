package fileloader

import (
	"fmt"
	"strings"
)

// NormalizeHeaders replaces empty or whitespace-only headers with a
// synthesized name ColumnN, where N is the 1-based column number, and makes
// duplicate names unique by suffixing _2, _3, ... to later occurrences.
// Non-empty headers are otherwise preserved as-is.
//
// Example:
//
//	Input:  ["name", "", "age", "name"]
//	Output: ["name", "Column2", "age", "name_2"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Column%d", i+1)
		}
		if n, dup := seen[h]; dup {
			candidate := h
			for {
				n++
				candidate = fmt.Sprintf("%s_%d", h, n)
				if _, taken := seen[candidate]; !taken {
					break
				}
			}
			seen[h] = n
			h = candidate
		}
		seen[h] = 1
		normalized[i] = h
	}

	return normalized
}

// allBlank reports whether every field is empty.
func allBlank(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}

// recordToMap maps a record onto the headers. Missing trailing fields become
// "" and fields beyond the header count are dropped.
func recordToMap(header []string, record []string) map[string]string {
	data := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(record) {
			data[h] = record[i]
		} else {
			data[h] = ""
		}
	}
	return data
}
