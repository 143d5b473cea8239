package utils

import "strings"

// Dedupe returns items without blanks and repeats, keeping first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// SplitList splits a comma separated flag value and dedupes the parts.
func SplitList(s string) []string {
	return Dedupe(strings.Split(s, ","))
}
