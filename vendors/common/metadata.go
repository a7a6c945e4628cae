package common

import "strconv"

// MetadataString returns the first of keys present in meta, or fallback.
func MetadataString(meta map[string]string, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := meta[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}

// MetadataInt returns the first of keys that parses as an integer, or fallback.
func MetadataInt(meta map[string]string, fallback int, keys ...string) int {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return fallback
}
