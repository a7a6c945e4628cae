package api

import (
	"sort"
	"strings"

	"github.com/nanoncore/nano-routeros/types"
)

// buildSentence turns a command and its params into API words.
// Attribute words come first, then query words; each group is sorted by key.
func buildSentence(command string, params map[string]string) []string {
	words := []string{command}

	var attrs, queries []string
	for k := range params {
		if strings.HasPrefix(k, "?") {
			queries = append(queries, k)
		} else {
			attrs = append(attrs, k)
		}
	}
	sort.Strings(attrs)
	sort.Strings(queries)

	for _, k := range attrs {
		words = append(words, "="+k+"="+params[k])
	}
	for _, k := range queries {
		words = append(words, k+"="+params[k])
	}
	return words
}

// targetOf picks the entity a command addresses, for log fields.
func targetOf(params map[string]string) string {
	for _, k := range []string{".id", "?name", "name", "?user", "?.id"} {
		if v, ok := params[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// toRecords copies reply sentence maps into records.
func toRecords(maps []map[string]string) []types.Record {
	records := make([]types.Record, 0, len(maps))
	for _, m := range maps {
		rec := make(types.Record, len(m))
		for k, v := range m {
			rec[k] = v
		}
		records = append(records, rec)
	}
	return records
}
