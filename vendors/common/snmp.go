package common

import (
	"fmt"
	"strings"
)

// GetSNMPResult looks up an OID in SNMP results regardless of the leading dot.
// gosnmp reports names as ".1.3.6..." while OID constants are written without it.
func GetSNMPResult(results map[string]interface{}, oid string) (interface{}, bool) {
	if results == nil {
		return nil, false
	}
	bare := strings.TrimPrefix(oid, ".")
	if val, ok := results["."+bare]; ok {
		return val, true
	}
	val, ok := results[bare]
	return val, ok
}

// ParseUint64SNMPValue extracts a uint64 from counter, gauge, integer or
// timeticks values. Negative numbers are rejected.
func ParseUint64SNMPValue(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case int:
		return uint64(v), v >= 0
	case int32:
		return uint64(v), v >= 0
	case int64:
		return uint64(v), v >= 0
	case float64:
		return uint64(v), v >= 0
	}
	return 0, false
}

// ParseStringSNMPValue extracts a string from an OctetString value.
func ParseStringSNMPValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

// FormatMAC renders a PhysAddress as colon-separated uppercase hex.
func FormatMAC(value interface{}) string {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ""
	}
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

// FormatTimeTicks renders hundredths of a second in RouterOS duration
// notation, e.g. 1w2d3h4m5s.
func FormatTimeTicks(ticks uint64) string {
	secs := ticks / 100
	if secs == 0 {
		return "0s"
	}
	units := []struct {
		suffix string
		size   uint64
	}{
		{"w", 7 * 24 * 3600},
		{"d", 24 * 3600},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	var b strings.Builder
	for _, u := range units {
		if n := secs / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			secs %= u.size
		}
	}
	return b.String()
}
