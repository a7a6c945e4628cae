package common

import "testing"

func TestMetadataString(t *testing.T) {
	meta := map[string]string{"snmp_community": "monitor", "empty": ""}

	tests := []struct {
		name string
		meta map[string]string
		keys []string
		want string
	}{
		{"nil map", nil, []string{"snmp_community"}, "public"},
		{"first key wins", meta, []string{"snmp_community", "community"}, "monitor"},
		{"fallback key", meta, []string{"community", "snmp_community"}, "monitor"},
		{"empty value skipped", meta, []string{"empty"}, "public"},
		{"missing", meta, []string{"community"}, "public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MetadataString(tt.meta, "public", tt.keys...); got != tt.want {
				t.Errorf("MetadataString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetadataInt(t *testing.T) {
	meta := map[string]string{"snmp_retries": "5", "bad": "five"}

	if got := MetadataInt(meta, 3, "snmp_retries"); got != 5 {
		t.Errorf("MetadataInt() = %d, want 5", got)
	}
	if got := MetadataInt(meta, 3, "bad", "snmp_retries"); got != 5 {
		t.Errorf("MetadataInt() with unparsable first key = %d, want 5", got)
	}
	if got := MetadataInt(nil, 3, "snmp_retries"); got != 3 {
		t.Errorf("MetadataInt(nil) = %d, want 3", got)
	}
}
