package archive

import (
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"example.com.", "json", "dns-dumps/example.com-20260314-092653.json"},
		{"Example.COM", "yaml", "dns-dumps/example.com-20260314-092653.yaml"},
		{"zones", "csv", "dns-dumps/zones-20260314-092653.csv"},
		{"", "json", "dns-dumps/dump-20260314-092653.json"},
		{"my zone/thing", "txt", "dns-dumps/my-zone-thing-20260314-092653.json"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.name, tt.format, at); got != tt.want {
			t.Errorf("objectKey(%q, %q) = %q, want %q", tt.name, tt.format, got, tt.want)
		}
	}
}

func TestExtractDumpName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"dns-dumps/example.com-20260314-092653.json", "example.com"},
		{"dns-dumps/zones-20251231-235959.csv", "zones"},
		{"prefix/dns-dumps/sub.example.org-20260101-000000.yaml", "sub.example.org"},
		{"dns-dumps/no-timestamp-here.json", "no-timestamp-here"},
		{"plainfile.json", "plainfile"},
	}
	for _, tt := range tests {
		if got := extractDumpName(tt.key); got != tt.want {
			t.Errorf("extractDumpName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestExtensionAndContentType(t *testing.T) {
	if got := extension("YAML"); got != "yaml" {
		t.Errorf("extension(YAML) = %q", got)
	}
	if got := extension("unknown"); got != "json" {
		t.Errorf("extension falls back to json, got %q", got)
	}
	if got := contentType("csv"); got != "text/csv" {
		t.Errorf("contentType(csv) = %q", got)
	}
}
