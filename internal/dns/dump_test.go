package dns

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDumpZones(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gw := newFakeGateway(Zone{
		DNSName:     "example.com.",
		Name:        "example-com",
		Description: "test",
		Created:     created,
		NameServers: []string{"ns1.example.", "ns2.example."},
	})
	gw.records["example.com."] = []RecordSet{
		{Name: "a.example.com.", Type: "A", TTL: 300, Data: []string{"1.2.3.4"}},
	}

	exports, err := DumpZones(context.Background(), gw, true)
	if err != nil {
		t.Fatalf("dump zones: %v", err)
	}
	if len(exports) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(exports))
	}
	if exports[0].Created != "2024-03-01T12:00:00Z" {
		t.Errorf("created = %q", exports[0].Created)
	}
	if len(exports[0].Records) != 1 || exports[0].Records[0].Type != "A" {
		t.Errorf("record summary missing: %+v", exports[0].Records)
	}

	// Without --records no per-zone listing happens.
	exports, err = DumpZones(context.Background(), gw, false)
	if err != nil {
		t.Fatalf("dump zones: %v", err)
	}
	if len(exports[0].Records) != 0 {
		t.Errorf("unexpected record summary: %+v", exports[0].Records)
	}
}

func TestEncodeZoneDumpCSV(t *testing.T) {
	zones := []ZoneExport{{
		DNSName:     "example.com.",
		Name:        "example-com",
		Created:     "2024-03-01T12:00:00Z",
		Description: "test",
		NameServers: []string{"ns1.example.", "ns2.example."},
		Records:     []RecordInfo{{Name: "a.example.com.", Type: "A"}},
	}}
	payload, err := EncodeZoneDump(zones, "csv")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if lines[0] != "dns_name,name,created,description,name_servers,zone_records" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ns1.example.|ns2.example.") {
		t.Errorf("name servers not |-joined: %q", lines[1])
	}
	if !strings.Contains(lines[1], "A:a.example.com.") {
		t.Errorf("zone records not TYPE:name encoded: %q", lines[1])
	}
}

func TestEncodeRecordDumpFormats(t *testing.T) {
	records := []RecordSet{
		{Name: "a.example.com.", Type: "A", TTL: 300, Data: []string{"1.2.3.4", "5.6.7.8"}},
	}

	payload, err := EncodeRecordDump(records, "json")
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	var decoded []RecordSet
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded[0].Name != "a.example.com." || len(decoded[0].Data) != 2 {
		t.Errorf("json round trip mismatch: %+v", decoded)
	}

	payload, err = EncodeRecordDump(records, "csv")
	if err != nil {
		t.Fatalf("encode csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if lines[0] != "name,record_type,ttl,data" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "1.2.3.4|5.6.7.8") {
		t.Errorf("data not |-joined: %q", lines[1])
	}

	if _, err := EncodeRecordDump(records, "yaml"); err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	if _, err := EncodeRecordDump(records, "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDumpRecordsUnknownZone(t *testing.T) {
	gw := newFakeGateway()
	if _, err := DumpRecords(context.Background(), gw, "nope.example"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDetectFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"zones.json", "json"},
		{"zones.CSV", "csv"},
		{"zones.yaml", "yaml"},
		{"zones.yml", "yaml"},
		{"zones", "json"},
	}
	for _, tt := range tests {
		if got := DetectFormatFromPath(tt.path); got != tt.expected {
			t.Errorf("DetectFormatFromPath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
