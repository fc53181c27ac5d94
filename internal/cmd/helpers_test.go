package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"gcpdns-cli/internal/dns"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("GCPDNS_TEST_VALUE", "from-env")
	if got := getEnvWithDefault("GCPDNS_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
	if got := getEnvWithDefault("GCPDNS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestGetEnvBoolWithDefault(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"no", true, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if tt.value == "" {
			os.Unsetenv("GCPDNS_TEST_BOOL")
		} else {
			t.Setenv("GCPDNS_TEST_BOOL", tt.value)
		}
		if got := getEnvBoolWithDefault("GCPDNS_TEST_BOOL", tt.fallback); got != tt.expected {
			t.Errorf("value %q fallback %v: got %v, want %v", tt.value, tt.fallback, got, tt.expected)
		}
	}
}

func TestWriteOutputsPicksFormatPerPath(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "dump.json")
	csvPath := filepath.Join(dir, "nested", "dump.csv")

	var formats []string
	encode := func(format string) ([]byte, error) {
		formats = append(formats, format)
		return []byte(format + "-payload"), nil
	}

	cmd := &cobra.Command{}
	if err := writeOutputs(cmd, []string{jsonPath, csvPath}, "json", encode); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}

	if len(formats) != 2 || formats[0] != "json" || formats[1] != "csv" {
		t.Errorf("encoded formats = %v, want [json csv]", formats)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read nested output: %v", err)
	}
	if string(data) != "csv-payload" {
		t.Errorf("csv output = %q", data)
	}
}

func TestWriteOutputsDefaultsToStdout(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	encode := func(format string) ([]byte, error) {
		return []byte("format:" + format), nil
	}
	if err := writeOutputs(cmd, nil, "yaml", encode); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	if out.String() != "format:yaml" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestBatchError(t *testing.T) {
	runErr := errors.New("row 2: boom")
	if err := batchError(&dns.BatchResult{Failed: 1}, runErr); err != runErr {
		t.Errorf("run error should pass through, got %v", err)
	}
	if err := batchError(&dns.BatchResult{Failed: 2}, nil); err == nil {
		t.Error("failed rows should produce an error")
	}
	if err := batchError(&dns.BatchResult{}, nil); err != nil {
		t.Errorf("clean result should be nil, got %v", err)
	}
}

func TestReportOutcomes(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&out)

	result := &dns.BatchResult{
		Outcomes: []dns.Outcome{
			{Row: 2, Action: dns.ActionCreate, Key: "www.example.com. A"},
			{Row: 3, Action: dns.ActionDelete, Key: "old.example.com. TXT", Err: errors.New("nope"), Detail: "nope"},
		},
		Failed: 1,
	}
	reportOutcomes(cmd, result)

	text := out.String()
	if !strings.Contains(text, "row 2: create www.example.com. A: ok") {
		t.Errorf("missing success line in %q", text)
	}
	if !strings.Contains(text, "row 3: delete old.example.com. TXT: FAILED: nope") {
		t.Errorf("missing failure line in %q", text)
	}
	if !strings.Contains(text, "1 row(s) applied, 1 failed") {
		t.Errorf("missing summary in %q", text)
	}
}

func TestArchiveConfigFromEnv(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio.example.com:9000")
	t.Setenv("MINIO_ACCESS_KEY", "ak")
	t.Setenv("MINIO_SECRET_KEY", "sk")
	t.Setenv("MINIO_BUCKET", "")
	t.Setenv("MINIO_HTTP_TIMEOUT", "30s")

	cfg, err := archiveConfigFromEnv()
	if err != nil {
		t.Fatalf("archiveConfigFromEnv: %v", err)
	}
	if cfg.Endpoint != "minio.example.com:9000" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Bucket != "dns-dumps" {
		t.Errorf("default bucket = %q", cfg.Bucket)
	}
	if cfg.HTTPTimeout.Seconds() != 30 {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}

	t.Setenv("MINIO_ENDPOINT", "")
	if _, err := archiveConfigFromEnv(); err == nil {
		t.Error("missing endpoint should error")
	}
}
