package cloudflaredns

import (
	"testing"

	cloudflare "github.com/cloudflare/cloudflare-go"

	"gcpdns-cli/internal/dns"
)

func TestSplitPriority(t *testing.T) {
	priority, content, ok := splitPriority("10 mail.example.com.")
	if !ok || priority != 10 || content != "mail.example.com." {
		t.Fatalf("splitPriority = %d %q %v", priority, content, ok)
	}
	if _, _, ok := splitPriority("mail.example.com."); ok {
		t.Fatal("value without preference should not split")
	}
	if _, _, ok := splitPriority("huge mail.example.com."); ok {
		t.Fatal("non-numeric preference should not split")
	}
}

func TestFromAPIRecord(t *testing.T) {
	priority := uint16(20)
	rs := fromAPIRecord(cloudflare.DNSRecord{
		Type:     "MX",
		Name:     "example.com",
		Content:  "mail.example.com",
		TTL:      300,
		Priority: &priority,
	})
	if rs.Name != "example.com." {
		t.Errorf("name = %q, want dot-terminated", rs.Name)
	}
	if rs.Data[0] != "20 mail.example.com." {
		t.Errorf("MX data = %q", rs.Data[0])
	}

	rs = fromAPIRecord(cloudflare.DNSRecord{Type: "A", Name: "a.example.com", Content: "1.2.3.4", TTL: 120})
	if rs.Data[0] != "1.2.3.4" {
		t.Errorf("A data = %q", rs.Data[0])
	}
}

func TestToCreateParams(t *testing.T) {
	rs := dns.RecordSet{Name: "example.com.", Type: "MX", TTL: 300}
	params := toCreateParams(rs, "10 mail.example.com.")
	if params.Name != "example.com" {
		t.Errorf("name = %q, want unqualified", params.Name)
	}
	if params.Priority == nil || *params.Priority != 10 {
		t.Errorf("priority not extracted: %+v", params.Priority)
	}
	if params.Content != "mail.example.com" {
		t.Errorf("content = %q", params.Content)
	}

	a := dns.RecordSet{Name: "a.example.com.", Type: "A", TTL: 300}
	params = toCreateParams(a, "1.2.3.4")
	if params.Content != "1.2.3.4" || params.Priority != nil {
		t.Errorf("unexpected A params: %+v", params)
	}
}
