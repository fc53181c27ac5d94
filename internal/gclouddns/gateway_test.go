package gclouddns

import (
	"errors"
	"fmt"
	"testing"

	gdns "google.golang.org/api/dns/v1"
	"google.golang.org/api/googleapi"

	"gcpdns-cli/internal/dns"
)

func TestMapError(t *testing.T) {
	if err := mapError("op", &googleapi.Error{Code: 404}); !dns.IsNotFound(err) {
		t.Errorf("404 should map to NotFoundError, got %v", err)
	}
	if err := mapError("op", &googleapi.Error{Code: 409}); !dns.IsConflict(err) {
		t.Errorf("409 should map to ConflictError, got %v", err)
	}

	wrapped := fmt.Errorf("call failed: %w", &googleapi.Error{Code: 404})
	if err := mapError("op", wrapped); !dns.IsNotFound(err) {
		t.Errorf("wrapped 404 should still map, got %v", err)
	}

	var remote *dns.RemoteError
	if err := mapError("op", errors.New("connection reset")); !errors.As(err, &remote) {
		t.Errorf("unknown failure should map to RemoteError, got %v", err)
	}
}

func TestFromManagedZone(t *testing.T) {
	zone := fromManagedZone(&gdns.ManagedZone{
		Name:         "example-com",
		DnsName:      "example.com.",
		Description:  "test",
		NameServers:  []string{"ns-cloud-a1.googledomains.com."},
		CreationTime: "2024-03-01T12:00:00Z",
	})
	if zone.DNSName != "example.com." || zone.Name != "example-com" {
		t.Errorf("unexpected zone: %+v", zone)
	}
	if zone.Created.IsZero() {
		t.Error("creation time not parsed")
	}

	zone = fromManagedZone(&gdns.ManagedZone{Name: "z", DnsName: "z.example.", CreationTime: "garbage"})
	if !zone.Created.IsZero() {
		t.Error("unparseable creation time should stay zero")
	}
}
