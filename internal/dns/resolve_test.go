package dns

import (
	"context"
	"testing"
)

func TestZoneCandidates(t *testing.T) {
	candidates := zoneCandidates("www.api.example.co.uk")
	if len(candidates) == 0 {
		t.Fatal("no candidates")
	}
	if candidates[0] != "example.co.uk" {
		t.Errorf("registrable domain should come first, got %q", candidates[0])
	}
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			t.Errorf("duplicate candidate %q", c)
		}
		seen[c] = true
	}
	if !seen["www.api.example.co.uk"] || !seen["api.example.co.uk"] {
		t.Errorf("missing label-suffix candidates: %v", candidates)
	}
}

func TestZoneResolverCachesLookups(t *testing.T) {
	gw := newFakeGateway(testZone())
	resolver := newZoneResolver(gw)

	zone, err := resolver.resolve(context.Background(), "a.example.com.")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if zone.DNSName != "example.com." {
		t.Fatalf("resolved wrong zone: %+v", zone)
	}

	// A second lookup for the same host must not hit the gateway again.
	gw.fail("ListZones", &RemoteError{Op: "list zones", Err: context.Canceled})
	if _, err := resolver.resolve(context.Background(), "a.example.com"); err != nil {
		t.Fatalf("cached resolve should not touch the gateway: %v", err)
	}
}

func TestZoneResolverPrefersHostedZone(t *testing.T) {
	gw := newFakeGateway(
		Zone{DNSName: "sub.example.com.", Name: "sub-example-com"},
	)
	resolver := newZoneResolver(gw)

	zone, err := resolver.resolve(context.Background(), "www.sub.example.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if zone.DNSName != "sub.example.com." {
		t.Errorf("expected hosted subzone, got %+v", zone)
	}
}

func TestZoneResolverUnknownHost(t *testing.T) {
	gw := newFakeGateway(testZone())
	resolver := newZoneResolver(gw)
	if _, err := resolver.resolve(context.Background(), "a.unknown.net"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
