package dns

import (
	"context"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// zoneResolver maps record names to their owning zone. The zone list is
// fetched once per run and candidate lookups are cached, so a batch touching
// many records in the same zone costs one ListZones call.
type zoneResolver struct {
	gw     Gateway
	loaded bool
	byDNS  map[string]Zone
	cache  map[string]Zone
}

func newZoneResolver(gw Gateway) *zoneResolver {
	return &zoneResolver{
		gw:    gw,
		byDNS: make(map[string]Zone),
		cache: make(map[string]Zone),
	}
}

func (r *zoneResolver) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	zones, err := r.gw.ListZones(ctx)
	if err != nil {
		return err
	}
	for _, zone := range zones {
		r.byDNS[zone.DNSName] = zone
	}
	r.loaded = true
	return nil
}

// resolve returns the hosted zone owning the given record name.
func (r *zoneResolver) resolve(ctx context.Context, name string) (Zone, error) {
	host := strings.TrimRight(strings.ToLower(strings.TrimSpace(name)), ".")
	if host == "" {
		return Zone{}, &ValidationError{Field: "name", Reason: "missing name"}
	}
	if zone, ok := r.cache[host]; ok {
		return zone, nil
	}
	if err := r.load(ctx); err != nil {
		return Zone{}, err
	}
	for _, candidate := range zoneCandidates(host) {
		if zone, ok := r.byDNS[candidate+"."]; ok {
			r.cache[host] = zone
			return zone, nil
		}
	}
	return Zone{}, &NotFoundError{Key: "zone for " + host}
}

// zoneCandidates lists possible zone names for a host, preferring the
// registrable domain, then progressively shorter label suffixes.
func zoneCandidates(host string) []string {
	seen := make(map[string]struct{})
	var candidates []string

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		candidates = append(candidates, candidate)
	}

	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		add(etld)
	}
	labels := strings.Split(host, ".")
	for i := 0; i <= len(labels)-2; i++ {
		add(strings.Join(labels[i:], "."))
	}
	return candidates
}
