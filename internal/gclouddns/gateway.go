// Package gclouddns adapts the Google Cloud DNS API to the dns.Gateway
// interface using a service-account credential file.
package gclouddns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	gdns "google.golang.org/api/dns/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"gcpdns-cli/internal/dns"
)

// Gateway talks to Google Cloud DNS for a single project.
type Gateway struct {
	svc     *gdns.Service
	project string
}

// New builds a Gateway from a service-account JSON key file. The project is
// taken from the key's project_id.
func New(ctx context.Context, credentialsPath string) (*Gateway, error) {
	if strings.TrimSpace(credentialsPath) == "" {
		return nil, errors.New("credential file is required")
	}
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, gdns.CloudPlatformScope, gdns.NdevClouddnsReadwriteScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("parse credential file: %w", err)
	}
	if key.ProjectID == "" {
		return nil, errors.New("credential file is missing project_id")
	}

	svc, err := gdns.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("init cloud dns client: %w", err)
	}
	return &Gateway{svc: svc, project: key.ProjectID}, nil
}

func (g *Gateway) ListZones(ctx context.Context) ([]dns.Zone, error) {
	var zones []dns.Zone
	err := g.svc.ManagedZones.List(g.project).Pages(ctx, func(resp *gdns.ManagedZonesListResponse) error {
		for _, mz := range resp.ManagedZones {
			zones = append(zones, fromManagedZone(mz))
		}
		return nil
	})
	if err != nil {
		return nil, mapError("list zones", err)
	}
	return zones, nil
}

func (g *Gateway) CreateZone(ctx context.Context, zone dns.Zone) (dns.Zone, error) {
	created, err := g.svc.ManagedZones.Create(g.project, &gdns.ManagedZone{
		Name:        zone.Name,
		DnsName:     zone.DNSName,
		Description: zone.Description,
	}).Context(ctx).Do()
	if err != nil {
		return dns.Zone{}, mapError("create zone "+zone.DNSName, err)
	}
	return fromManagedZone(created), nil
}

// DeleteZone removes a managed zone. Cloud DNS refuses to delete a non-empty
// zone, so user record sets are removed in one change first; the zone's own
// NS and SOA records stay until the zone goes away.
func (g *Gateway) DeleteZone(ctx context.Context, name string) error {
	zone, err := g.svc.ManagedZones.Get(g.project, name).Context(ctx).Do()
	if err != nil {
		return mapError("get zone "+name, err)
	}

	var deletions []*gdns.ResourceRecordSet
	err = g.svc.ResourceRecordSets.List(g.project, name).Pages(ctx, func(resp *gdns.ResourceRecordSetsListResponse) error {
		for _, rrset := range resp.Rrsets {
			if rrset.Name == zone.DnsName && (rrset.Type == "NS" || rrset.Type == "SOA") {
				continue
			}
			deletions = append(deletions, rrset)
		}
		return nil
	})
	if err != nil {
		return mapError("list record sets of "+name, err)
	}
	if len(deletions) > 0 {
		if _, err := g.svc.Changes.Create(g.project, name, &gdns.Change{Deletions: deletions}).Context(ctx).Do(); err != nil {
			return mapError("empty zone "+name, err)
		}
	}

	if err := g.svc.ManagedZones.Delete(g.project, name).Context(ctx).Do(); err != nil {
		return mapError("delete zone "+name, err)
	}
	return nil
}

func (g *Gateway) ListRecordSets(ctx context.Context, zone dns.Zone) ([]dns.RecordSet, error) {
	var sets []dns.RecordSet
	err := g.svc.ResourceRecordSets.List(g.project, zone.Name).Pages(ctx, func(resp *gdns.ResourceRecordSetsListResponse) error {
		for _, rrset := range resp.Rrsets {
			sets = append(sets, dns.RecordSet{
				Name: rrset.Name,
				Type: rrset.Type,
				TTL:  int(rrset.Ttl),
				Data: rrset.Rrdatas,
			})
		}
		return nil
	})
	if err != nil {
		return nil, mapError("list record sets of "+zone.Name, err)
	}
	return sets, nil
}

func (g *Gateway) CreateRecordSet(ctx context.Context, zone dns.Zone, rs dns.RecordSet) (dns.RecordSet, error) {
	change := &gdns.Change{
		Additions: []*gdns.ResourceRecordSet{{
			Name:    rs.Name,
			Type:    rs.Type,
			Ttl:     int64(rs.TTL),
			Rrdatas: rs.Data,
		}},
	}
	if _, err := g.svc.Changes.Create(g.project, zone.Name, change).Context(ctx).Do(); err != nil {
		return dns.RecordSet{}, mapError("create record set "+rs.Key(), err)
	}
	return rs, nil
}

// DeleteRecordSet looks up the live record set first: Cloud DNS change
// deletions must match the existing rrset exactly.
func (g *Gateway) DeleteRecordSet(ctx context.Context, zone dns.Zone, name, recordType string) error {
	var target *gdns.ResourceRecordSet
	err := g.svc.ResourceRecordSets.List(g.project, zone.Name).Name(name).Type(recordType).Pages(ctx, func(resp *gdns.ResourceRecordSetsListResponse) error {
		for _, rrset := range resp.Rrsets {
			if rrset.Name == name && rrset.Type == recordType {
				target = rrset
			}
		}
		return nil
	})
	if err != nil {
		return mapError("list record sets of "+zone.Name, err)
	}
	if target == nil {
		return &dns.NotFoundError{Key: name + " " + recordType}
	}
	change := &gdns.Change{Deletions: []*gdns.ResourceRecordSet{target}}
	if _, err := g.svc.Changes.Create(g.project, zone.Name, change).Context(ctx).Do(); err != nil {
		return mapError("delete record set "+name+" "+recordType, err)
	}
	return nil
}

func fromManagedZone(mz *gdns.ManagedZone) dns.Zone {
	zone := dns.Zone{
		DNSName:     mz.DnsName,
		Name:        mz.Name,
		Description: mz.Description,
		NameServers: mz.NameServers,
	}
	if mz.CreationTime != "" {
		if created, err := time.Parse(time.RFC3339, mz.CreationTime); err == nil {
			zone.Created = created
		}
	}
	return zone
}

// mapError converts googleapi failures into the typed errors the reconciler
// dispatches on.
func mapError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			return &dns.NotFoundError{Key: op}
		case 409:
			return &dns.ConflictError{Key: op}
		}
	}
	return &dns.RemoteError{Op: op, Err: err}
}
