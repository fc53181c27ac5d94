// Package cloudflaredns adapts the Cloudflare API to the dns.Gateway
// interface. Cloudflare stores one value per record, so a record set maps to
// the group of records sharing (name, type).
package cloudflaredns

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	cloudflare "github.com/cloudflare/cloudflare-go"

	"gcpdns-cli/internal/dns"
)

// Gateway talks to Cloudflare with an API token.
type Gateway struct {
	api *cloudflare.API
}

// New builds a Gateway from an API token.
func New(apiToken string) (*Gateway, error) {
	if strings.TrimSpace(apiToken) == "" {
		return nil, errors.New("cloudflare token is required")
	}
	api, err := cloudflare.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, fmt.Errorf("init cloudflare client: %w", err)
	}
	return &Gateway{api: api}, nil
}

func (g *Gateway) ListZones(ctx context.Context) ([]dns.Zone, error) {
	cfZones, err := g.api.ListZones(ctx)
	if err != nil {
		return nil, &dns.RemoteError{Op: "list zones", Err: err}
	}
	zones := make([]dns.Zone, 0, len(cfZones))
	for _, zone := range cfZones {
		zones = append(zones, dns.Zone{
			DNSName:     zone.Name + ".",
			Name:        zone.ID,
			Created:     zone.CreatedOn,
			NameServers: zone.NameServers,
		})
	}
	return zones, nil
}

func (g *Gateway) CreateZone(ctx context.Context, zone dns.Zone) (dns.Zone, error) {
	name := strings.TrimSuffix(zone.DNSName, ".")
	created, err := g.api.CreateZone(ctx, name, false, cloudflare.Account{}, "full")
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return dns.Zone{}, &dns.ConflictError{Key: zone.DNSName}
		}
		return dns.Zone{}, &dns.RemoteError{Op: "create zone " + zone.DNSName, Err: err}
	}
	return dns.Zone{
		DNSName:     created.Name + ".",
		Name:        created.ID,
		Created:     created.CreatedOn,
		NameServers: created.NameServers,
	}, nil
}

func (g *Gateway) DeleteZone(ctx context.Context, name string) error {
	if _, err := g.api.DeleteZone(ctx, name); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return &dns.NotFoundError{Key: name}
		}
		return &dns.RemoteError{Op: "delete zone " + name, Err: err}
	}
	return nil
}

func (g *Gateway) ListRecordSets(ctx context.Context, zone dns.Zone) ([]dns.RecordSet, error) {
	records, err := g.fetchRecords(ctx, zone.Name, cloudflare.ListDNSRecordsParams{})
	if err != nil {
		return nil, err
	}

	// Group per (name, type), preserving first-seen order.
	index := make(map[string]*dns.RecordSet)
	var order []string
	for _, rec := range records {
		rs := fromAPIRecord(rec)
		key := rs.Key()
		if existing, ok := index[key]; ok {
			existing.Data = append(existing.Data, rs.Data...)
			continue
		}
		index[key] = &rs
		order = append(order, key)
	}

	sets := make([]dns.RecordSet, 0, len(order))
	for _, key := range order {
		sets = append(sets, *index[key])
	}
	return sets, nil
}

func (g *Gateway) CreateRecordSet(ctx context.Context, zone dns.Zone, rs dns.RecordSet) (dns.RecordSet, error) {
	existing, err := g.fetchRecords(ctx, zone.Name, cloudflare.ListDNSRecordsParams{
		Name: strings.TrimSuffix(rs.Name, "."),
		Type: rs.Type,
	})
	if err != nil {
		return dns.RecordSet{}, err
	}
	if len(existing) > 0 {
		return dns.RecordSet{}, &dns.ConflictError{Key: rs.Key()}
	}

	rc := cloudflare.ZoneIdentifier(zone.Name)
	for _, value := range rs.Data {
		params := toCreateParams(rs, value)
		if _, err := g.api.CreateDNSRecord(ctx, rc, params); err != nil {
			return dns.RecordSet{}, &dns.RemoteError{Op: "create record " + rs.Key(), Err: err}
		}
	}
	return rs, nil
}

func (g *Gateway) DeleteRecordSet(ctx context.Context, zone dns.Zone, name, recordType string) error {
	records, err := g.fetchRecords(ctx, zone.Name, cloudflare.ListDNSRecordsParams{
		Name: strings.TrimSuffix(name, "."),
		Type: recordType,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return &dns.NotFoundError{Key: name + " " + recordType}
	}

	rc := cloudflare.ZoneIdentifier(zone.Name)
	for _, rec := range records {
		if err := g.api.DeleteDNSRecord(ctx, rc, rec.ID); err != nil {
			return &dns.RemoteError{Op: "delete record " + name + " " + recordType, Err: err}
		}
	}
	return nil
}

func (g *Gateway) fetchRecords(ctx context.Context, zoneID string, params cloudflare.ListDNSRecordsParams) ([]cloudflare.DNSRecord, error) {
	rc := cloudflare.ZoneIdentifier(zoneID)
	params.ResultInfo.PerPage = 500
	var all []cloudflare.DNSRecord
	for {
		records, info, err := g.api.ListDNSRecords(ctx, rc, params)
		if err != nil {
			return nil, &dns.RemoteError{Op: "list dns records", Err: err}
		}
		all = append(all, records...)
		if info == nil || info.Page >= info.TotalPages || info.TotalPages == 0 {
			break
		}
		params.ResultInfo.Page = info.Page + 1
		params.ResultInfo.PerPage = info.PerPage
	}
	return all, nil
}

func fromAPIRecord(rec cloudflare.DNSRecord) dns.RecordSet {
	value := rec.Content
	if rec.Type == "MX" && rec.Priority != nil {
		value = fmt.Sprintf("%d %s.", *rec.Priority, strings.TrimSuffix(rec.Content, "."))
	}
	return dns.RecordSet{
		Name: rec.Name + ".",
		Type: rec.Type,
		TTL:  rec.TTL,
		Data: []string{value},
	}
}

func toCreateParams(rs dns.RecordSet, value string) cloudflare.CreateDNSRecordParams {
	params := cloudflare.CreateDNSRecordParams{
		Type:    rs.Type,
		Name:    strings.TrimSuffix(rs.Name, "."),
		Content: strings.TrimSuffix(value, "."),
		TTL:     rs.TTL,
	}
	if rs.Type == "MX" {
		if priority, content, ok := splitPriority(value); ok {
			params.Priority = &priority
			params.Content = strings.TrimSuffix(content, ".")
		}
	}
	return params
}

// splitPriority separates the leading preference number of an MX value from
// its exchange host.
func splitPriority(value string) (uint16, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	priority, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return 0, "", false
	}
	return uint16(priority), strings.TrimSpace(parts[1]), true
}
