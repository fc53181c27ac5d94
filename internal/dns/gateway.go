package dns

import (
	"context"
	"strings"
)

// Gateway is the narrow surface of a managed DNS hosting API. The reconciler
// and dump helpers depend on it; one concrete adapter exists per provider SDK
// and tests use an in-memory fake.
//
// All calls are synchronous remote calls. Adapters surface provider failures
// as *ConflictError, *NotFoundError, or *RemoteError.
type Gateway interface {
	ListZones(ctx context.Context) ([]Zone, error)
	// CreateZone fails with *ConflictError when the dns_name or provider
	// name is already hosted.
	CreateZone(ctx context.Context, zone Zone) (Zone, error)
	// DeleteZone removes a zone by provider name, cascading to its record
	// sets. Fails with *NotFoundError when absent.
	DeleteZone(ctx context.Context, name string) error

	ListRecordSets(ctx context.Context, zone Zone) ([]RecordSet, error)
	// CreateRecordSet fails with *ConflictError when (name, type) exists.
	CreateRecordSet(ctx context.Context, zone Zone, rs RecordSet) (RecordSet, error)
	// DeleteRecordSet fails with *NotFoundError when (name, type) is absent.
	DeleteRecordSet(ctx context.Context, zone Zone, name, recordType string) error
}

// GetZone finds a zone by provider name or DNS name.
func GetZone(ctx context.Context, gw Gateway, name string) (Zone, error) {
	zones, err := gw.ListZones(ctx)
	if err != nil {
		return Zone{}, err
	}
	dnsName := AbsoluteName(name)
	for _, zone := range zones {
		if zone.Name == name || zone.DNSName == dnsName {
			return zone, nil
		}
	}
	return Zone{}, &NotFoundError{Key: strings.TrimSpace(name)}
}
