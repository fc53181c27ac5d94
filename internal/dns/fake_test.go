package dns

import (
	"context"
	"fmt"
)

// fakeGateway is an in-memory Gateway with the same conflict/not-found
// semantics the real adapters surface. It records the mutating calls it
// receives so tests can assert ordering.
type fakeGateway struct {
	zones   []Zone
	records map[string][]RecordSet
	calls   []string
	failOn  map[string]error
}

func newFakeGateway(zones ...Zone) *fakeGateway {
	return &fakeGateway{
		zones:   zones,
		records: make(map[string][]RecordSet),
		failOn:  make(map[string]error),
	}
}

func (f *fakeGateway) fail(op string, err error) { f.failOn[op] = err }

func (f *fakeGateway) ListZones(ctx context.Context) ([]Zone, error) {
	if err := f.failOn["ListZones"]; err != nil {
		return nil, err
	}
	out := make([]Zone, len(f.zones))
	copy(out, f.zones)
	return out, nil
}

func (f *fakeGateway) CreateZone(ctx context.Context, zone Zone) (Zone, error) {
	f.calls = append(f.calls, "create-zone "+zone.DNSName)
	if err := f.failOn["CreateZone"]; err != nil {
		return Zone{}, err
	}
	for _, existing := range f.zones {
		if existing.DNSName == zone.DNSName || existing.Name == zone.Name {
			return Zone{}, &ConflictError{Key: existing.DNSName}
		}
	}
	f.zones = append(f.zones, zone)
	return zone, nil
}

func (f *fakeGateway) DeleteZone(ctx context.Context, name string) error {
	f.calls = append(f.calls, "delete-zone "+name)
	if err := f.failOn["DeleteZone"]; err != nil {
		return err
	}
	for i, zone := range f.zones {
		if zone.Name == name {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			delete(f.records, zone.DNSName)
			return nil
		}
	}
	return &NotFoundError{Key: name}
}

func (f *fakeGateway) ListRecordSets(ctx context.Context, zone Zone) ([]RecordSet, error) {
	if err := f.failOn["ListRecordSets"]; err != nil {
		return nil, err
	}
	sets := f.records[zone.DNSName]
	out := make([]RecordSet, len(sets))
	copy(out, sets)
	return out, nil
}

func (f *fakeGateway) CreateRecordSet(ctx context.Context, zone Zone, rs RecordSet) (RecordSet, error) {
	f.calls = append(f.calls, fmt.Sprintf("create-record %s %s", rs.Name, rs.Type))
	if err := f.failOn["CreateRecordSet"]; err != nil {
		return RecordSet{}, err
	}
	for _, existing := range f.records[zone.DNSName] {
		if existing.Key() == rs.Key() {
			return RecordSet{}, &ConflictError{Key: rs.Key()}
		}
	}
	f.records[zone.DNSName] = append(f.records[zone.DNSName], rs)
	return rs, nil
}

func (f *fakeGateway) DeleteRecordSet(ctx context.Context, zone Zone, name, recordType string) error {
	f.calls = append(f.calls, fmt.Sprintf("delete-record %s %s", name, recordType))
	if err := f.failOn["DeleteRecordSet"]; err != nil {
		return err
	}
	sets := f.records[zone.DNSName]
	for i, existing := range sets {
		if existing.Name == name && existing.Type == recordType {
			f.records[zone.DNSName] = append(sets[:i], sets[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Key: name + " " + recordType}
}

func (f *fakeGateway) recordSets(zoneDNSName string) []RecordSet {
	return f.records[zoneDNSName]
}
