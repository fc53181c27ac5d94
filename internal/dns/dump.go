package dns

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ZoneExport is the dump representation of a hosted zone.
type ZoneExport struct {
	DNSName     string       `json:"dns_name" yaml:"dns_name"`
	Name        string       `json:"name" yaml:"name"`
	Created     string       `json:"created" yaml:"created"`
	Description string       `json:"description" yaml:"description"`
	NameServers []string     `json:"name_servers" yaml:"name_servers"`
	Records     []RecordInfo `json:"zone_records" yaml:"zone_records"`
}

// DumpZones fetches all hosted zones, optionally including a per-zone record
// summary.
func DumpZones(ctx context.Context, gw Gateway, includeRecords bool) ([]ZoneExport, error) {
	zones, err := gw.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	exports := make([]ZoneExport, 0, len(zones))
	for _, zone := range zones {
		export := ZoneExport{
			DNSName:     zone.DNSName,
			Name:        zone.Name,
			Description: zone.Description,
			NameServers: zone.NameServers,
		}
		if !zone.Created.IsZero() {
			export.Created = zone.Created.Format(time.RFC3339)
		}
		if includeRecords {
			sets, err := gw.ListRecordSets(ctx, zone)
			if err != nil {
				return nil, err
			}
			for _, rs := range sets {
				export.Records = append(export.Records, RecordInfo{Name: rs.Name, Type: rs.Type})
			}
		}
		exports = append(exports, export)
	}
	return exports, nil
}

// DumpRecords fetches all record sets of the named zone.
func DumpRecords(ctx context.Context, gw Gateway, zoneName string) ([]RecordSet, error) {
	zone, err := GetZone(ctx, gw, zoneName)
	if err != nil {
		return nil, err
	}
	return gw.ListRecordSets(ctx, zone)
}

// EncodeZoneDump renders a zone dump as json, yaml, or csv.
func EncodeZoneDump(zones []ZoneExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(zones, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(zones)
	case "csv":
		return encodeZonesCSV(zones)
	default:
		return nil, fmt.Errorf("unsupported dump format %q", format)
	}
}

// EncodeRecordDump renders a record dump as json, yaml, or csv.
func EncodeRecordDump(records []RecordSet, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(records, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(records)
	case "csv":
		return encodeRecordsCSV(records)
	default:
		return nil, fmt.Errorf("unsupported dump format %q", format)
	}
}

func encodeZonesCSV(zones []ZoneExport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"dns_name", "name", "created", "description", "name_servers", "zone_records"}); err != nil {
		return nil, err
	}
	for _, zone := range zones {
		infos := make([]string, 0, len(zone.Records))
		for _, info := range zone.Records {
			infos = append(infos, info.Type+":"+info.Name)
		}
		row := []string{
			zone.DNSName,
			zone.Name,
			zone.Created,
			zone.Description,
			strings.Join(zone.NameServers, "|"),
			strings.Join(infos, "|"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func encodeRecordsCSV(records []RecordSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "record_type", "ttl", "data"}); err != nil {
		return nil, err
	}
	for _, rs := range records {
		row := []string{rs.Name, rs.Type, strconv.Itoa(rs.TTL), strings.Join(rs.Data, "|")}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetectFormatFromPath infers a dump format from a file extension.
func DetectFormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
