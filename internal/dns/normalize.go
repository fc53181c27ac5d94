package dns

import (
	"fmt"
	"regexp"
	"strings"
)

// txtChunkSize is the longest TXT string segment submitted to the provider.
// The wire format caps character-strings at 255 bytes; the original tooling
// this is compatible with leaves two bytes of headroom.
const txtChunkSize = 253

// dottedDataTypes are the record types whose data values name other domains
// and therefore get trailing-dot normalization.
var dottedDataTypes = map[string]bool{
	"CNAME": true,
	"MX":    true,
	"NS":    true,
	"PTR":   true,
	"SRV":   true,
}

var quoteSpace = regexp.MustCompile("[\"'`]\\s*")

// AbsoluteName lowercases a domain name and guarantees a single trailing
// dot. Idempotent.
func AbsoluteName(name string) string {
	trimmed := strings.TrimRight(strings.ToLower(strings.TrimSpace(name)), ".")
	return trimmed + "."
}

// SplitData splits a |-delimited CSV data field into ordered values. Empty
// segments are a validation error.
func SplitData(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ValidationError{Field: "data", Reason: "missing data"}
	}
	segments := strings.Split(raw, "|")
	values := make([]string, 0, len(segments))
	for i, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			return nil, &ValidationError{Field: "data", Reason: fmt.Sprintf("empty data segment at position %d", i+1)}
		}
		values = append(values, segment)
	}
	return values, nil
}

// NormalizeZone canonicalizes a zone before submission: dot-terminated
// lowercase dns_name and a provider name defaulted from it.
func NormalizeZone(zone Zone) (Zone, error) {
	if strings.TrimSpace(zone.DNSName) == "" {
		return Zone{}, &ValidationError{Field: "dns_name", Reason: "missing dns_name"}
	}
	zone.DNSName = AbsoluteName(zone.DNSName)
	if strings.TrimSpace(zone.Name) == "" {
		zone.Name = strings.ReplaceAll(strings.TrimSuffix(zone.DNSName, "."), ".", "-")
	}
	return zone, nil
}

// NormalizeRecordSet canonicalizes a record set before submission: absolute
// lowercase name, uppercase type, defaulted TTL, dotted domain-valued data,
// and TXT values split into quoted wire-size chunks. Pure and idempotent.
func NormalizeRecordSet(rs RecordSet) (RecordSet, error) {
	if strings.TrimSpace(rs.Name) == "" {
		return RecordSet{}, &ValidationError{Field: "name", Reason: "missing name"}
	}
	rs.Name = AbsoluteName(rs.Name)
	rs.Type = strings.ToUpper(strings.TrimSpace(rs.Type))
	if rs.Type == "" {
		return RecordSet{}, &ValidationError{Field: "record_type", Reason: "missing record_type"}
	}
	if rs.TTL == 0 {
		rs.TTL = DefaultTTL
	}
	if rs.TTL < 0 {
		return RecordSet{}, &ValidationError{Field: "ttl", Reason: fmt.Sprintf("ttl must be positive, got %d", rs.TTL)}
	}
	if len(rs.Data) == 0 {
		return RecordSet{}, &ValidationError{Field: "data", Reason: "missing data"}
	}

	data := make([]string, len(rs.Data))
	copy(data, rs.Data)
	switch {
	case rs.Type == "TXT":
		for i, value := range data {
			data[i] = chunkTXTValue(value)
		}
	case dottedDataTypes[rs.Type]:
		for i, value := range data {
			data[i] = strings.TrimRight(strings.TrimSpace(value), ".") + "."
		}
	}
	rs.Data = data
	return rs, nil
}

// chunkTXTValue splits a TXT value into consecutive double-quoted segments of
// at most txtChunkSize characters. Provider-style quoting already present is
// stripped first, so re-chunking a chunked value is a no-op.
func chunkTXTValue(value string) string {
	value = quoteSpace.ReplaceAllString(value, "")
	if value == "" {
		return `""`
	}
	var b strings.Builder
	for len(value) > txtChunkSize {
		b.WriteByte('"')
		b.WriteString(value[:txtChunkSize])
		b.WriteByte('"')
		value = value[txtChunkSize:]
	}
	b.WriteByte('"')
	b.WriteString(value)
	b.WriteByte('"')
	return b.String()
}

// rebaseName rewrites a record name so it is rooted at the zone's dns_name,
// tolerating inputs that already carry the zone suffix.
func rebaseName(name, zoneDNSName string) string {
	host := strings.TrimRight(strings.ToLower(strings.TrimSpace(name)), ".")
	zone := strings.TrimSuffix(AbsoluteName(zoneDNSName), ".")
	host = strings.TrimSuffix(host, zone)
	host = strings.TrimRight(host, ".")
	if host == "" {
		return zone + "."
	}
	return host + "." + zone + "."
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
