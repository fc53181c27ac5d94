package dns

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// header maps column names to positions, tolerating case and padding.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	record, err := r.Read()
	if err != nil {
		return nil, &ValidationError{Field: "csv", Reason: "missing header row"}
	}
	h := make(header, len(record))
	for i, name := range record {
		h[normalizeToken(name)] = i
	}
	return h, nil
}

func (h header) get(record []string, name string) (string, bool) {
	idx, ok := h[name]
	if !ok || idx >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}

// ParseZoneRows reads a zones CSV. Columns: action, dns_name, and optional
// gcp_name, description, record_info.
func ParseZoneRows(r io.Reader) ([]ZoneRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	var rows []ZoneRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ValidationError{Field: "csv", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}

		row := ZoneRow{Line: line}
		rawAction, ok := h.get(record, "action")
		if !ok {
			return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("line %d: missing action column", line)}
		}
		// Action keywords are validated per row by the reconciler so a bad
		// keyword fails only its own row.
		row.Action = Action(normalizeToken(rawAction))

		dnsName, ok := h.get(record, "dns_name")
		if !ok {
			return nil, &ValidationError{Field: "dns_name", Reason: fmt.Sprintf("line %d: missing dns_name column", line)}
		}
		row.DNSName = dnsName
		row.Name, _ = h.get(record, "gcp_name")
		row.Description, _ = h.get(record, "description")

		if raw, ok := h.get(record, "record_info"); ok && raw != "" {
			infos, err := parseRecordInfo(raw)
			if err != nil {
				return nil, &ValidationError{Field: "record_info", Reason: fmt.Sprintf("line %d: %v", line, err)}
			}
			row.RecordInfo = infos
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRecordInfo decodes |-separated TYPE:name entries.
func parseRecordInfo(raw string) ([]RecordInfo, error) {
	var infos []RecordInfo
	for _, entry := range strings.Split(raw, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed record_info entry %q, expected TYPE:name", entry)
		}
		infos = append(infos, RecordInfo{
			Type: strings.ToUpper(strings.TrimSpace(parts[0])),
			Name: strings.TrimSpace(parts[1]),
		})
	}
	return infos, nil
}

// ParseRecordRows reads a record-sets CSV. Columns: action, name,
// record_type, and optional ttl, data.
func ParseRecordRows(r io.Reader) ([]RecordRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	var rows []RecordRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ValidationError{Field: "csv", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}

		row := RecordRow{Line: line}
		rawAction, ok := h.get(record, "action")
		if !ok {
			return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("line %d: missing action column", line)}
		}
		row.Action = Action(normalizeToken(rawAction))

		name, ok := h.get(record, "name")
		if !ok {
			return nil, &ValidationError{Field: "name", Reason: fmt.Sprintf("line %d: missing name column", line)}
		}
		row.Name = name

		recordType, ok := h.get(record, "record_type")
		if !ok {
			return nil, &ValidationError{Field: "record_type", Reason: fmt.Sprintf("line %d: missing record_type column", line)}
		}
		row.Type = strings.ToUpper(recordType)

		if raw, ok := h.get(record, "ttl"); ok && raw != "" {
			ttl, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &ValidationError{Field: "ttl", Reason: fmt.Sprintf("line %d: bad ttl %q", line, raw)}
			}
			row.TTL = ttl
		}
		// Raw data stays unsplit here; the reconciler splits and validates
		// per row so one malformed data field fails only that row.
		if raw, ok := h.get(record, "data"); ok {
			row.RawData = raw
		}
		rows = append(rows, row)
	}
	return rows, nil
}
