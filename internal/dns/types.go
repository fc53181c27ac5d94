package dns

import (
	"fmt"
	"time"
)

// DefaultTTL is applied to record rows that do not carry an explicit TTL.
const DefaultTTL = 300

// Zone is a managed DNS zone as seen through a Gateway.
type Zone struct {
	// DNSName is the fully-qualified zone name, always dot-terminated.
	DNSName string `json:"dns_name" yaml:"dns_name"`
	// Name is the provider-assigned zone identifier.
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Created     time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	NameServers []string  `json:"name_servers,omitempty" yaml:"name_servers,omitempty"`
}

// RecordSet is a named, typed collection of record values sharing a TTL.
// (Name, Type) is the natural key within a zone.
type RecordSet struct {
	Name string   `json:"name" yaml:"name"`
	Type string   `json:"record_type" yaml:"record_type"`
	TTL  int      `json:"ttl" yaml:"ttl"`
	Data []string `json:"data" yaml:"data"`
}

// Key returns the natural key of the record set.
func (rs RecordSet) Key() string {
	return rs.Name + " " + rs.Type
}

// Action is the operation a desired-state row requests.
type Action string

const (
	ActionCreate  Action = "create"
	ActionAdd     Action = "add"
	ActionReplace Action = "replace"
	ActionDelete  Action = "delete"
)

// ParseAction validates an action keyword from a CSV row.
func ParseAction(raw string) (Action, error) {
	switch Action(normalizeToken(raw)) {
	case ActionCreate:
		return ActionCreate, nil
	case ActionAdd:
		return ActionAdd, nil
	case ActionReplace:
		return ActionReplace, nil
	case ActionDelete:
		return ActionDelete, nil
	default:
		return "", &ValidationError{Field: "action", Reason: fmt.Sprintf("unrecognized action %q", raw)}
	}
}

// ZoneRow is one desired-state row from a zones CSV.
type ZoneRow struct {
	Line        int
	Action      Action
	DNSName     string
	Name        string
	Description string
	// RecordInfo lists TYPE:name entries to delete before the zone itself.
	RecordInfo []RecordInfo
}

// RecordRow is one desired-state row from a record-sets CSV.
type RecordRow struct {
	Line   int
	Action Action
	RecordSet
	// RawData is the |-delimited data field before splitting. When Data is
	// empty the reconciler derives it from RawData per row.
	RawData string
}

// RecordInfo is a compact record-set reference used in zone dumps and
// record_info CSV columns.
type RecordInfo struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"record_type" yaml:"record_type"`
}

// Outcome records what happened to a single batch row.
type Outcome struct {
	Row    int    `json:"row"`
	Action Action `json:"action"`
	Key    string `json:"key"`
	Err    error  `json:"-"`
	Detail string `json:"error,omitempty"`
}

// OK reports whether the row was applied successfully.
func (o Outcome) OK() bool { return o.Err == nil }

// BatchResult aggregates per-row outcomes of one reconciliation run.
type BatchResult struct {
	Outcomes []Outcome
	Failed   int
}

// Err returns the first row error, or nil when every row succeeded.
func (r *BatchResult) Err() error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// ReconcileOptions tweak batch behavior.
type ReconcileOptions struct {
	// IgnoreErrors keeps processing after a row fails instead of aborting.
	IgnoreErrors bool
	// ReplaceExisting treats create/add rows as replace when the key exists.
	ReplaceExisting bool
	// SkipExisting turns a create-over-existing conflict into a recorded no-op.
	// Without it a plain create over an existing key fails with ConflictError.
	SkipExisting bool
}
