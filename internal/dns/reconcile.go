package dns

import (
	"context"
	"fmt"
	"strings"
)

// Reconciler applies ordered desired-state rows to remote state through a
// Gateway. Rows run strictly in input order; a delete of a key followed by a
// create of the same key executes as delete-then-create. Remote state is
// fetched once per run and tracked locally as rows apply, never cached
// across runs.
type Reconciler struct {
	gw Gateway
}

// NewReconciler returns a Reconciler bound to the given Gateway.
func NewReconciler(gw Gateway) *Reconciler {
	return &Reconciler{gw: gw}
}

// ApplyZones applies a batch of zone rows. With IgnoreErrors off the run
// stops at the first failing row and returns the partial outcome list plus
// the triggering error; with it on every row is attempted and the result's
// Failed count reflects the batch status.
func (r *Reconciler) ApplyZones(ctx context.Context, rows []ZoneRow, opts ReconcileOptions) (*BatchResult, error) {
	result := &BatchResult{}
	state := newZoneState(r.gw)
	for i, row := range rows {
		outcome := r.applyZoneRow(ctx, state, row, opts)
		outcome.Row = rowNumber(row.Line, i)
		if outcome.Err != nil {
			outcome.Detail = outcome.Err.Error()
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil && !opts.IgnoreErrors {
			return result, fmt.Errorf("row %d: %w", outcome.Row, outcome.Err)
		}
	}
	return result, nil
}

// ApplyRecordSets applies a batch of record-set rows, resolving the owning
// zone of each row through a run-scoped zone cache.
func (r *Reconciler) ApplyRecordSets(ctx context.Context, rows []RecordRow, opts ReconcileOptions) (*BatchResult, error) {
	result := &BatchResult{}
	state := newRecordState(r.gw)
	for i, row := range rows {
		outcome := r.applyRecordRow(ctx, state, row, opts)
		outcome.Row = rowNumber(row.Line, i)
		if outcome.Err != nil {
			outcome.Detail = outcome.Err.Error()
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil && !opts.IgnoreErrors {
			return result, fmt.Errorf("row %d: %w", outcome.Row, outcome.Err)
		}
	}
	return result, nil
}

func rowNumber(line, index int) int {
	if line > 0 {
		return line
	}
	return index + 1
}

// zoneState is the reconciler's view of hosted zones, loaded once per batch
// and updated as rows apply.
type zoneState struct {
	gw     Gateway
	loaded bool
	byDNS  map[string]Zone
	byName map[string]Zone
}

func newZoneState(gw Gateway) *zoneState {
	return &zoneState{gw: gw, byDNS: make(map[string]Zone), byName: make(map[string]Zone)}
}

func (s *zoneState) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	zones, err := s.gw.ListZones(ctx)
	if err != nil {
		return err
	}
	for _, zone := range zones {
		s.byDNS[zone.DNSName] = zone
		s.byName[zone.Name] = zone
	}
	s.loaded = true
	return nil
}

// find matches a zone by dns_name or by provider name, accepting either the
// raw or the defaulted provider name from the row.
func (s *zoneState) find(zone Zone, rawName string) (Zone, bool) {
	if existing, ok := s.byDNS[zone.DNSName]; ok {
		return existing, true
	}
	if rawName != "" {
		if existing, ok := s.byName[rawName]; ok {
			return existing, true
		}
	}
	if existing, ok := s.byName[zone.Name]; ok {
		return existing, true
	}
	return Zone{}, false
}

func (s *zoneState) remove(zone Zone) {
	delete(s.byDNS, zone.DNSName)
	delete(s.byName, zone.Name)
}

func (s *zoneState) add(zone Zone) {
	s.byDNS[zone.DNSName] = zone
	s.byName[zone.Name] = zone
}

func (r *Reconciler) applyZoneRow(ctx context.Context, state *zoneState, row ZoneRow, opts ReconcileOptions) Outcome {
	outcome := Outcome{Action: row.Action, Key: row.DNSName}

	action, err := ParseAction(string(row.Action))
	if err != nil {
		outcome.Err = err
		return outcome
	}
	zone, err := NormalizeZone(Zone{DNSName: row.DNSName, Name: row.Name, Description: row.Description})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Key = zone.DNSName

	if err := state.load(ctx); err != nil {
		outcome.Err = err
		return outcome
	}
	existing, exists := state.find(zone, row.Name)

	switch action {
	case ActionDelete:
		if !exists {
			// Idempotent: deleting an absent zone succeeds silently.
			return outcome
		}
		if err := r.deleteZoneRecordInfo(ctx, existing, row.RecordInfo); err != nil {
			outcome.Err = err
			return outcome
		}
		if err := r.gw.DeleteZone(ctx, existing.Name); err != nil && !IsNotFound(err) {
			outcome.Err = err
			return outcome
		}
		state.remove(existing)
		return outcome

	case ActionCreate, ActionAdd, ActionReplace:
		if exists {
			replace := action == ActionReplace || opts.ReplaceExisting
			switch {
			case replace:
				if err := r.gw.DeleteZone(ctx, existing.Name); err != nil && !IsNotFound(err) {
					outcome.Err = err
					return outcome
				}
				state.remove(existing)
			case opts.SkipExisting:
				return outcome
			default:
				outcome.Err = &ConflictError{Key: fmt.Sprintf("%s (%s)", existing.DNSName, existing.Name)}
				return outcome
			}
		}
		created, err := r.gw.CreateZone(ctx, zone)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		state.add(created)
		return outcome
	}

	outcome.Err = &ValidationError{Field: "action", Reason: fmt.Sprintf("unrecognized action %q", row.Action)}
	return outcome
}

// deleteZoneRecordInfo removes the record sets named in a delete row's
// record_info column before the zone itself goes away. Absent record sets
// are skipped.
func (r *Reconciler) deleteZoneRecordInfo(ctx context.Context, zone Zone, infos []RecordInfo) error {
	for _, info := range infos {
		name := rebaseName(info.Name, zone.DNSName)
		if err := r.gw.DeleteRecordSet(ctx, zone, name, info.Type); err != nil && !IsNotFound(err) {
			return fmt.Errorf("delete record set %s %s: %w", info.Type, name, err)
		}
	}
	return nil
}

// recordState is the reconciler's view of record sets, loaded per zone the
// first time a row touches it and updated as rows apply.
type recordState struct {
	gw       Gateway
	resolver *zoneResolver
	byZone   map[string]map[string]RecordSet
}

func newRecordState(gw Gateway) *recordState {
	return &recordState{gw: gw, resolver: newZoneResolver(gw), byZone: make(map[string]map[string]RecordSet)}
}

func (s *recordState) records(ctx context.Context, zone Zone) (map[string]RecordSet, error) {
	if index, ok := s.byZone[zone.DNSName]; ok {
		return index, nil
	}
	sets, err := s.gw.ListRecordSets(ctx, zone)
	if err != nil {
		return nil, err
	}
	index := make(map[string]RecordSet, len(sets))
	for _, rs := range sets {
		index[rs.Key()] = rs
	}
	s.byZone[zone.DNSName] = index
	return index, nil
}

func (r *Reconciler) applyRecordRow(ctx context.Context, state *recordState, row RecordRow, opts ReconcileOptions) Outcome {
	outcome := Outcome{Action: row.Action, Key: row.Name + " " + row.Type}

	action, err := ParseAction(string(row.Action))
	if err != nil {
		outcome.Err = err
		return outcome
	}

	zone, err := state.resolver.resolve(ctx, row.Name)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	index, err := state.records(ctx, zone)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if action == ActionDelete {
		rs := RecordSet{
			Name: rebaseName(row.Name, zone.DNSName),
			Type: strings.ToUpper(strings.TrimSpace(row.Type)),
		}
		outcome.Key = rs.Key()
		existing, ok := index[rs.Key()]
		if !ok {
			// Idempotent: deleting an absent record set succeeds silently.
			return outcome
		}
		if err := r.gw.DeleteRecordSet(ctx, zone, existing.Name, existing.Type); err != nil && !IsNotFound(err) {
			outcome.Err = err
			return outcome
		}
		delete(index, rs.Key())
		return outcome
	}

	data := row.Data
	if len(data) == 0 {
		data, err = SplitData(row.RawData)
		if err != nil {
			outcome.Err = err
			return outcome
		}
	}
	rs, err := NormalizeRecordSet(RecordSet{
		Name: rebaseName(row.Name, zone.DNSName),
		Type: row.Type,
		TTL:  row.TTL,
		Data: data,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Key = rs.Key()

	if existing, ok := index[rs.Key()]; ok {
		replace := action == ActionReplace || opts.ReplaceExisting
		switch {
		case replace:
			if err := r.gw.DeleteRecordSet(ctx, zone, existing.Name, existing.Type); err != nil && !IsNotFound(err) {
				outcome.Err = err
				return outcome
			}
			delete(index, rs.Key())
		case opts.SkipExisting:
			return outcome
		default:
			outcome.Err = &ConflictError{Key: fmt.Sprintf("%s %s %d %v", existing.Name, existing.Type, existing.TTL, existing.Data)}
			return outcome
		}
	}

	created, err := r.gw.CreateRecordSet(ctx, zone, rs)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	index[created.Key()] = created
	return outcome
}
