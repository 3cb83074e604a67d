package grid

import "maps"

// RecordStore is the authoritative ordered collection of rows.
//
// Rows are treated as immutable values: field updates replace the row's map
// rather than writing into it, so slices returned by Snapshot are never
// affected by later mutations.
type RecordStore struct {
	rows  []Row
	index map[string]int // id -> position in rows
}

// NewRecordStore creates a store holding rows in the given order.
func NewRecordStore(rows ...Row) *RecordStore {
	s := &RecordStore{index: make(map[string]int, len(rows))}
	s.Append(rows...)
	return s
}

// Append adds rows to the end, preserving their order.
// Ids must be pre-assigned and unique; the store does not check for collisions.
func (s *RecordStore) Append(rows ...Row) {
	for _, r := range rows {
		r = r.clone()
		if r.Fields == nil {
			r.Fields = make(map[string]any)
		}
		if _, exists := s.index[r.ID]; !exists {
			s.index[r.ID] = len(s.rows)
		}
		s.rows = append(s.rows, r)
	}
}

// Remove deletes the row with the given id. Returns false if no row matched.
func (s *RecordStore) Remove(id string) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}

	rows := make([]Row, 0, len(s.rows)-1)
	rows = append(rows, s.rows[:pos]...)
	rows = append(rows, s.rows[pos+1:]...)
	s.rows = rows
	s.reindex()
	return true
}

// ApplyFieldUpdates merges fields into the row matching id.
// Returns false if no row matched. A nil value clears the field.
func (s *RecordStore) ApplyFieldUpdates(id string, fields map[string]any) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}

	updated := maps.Clone(s.rows[pos].Fields)
	if updated == nil {
		updated = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if v == nil {
			delete(updated, k)
			continue
		}
		updated[k] = v
	}
	s.rows[pos] = Row{ID: id, Fields: updated}
	return true
}

// Get returns the row with the given id.
func (s *RecordStore) Get(id string) (Row, bool) {
	pos, ok := s.index[id]
	if !ok {
		return Row{}, false
	}
	return s.rows[pos], true
}

// Has reports whether a row with the given id exists.
func (s *RecordStore) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of rows.
func (s *RecordStore) Len() int {
	return len(s.rows)
}

// Snapshot returns the rows in insertion order.
// The returned slice is owned by the caller.
func (s *RecordStore) Snapshot() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *RecordStore) reindex() {
	s.index = make(map[string]int, len(s.rows))
	for i, r := range s.rows {
		if _, exists := s.index[r.ID]; !exists {
			s.index[r.ID] = i
		}
	}
}
