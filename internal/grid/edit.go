package grid

import (
	"maps"
	"slices"
)

// EditSession tracks which rows are in edit mode and their pending drafts.
// Each row moves independently between idle and editing.
type EditSession struct {
	editing []string // row ids in the order editing started
	drafts  map[string]Draft
}

// PendingEdit is one row's draft, returned when the session is drained.
type PendingEdit struct {
	ID    string
	Draft Draft
}

// NewEditSession creates an empty session.
func NewEditSession() *EditSession {
	return &EditSession{drafts: make(map[string]Draft)}
}

// Start puts id into edit mode. Starting an already-editing row keeps its draft.
func (e *EditSession) Start(id string) {
	if e.IsEditing(id) {
		return
	}
	e.editing = append(e.editing, id)
}

// IsEditing reports whether id is in edit mode.
func (e *EditSession) IsEditing(id string) bool {
	return slices.Contains(e.editing, id)
}

// Update sets field to value in id's draft, last write wins.
// Returns false if id is not in edit mode.
func (e *EditSession) Update(id, field string, value any) bool {
	if !e.IsEditing(id) {
		return false
	}
	d, ok := e.drafts[id]
	if !ok {
		d = make(Draft)
		e.drafts[id] = d
	}
	d[field] = value
	return true
}

// Draft returns a copy of id's draft.
func (e *EditSession) Draft(id string) (Draft, bool) {
	d, ok := e.drafts[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(d), true
}

// Cancel leaves edit mode for id and discards its draft.
func (e *EditSession) Cancel(id string) {
	if i := slices.Index(e.editing, id); i >= 0 {
		e.editing = slices.Delete(e.editing, i, i+1)
	}
	delete(e.drafts, id)
}

// Take leaves edit mode for id and returns its draft, if any.
func (e *EditSession) Take(id string) (Draft, bool) {
	d, ok := e.drafts[id]
	e.Cancel(id)
	return d, ok && len(d) > 0
}

// Drain returns every non-empty draft of an editing row, in the order
// editing started, and resets the session.
func (e *EditSession) Drain() []PendingEdit {
	var out []PendingEdit
	for _, id := range e.editing {
		if d := e.drafts[id]; len(d) > 0 {
			out = append(out, PendingEdit{ID: id, Draft: d})
		}
	}
	e.Clear()
	return out
}

// Clear leaves edit mode for every row and discards all drafts.
func (e *EditSession) Clear() {
	e.editing = nil
	e.drafts = make(map[string]Draft)
}

// EditingIDs returns the ids in edit mode, in the order editing started.
func (e *EditSession) EditingIDs() []string {
	return slices.Clone(e.editing)
}

// Len returns the number of rows in edit mode.
func (e *EditSession) Len() int {
	return len(e.editing)
}
