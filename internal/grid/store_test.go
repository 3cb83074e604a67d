package grid

import (
	"slices"
	"testing"
)

func TestRecordStore_AppendPreservesOrder(t *testing.T) {
	s := NewRecordStore(row("1", nil), row("2", nil))
	s.Append(row("3", nil), row("4", nil))

	if got, want := ids(s.Snapshot()), []string{"1", "2", "3", "4"}; !slices.Equal(got, want) {
		t.Errorf("Snapshot ids = %v, want %v", got, want)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestRecordStore_Remove(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantOK  bool
		wantIDs []string
	}{
		{"first", "1", true, []string{"2", "3"}},
		{"middle", "2", true, []string{"1", "3"}},
		{"last", "3", true, []string{"1", "2"}},
		{"unknown id is a no-op", "9", false, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRecordStore(row("1", nil), row("2", nil), row("3", nil))
			if ok := s.Remove(tt.id); ok != tt.wantOK {
				t.Errorf("Remove(%q) = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if got := ids(s.Snapshot()); !slices.Equal(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			for _, id := range tt.wantIDs {
				if _, ok := s.Get(id); !ok {
					t.Errorf("Get(%q) missing after Remove", id)
				}
			}
		})
	}
}

func TestRecordStore_ApplyFieldUpdates(t *testing.T) {
	s := NewRecordStore(row("1", map[string]any{"name": "Ann", "age": 30.0}))

	if !s.ApplyFieldUpdates("1", map[string]any{"name": "Anna", "age": nil}) {
		t.Fatal("ApplyFieldUpdates returned false for existing row")
	}

	r, _ := s.Get("1")
	if r.Fields["name"] != "Anna" {
		t.Errorf("name = %v, want Anna", r.Fields["name"])
	}
	if _, ok := r.Get("age"); ok {
		t.Errorf("age still present after nil update")
	}

	if s.ApplyFieldUpdates("missing", map[string]any{"name": "X"}) {
		t.Error("ApplyFieldUpdates returned true for unknown id")
	}
}

func TestRecordStore_SnapshotIsolation(t *testing.T) {
	s := NewRecordStore(row("1", map[string]any{"name": "Ann"}))
	before := s.Snapshot()

	s.ApplyFieldUpdates("1", map[string]any{"name": "Bob"})
	s.Append(row("2", nil))

	if before[0].Fields["name"] != "Ann" {
		t.Errorf("earlier snapshot changed: name = %v", before[0].Fields["name"])
	}
	if len(before) != 1 {
		t.Errorf("earlier snapshot len = %d, want 1", len(before))
	}
}

func TestRecordStore_AppendCopiesFields(t *testing.T) {
	fields := map[string]any{"name": "Ann"}
	s := NewRecordStore(row("1", fields))
	fields["name"] = "changed"

	r, _ := s.Get("1")
	if r.Fields["name"] != "Ann" {
		t.Errorf("store row shares caller map: name = %v", r.Fields["name"])
	}
}
