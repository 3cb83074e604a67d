package grid

import "testing"

func TestRegistry(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(TableDefinition{Info: TableInfo{Key: "zeta"}})
	Register(TableDefinition{Info: TableInfo{Key: "alpha"}})

	if got := TableCount(); got != 2 {
		t.Errorf("TableCount = %d, want 2", got)
	}
	if _, ok := Get("alpha"); !ok {
		t.Error("Get(alpha) not found")
	}
	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) found")
	}

	all := All()
	if len(all) != 2 || all[0].Info.Key != "alpha" || all[1].Info.Key != "zeta" {
		t.Errorf("All order = %v", all)
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(TableDefinition{Info: TableInfo{Key: "dup"}})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate Register")
		}
	}()
	Register(TableDefinition{Info: TableInfo{Key: "dup"}})
}
