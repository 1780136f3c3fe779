package manifest

import "testing"

func testCollection() *Collection {
	return NewCollection([]Record{
		{Name: "a", Status: Activated, OriginalStatus: Activated, Ordinal: 0},
		{Name: "b", Status: UserDisabled, OriginalStatus: UserDisabled, Ordinal: 1},
		{Name: "c", Status: SystemDisabled, OriginalStatus: SystemDisabled, Ordinal: 2},
		{Name: "d", Status: Activated, OriginalStatus: Activated, Ordinal: 3},
	})
}

func TestSetStatus(t *testing.T) {
	c := testCollection()

	if !c.SetStatus(0, UserDisabled) {
		t.Error("SetStatus on writable record failed")
	}
	if c.Get(0).Status != UserDisabled {
		t.Errorf("status = %v, want UserDisabled", c.Get(0).Status)
	}

	// Out-of-range and invalid status are rejected.
	if c.SetStatus(-1, Activated) || c.SetStatus(99, Activated) {
		t.Error("SetStatus accepted out-of-range index")
	}
	if c.SetStatus(0, Status("Bogus")) {
		t.Error("SetStatus accepted unknown status")
	}
}

func TestSetStatusSystemDisabledImmutable(t *testing.T) {
	c := testCollection()

	if c.SetStatus(2, Activated) {
		t.Error("SetStatus on SystemDisabled record reported success")
	}
	if c.Get(2).Status != SystemDisabled {
		t.Errorf("SystemDisabled record mutated to %v", c.Get(2).Status)
	}
	if c.SetStatusByName("c", UserDisabled) {
		t.Error("SetStatusByName on SystemDisabled record reported success")
	}
}

func TestDirtyTracking(t *testing.T) {
	c := testCollection()

	if len(c.DirtyChanges()) != 0 {
		t.Fatal("fresh collection is dirty")
	}

	c.SetStatus(0, UserDisabled)
	c.SetStatus(3, UserDisabled)
	if got := len(c.DirtyChanges()); got != 2 {
		t.Fatalf("dirty count = %d, want 2", got)
	}

	// Reverting to the original value clears dirtiness without ClearDirty.
	c.SetStatus(0, Activated)
	dirty := c.DirtyChanges()
	if len(dirty) != 1 || dirty[0].Name != "d" {
		t.Errorf("dirty after revert = %+v", dirty)
	}

	c.ClearDirty()
	if len(c.DirtyChanges()) != 0 {
		t.Error("dirty after ClearDirty")
	}
	if c.Get(3).OriginalStatus != UserDisabled {
		t.Error("ClearDirty did not snapshot current status")
	}
}

func TestDirtyChangesOrderedByOrdinal(t *testing.T) {
	c := testCollection()

	// Mutate in reverse file order.
	c.SetStatus(3, UserDisabled)
	c.SetStatus(1, Activated)
	c.SetStatus(0, UserDisabled)

	dirty := c.DirtyChanges()
	if len(dirty) != 3 {
		t.Fatalf("dirty count = %d, want 3", len(dirty))
	}
	for i := 1; i < len(dirty); i++ {
		if dirty[i-1].Ordinal > dirty[i].Ordinal {
			t.Errorf("dirty changes out of ordinal order: %+v", dirty)
		}
	}
}

func TestBulkSet(t *testing.T) {
	c := testCollection()

	// Includes a SystemDisabled record, an already-matching record, and an
	// out-of-range index; only real transitions count.
	changed := c.BulkSet([]int{0, 1, 2, 3, 99}, UserDisabled)
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
	if c.Get(2).Status != SystemDisabled {
		t.Error("BulkSet mutated SystemDisabled record")
	}
}

func TestByNameLastSeenWins(t *testing.T) {
	c := NewCollection([]Record{
		{Name: "dup", Status: Activated, Ordinal: 0},
		{Name: "dup", Status: UserDisabled, Ordinal: 1},
	})
	if i := c.ByName("dup"); i != 1 {
		t.Errorf("ByName = %d, want 1", i)
	}
	if i := c.ByName("missing"); i != -1 {
		t.Errorf("ByName missing = %d, want -1", i)
	}
	if got := c.Statuses()["dup"]; got != UserDisabled {
		t.Errorf("Statuses[dup] = %v, want UserDisabled", got)
	}
}

func TestNewCollectionDefaultsOriginalStatus(t *testing.T) {
	c := NewCollection([]Record{{Name: "x", Status: UserDisabled}})
	if c.Get(0).OriginalStatus != UserDisabled {
		t.Errorf("OriginalStatus = %v, want UserDisabled", c.Get(0).OriginalStatus)
	}
	if c.Get(0).Dirty() {
		t.Error("freshly built record is dirty")
	}
}
