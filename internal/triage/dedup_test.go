package triage

import (
	"fmt"
	"testing"

	"cargomate/internal/cargo"
)

func TestDeduplicatorFoldsEquivalentErrors(t *testing.T) {
	d := NewDeduplicator()
	groups := d.Process([]cargo.Diagnostic{
		diag("cannot find value `a` in this scope", "src/lib.rs", 11),
		diag("cannot find value `b` in this scope", "src/lib.rs", 14),
		diag("cannot find value `c` in this scope", "src/lib.rs", 19),
	})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Count != 3 {
		t.Errorf("Count = %d, want 3", g.Count)
	}
	if len(g.Variations) != 3 {
		t.Errorf("len(Variations) = %d, want 3", len(g.Variations))
	}
	if len(g.Locations) != 3 {
		t.Errorf("len(Locations) = %d, want 3 distinct file:line entries", len(g.Locations))
	}
	if g.Primary.Message != "cannot find value `a` in this scope" {
		t.Errorf("Primary should be the first seen, got %q", g.Primary.Message)
	}
}

func TestDeduplicatorAccumulatesAcrossBatches(t *testing.T) {
	d := NewDeduplicator()
	d.Process([]cargo.Diagnostic{diag("mismatched types", "src/a.rs", 5)})
	groups := d.Process([]cargo.Diagnostic{diag("mismatched types", "src/a.rs", 7)})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Count != 2 {
		t.Errorf("Count = %d, want 2 after two batches", groups[0].Count)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestDeduplicatorOrdersByCountDescending(t *testing.T) {
	d := NewDeduplicator()
	var batch []cargo.Diagnostic
	for _, counts := range []struct {
		msg string
		n   int
	}{{"one", 1}, {"five", 5}, {"three", 3}} {
		for i := 0; i < counts.n; i++ {
			batch = append(batch, diag(counts.msg, "src/lib.rs", 1))
		}
	}
	groups := d.Process(batch)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	want := []int{5, 3, 1}
	for i, g := range groups {
		if g.Count != want[i] {
			t.Errorf("groups[%d].Count = %d, want %d", i, g.Count, want[i])
		}
	}
}

func TestDeduplicatorDistinctLocationsOnly(t *testing.T) {
	d := NewDeduplicator()
	groups := d.Process([]cargo.Diagnostic{
		diag("unused variable: `x`", "src/lib.rs", 5),
		diag("unused variable: `x`", "src/lib.rs", 5),
	})
	if len(groups[0].Locations) != 1 {
		t.Errorf("len(Locations) = %d, want 1 for identical file:line", len(groups[0].Locations))
	}
	if _, ok := groups[0].Locations[fmt.Sprintf("%s:%d", "src/lib.rs", 5)]; !ok {
		t.Error("missing src/lib.rs:5 in Locations")
	}
}

func TestDeduplicatorSkipsLocationForSpanlessError(t *testing.T) {
	d := NewDeduplicator()
	groups := d.Process([]cargo.Diagnostic{{Message: "linker failed"}})
	if len(groups[0].Locations) != 0 {
		t.Errorf("len(Locations) = %d, want 0 for spanless error", len(groups[0].Locations))
	}
}
