package triage

import (
	"testing"

	"cargomate/internal/cargo"
)

func TestScoreBaseline(t *testing.T) {
	p := NewPrioritizer()
	got := p.Score(diag("mismatched types", "src/lib.rs", 10))
	// 5.0 base plus the unconditional novelty weight.
	if got != 15.0 {
		t.Errorf("Score = %v, want 15.0", got)
	}
}

func TestScoreDependencyPenalty(t *testing.T) {
	p := NewPrioritizer()
	inProject := p.Score(diag("mismatched types", "src/lib.rs", 10))
	inDep := p.Score(diag("mismatched types", "target/dependencies/serde/src/de.rs", 10))
	if inProject-inDep != 3.0 {
		t.Errorf("dependency penalty = %v, want 3.0", inProject-inDep)
	}
}

func TestScoreTestPenalty(t *testing.T) {
	p := NewPrioritizer()
	tests := []struct {
		file string
		want float32
	}{
		{"tests/integration.rs", 15.0},
		{"crate/tests/integration.rs", 14.0},
		{"src/parser_test.rs", 14.0},
		{"src/testing.rs", 15.0},
	}
	for _, tt := range tests {
		if got := p.Score(diag("m", tt.file, 1)); got != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestSortPutsProjectErrorsFirst(t *testing.T) {
	p := NewPrioritizer()
	in := []cargo.Diagnostic{
		diag("dep error", "target/dependencies/libc/src/lib.rs", 1),
		diag("test error", "crate/tests/smoke.rs", 1),
		diag("project error", "src/main.rs", 1),
	}
	out := p.Sort(in)
	if out[0].Message != "project error" {
		t.Errorf("first = %q, want project error", out[0].Message)
	}
	if out[1].Message != "test error" {
		t.Errorf("second = %q, want test error", out[1].Message)
	}
	if out[2].Message != "dep error" {
		t.Errorf("third = %q, want dep error", out[2].Message)
	}
	if in[0].Message != "dep error" {
		t.Error("Sort must not reorder its input slice")
	}
}

func TestSortIsStableForEqualScores(t *testing.T) {
	p := NewPrioritizer()
	in := []cargo.Diagnostic{
		diag("first", "src/a.rs", 1),
		diag("second", "src/b.rs", 1),
		diag("third", "src/c.rs", 1),
	}
	out := p.Sort(in)
	for i, want := range []string{"first", "second", "third"} {
		if out[i].Message != want {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Message, want)
		}
	}
}
