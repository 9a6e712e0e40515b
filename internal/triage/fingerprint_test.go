package triage

import (
	"testing"

	"cargomate/internal/cargo"
)

func diag(msg, file string, line int) cargo.Diagnostic {
	return cargo.Diagnostic{Code: "E0308", Message: msg, File: file, Line: line}
}

func TestFingerprintStableWithinLineBucket(t *testing.T) {
	a := Fingerprint(diag("mismatched types", "src/lib.rs", 12))
	b := Fingerprint(diag("mismatched types", "src/lib.rs", 17))
	if a != b {
		t.Error("errors in the same ten-line window should share a fingerprint")
	}
}

func TestFingerprintSensitiveToLineBucket(t *testing.T) {
	a := Fingerprint(diag("mismatched types", "src/lib.rs", 12))
	b := Fingerprint(diag("mismatched types", "src/lib.rs", 22))
	if a == b {
		t.Error("errors in different ten-line windows should not collide")
	}
}

func TestFingerprintSensitiveToFile(t *testing.T) {
	a := Fingerprint(diag("mismatched types", "src/lib.rs", 12))
	b := Fingerprint(diag("mismatched types", "src/main.rs", 12))
	if a == b {
		t.Error("same message in different files should not collide")
	}
}

func TestFingerprintCollapsesBacktickIdentifiers(t *testing.T) {
	a := Fingerprint(diag("cannot find value `foo` in this scope", "src/lib.rs", 3))
	b := Fingerprint(diag("cannot find value `bar` in this scope", "src/lib.rs", 3))
	if a != b {
		t.Error("backtick identifiers should normalize to the same fingerprint")
	}
}

func TestFingerprintKeepsUnquotedWords(t *testing.T) {
	a := Fingerprint(diag("cannot find value foo", "src/lib.rs", 3))
	b := Fingerprint(diag("cannot find value bar", "src/lib.rs", 3))
	if a == b {
		t.Error("unquoted words are significant and should not collapse")
	}
}

func TestFingerprintNoLocation(t *testing.T) {
	a := Fingerprint(cargo.Diagnostic{Message: "linker `cc` not found"})
	b := Fingerprint(cargo.Diagnostic{Message: "linker `ld` not found"})
	if a != b {
		t.Error("location-free diagnostics should hash on the normalized message alone")
	}
	if a == "" {
		t.Error("fingerprint should never be empty")
	}
}

func TestNormalizeMessageWhitespace(t *testing.T) {
	got := normalizeMessage("  unused   variable:  `x`\t")
	want := "unused variable: `<identifier>`"
	if got != want {
		t.Errorf("normalizeMessage = %q, want %q", got, want)
	}
}
