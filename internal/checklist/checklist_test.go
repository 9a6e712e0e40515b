package checklist

import (
	"strings"
	"testing"

	"cargomate/internal/cargo"
)

func TestGenerateAndLoad(t *testing.T) {
	dir := t.TempDir()
	errors := []cargo.Diagnostic{
		{Code: "E0308", Message: "mismatched types", File: "src/main.rs", Line: 12},
	}
	warnings := []cargo.Diagnostic{
		{Code: "dead_code", Message: "function `helper` is never used", File: "src/lib.rs", Line: 40},
		{Code: "unknown", Message: "linker produced a warning"},
	}
	if err := Generate(dir, errors, warnings); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, want := range []string{
		"# Build Checklist",
		"## Errors (1)",
		"## Warnings (2)",
		"- [ ] `src/main.rs:12` [E0308] mismatched types",
		"- [ ] [unknown] linker produced a warning",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("checklist missing %q", want)
		}
	}
}

func TestGenerateErrorsOnly(t *testing.T) {
	dir := t.TempDir()
	errors := []cargo.Diagnostic{
		{Code: "E0425", Message: "cannot find value `x`", File: "src/main.rs", Line: 3},
	}
	if err := Generate(dir, errors, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.Contains(content, "## Warnings") {
		t.Error("checklist should omit the warnings section when empty")
	}
}

func TestLoadMissing(t *testing.T) {
	content, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if content != "" {
		t.Errorf("Load on an empty dir = %q, want empty", content)
	}
}
