// Package checklist turns the final error and warning lists into a markdown
// fix checklist under the cargomate home directory.
package checklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cargomate/internal/cargo"
)

const fileName = "checklist.md"

// Generate writes the checklist for the given diagnostics into dir. Called
// with both lists when either is non-empty.
func Generate(dir string, errors, warnings []cargo.Diagnostic) error {
	var b strings.Builder
	b.WriteString("# Build Checklist\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format(time.RFC1123))
	if len(errors) > 0 {
		fmt.Fprintf(&b, "## Errors (%d)\n\n", len(errors))
		for _, e := range errors {
			writeItem(&b, e)
		}
		b.WriteString("\n")
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings (%d)\n\n", len(warnings))
		for _, w := range warnings {
			writeItem(&b, w)
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create checklist dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, fileName), []byte(b.String()), 0o600)
}

// Load returns the current checklist contents, or "" when none exists.
func Load(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func writeItem(b *strings.Builder, d cargo.Diagnostic) {
	if d.File != "" {
		fmt.Fprintf(b, "- [ ] `%s:%d` [%s] %s\n", d.File, d.Line, d.Code, d.Message)
		return
	}
	fmt.Fprintf(b, "- [ ] [%s] %s\n", d.Code, d.Message)
}
