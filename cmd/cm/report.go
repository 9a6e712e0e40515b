package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"cargomate/internal/cargo"
	"cargomate/internal/checklist"
	"cargomate/internal/history"
	"cargomate/internal/metrics"
	"cargomate/internal/pipeline"
	"cargomate/internal/triage"
)

var (
	headerColor  = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	hintColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// report prints the post-run summary and hands the results to the
// collaborators. Collaborator failures are advisory: they are printed and
// never change the outcome or the exit code.
func report(result pipeline.Result, args []string, quiet bool) {
	if result.Tip != "" {
		fmt.Println()
		hintColor.Println(result.Tip)
	}

	saveResults(result, args)
	recordMetrics(result, args)

	if !quiet {
		printSummary(result)
		if len(result.Prioritized) > 0 {
			printErrorGroups(result.Groups)
		}
	}

	if len(result.Errors) > 0 || len(result.Warnings) > 0 {
		generateChecklist(result)
		if !quiet {
			fmt.Printf("\nRun %s to see your checklist\n", hintColor.Sprint("cm checklist"))
		}
	}
	if !quiet {
		printViewHints()
	}
}

func printSummary(result pipeline.Result) {
	rule := headerColor.Sprint(strings.Repeat("=", 60))
	fmt.Println("\n" + rule)
	if result.Outcome.Success && len(result.Errors) == 0 {
		successColor.Println("Build succeeded")
	} else {
		failureColor.Println("Build failed")
	}
	fmt.Printf("time: %.1fs  artifacts: %d  build scripts: %d\n",
		result.Outcome.Elapsed.Seconds(), len(result.Artifacts), len(result.BuildScripts))

	printDiagnosticList("error", errorColor, result.Prioritized)
	printDiagnosticList("warning", warningColor, result.Warnings)
	fmt.Println(rule)
}

func printDiagnosticList(label string, c *color.Color, diags []cargo.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Println()
	c.Printf("%d %s(s):\n", len(diags), label)
	for i, d := range diags {
		if i == 3 {
			fmt.Printf("  ... and %d more\n", len(diags)-3)
			break
		}
		fmt.Printf("  %d. %s\n", i+1, d)
	}
}

func printErrorGroups(groups []triage.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Println()
	errorColor.Printf("%d unique error pattern(s):\n", len(groups))
	for i, group := range groups {
		if i == 5 {
			break
		}
		fmt.Printf("  %d. %s (%dx across %d locations)\n",
			i+1, group.Primary.Message, group.Count, len(group.Locations))
		if len(group.Variations) > 1 {
			dimColor.Printf("     %d similar variations grouped\n", len(group.Variations))
		}
	}
}

func printViewHints() {
	fmt.Println("\nview options:")
	fmt.Printf("  %s - latest errors and warnings\n", hintColor.Sprint("cm view errors"))
	fmt.Printf("  %s - generated files\n", hintColor.Sprint("cm view artifacts"))
	fmt.Printf("  %s - build script outputs\n", hintColor.Sprint("cm view scripts"))
	fmt.Printf("  %s - recent build sessions\n", hintColor.Sprint("cm history"))
	fmt.Printf("  %s - build statistics\n", hintColor.Sprint("cm stats"))
}

func saveResults(result pipeline.Result, args []string) {
	store, err := history.Open()
	if err != nil {
		advisory("save results", err)
		return
	}
	if err := store.SaveLatest(result.Errors, result.Warnings, result.Artifacts, result.BuildScripts); err != nil {
		advisory("save results", err)
	}
	now := time.Now()
	session := history.Session{
		ID:        history.NewSessionID(now),
		Timestamp: now,
		Command:   "cargo " + strings.Join(args, " "),
		Errors:    result.Errors,
		Warnings:  result.Warnings,
		Success:   result.Outcome.Success,
		Duration:  result.Outcome.Elapsed,
	}
	if err := store.Append(session); err != nil {
		advisory("record session", err)
	}
}

func recordMetrics(result pipeline.Result, args []string) {
	dir, err := history.Dir()
	if err != nil {
		advisory("record metrics", err)
		return
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		advisory("record metrics", err)
		return
	}
	store, err := metrics.Open(dir)
	if err != nil {
		advisory("record metrics", err)
		return
	}
	defer store.Close()
	err = store.Record(metrics.Build{
		Timestamp:            time.Now(),
		Command:              "cargo " + strings.Join(args, " "),
		Duration:             result.Outcome.Elapsed,
		Success:              result.Outcome.Success,
		ErrorCount:           result.Outcome.ErrorCount,
		WarningCount:         result.Outcome.WarningCount,
		Incremental:          metrics.Incremental(args),
		Profile:              metrics.Profile(args),
		Features:             metrics.Features(args),
		DependenciesCompiled: dependenciesCompiled(result.Artifacts),
		CrateUnitsCompiled:   len(result.Artifacts),
	})
	if err != nil {
		advisory("record metrics", err)
	}
}

func generateChecklist(result pipeline.Result) {
	dir, err := history.Dir()
	if err != nil {
		advisory("generate checklist", err)
		return
	}
	if err := checklist.Generate(dir, result.Errors, result.Warnings); err != nil {
		advisory("generate checklist", err)
	}
}

// dependenciesCompiled counts distinct package ids among the artifacts,
// minus the final one, which is the workspace crate itself on a successful
// build.
func dependenciesCompiled(artifacts []cargo.CompilerArtifact) int {
	seen := make(map[string]struct{}, len(artifacts))
	for _, a := range artifacts {
		if a.PackageID != "" {
			seen[a.PackageID] = struct{}{}
		}
	}
	if len(seen) > 0 {
		return len(seen) - 1
	}
	return 0
}

func advisory(what string, err error) {
	fmt.Fprintf(os.Stderr, "cm: failed to %s: %v\n", what, err)
}
