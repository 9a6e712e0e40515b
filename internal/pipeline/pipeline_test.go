package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"cargomate/internal/triage"
)

// fakeCargo re-execs the test binary as the child process. The env vars pick
// which canned stream the child emits and how it exits.
func fakeCargo(t *testing.T, script string, exitCode int) *Request {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_SCRIPT", script)
	t.Setenv("HELPER_EXIT_CODE", fmt.Sprintf("%d", exitCode))
	return &Request{
		CargoBin: os.Args[0],
		Args:     []string{"-test.run=TestHelperProcess", "--"},
		Stderr:   &bytes.Buffer{},
		Counters: &Counters{},
	}
}

// TestHelperProcess is not a real test. It is the body of the fake cargo
// child spawned by the pipeline tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("HELPER_SCRIPT") {
	case "two-errors-one-artifact":
		fmt.Println(`{"reason":"compiler-message","message":{"message":"cannot find value ` + "`alpha`" + ` in this scope","code":{"code":"E0425"},"level":"error","spans":[{"file_name":"src/main.rs","line_start":11,"column_start":5}]}}`)
		fmt.Println(`{"reason":"compiler-message","message":{"message":"cannot find value ` + "`beta`" + ` in this scope","code":{"code":"E0425"},"level":"error","spans":[{"file_name":"src/main.rs","line_start":14,"column_start":9}]}}`)
		fmt.Println(`{"reason":"compiler-artifact","package_id":"app 0.1.0","target":{"name":"app"},"filenames":["/target/debug/app"]}`)
	case "mixed-with-noise":
		fmt.Println("Compiling app v0.1.0")
		fmt.Println(`{"reason":"compiler-message","message":{"message":"unused variable: ` + "`x`" + `","level":"warning","spans":[{"file_name":"src/lib.rs","line_start":3,"column_start":9}]}}`)
		fmt.Println(`{"reason":"build-finished","success":true}`)
		fmt.Println(`{"reason":"compiler-message","message":{"message":"consider prefixing with an underscore","level":"help","spans":[]}}`)
		fmt.Println(`{"reason":"build-script-executed","package_id":"libc 0.2.0","linked_libs":[],"linked_paths":[],"cfgs":["freebsd11"]}`)
		fmt.Fprintln(os.Stderr, "warning: unused variable")
	case "silent":
	}
	code := 0
	fmt.Sscanf(os.Getenv("HELPER_EXIT_CODE"), "%d", &code)
	os.Exit(code)
}

func TestRunCollectsAndGroups(t *testing.T) {
	req := fakeCargo(t, "two-errors-one-artifact", 101)
	result, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome.ErrorCount != 2 {
		t.Errorf("ErrorCount = %d, want 2", result.Outcome.ErrorCount)
	}
	if result.Outcome.Success {
		t.Error("Success = true for a failing child")
	}
	if result.ExitCode != 101 {
		t.Errorf("ExitCode = %d, want 101", result.ExitCode)
	}
	if !result.Outcome.HasRecurringErrors {
		t.Error("two errors in one class should flag recurring errors")
	}
	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1 (same message shape, same line bucket)", len(result.Groups))
	}
	if result.Groups[0].Count != 2 {
		t.Errorf("group Count = %d, want 2", result.Groups[0].Count)
	}
	if len(result.Artifacts) != 1 {
		t.Errorf("got %d artifacts, want 1", len(result.Artifacts))
	}
	if req.Counters.Errors() != 2 || req.Counters.Artifacts() != 1 {
		t.Errorf("counters = %d errors / %d artifacts, want 2 / 1",
			req.Counters.Errors(), req.Counters.Artifacts())
	}
	if len(result.Prioritized) != 2 {
		t.Errorf("len(Prioritized) = %d, want 2", len(result.Prioritized))
	}
}

func TestRunToleratesNoise(t *testing.T) {
	var stderr bytes.Buffer
	req := fakeCargo(t, "mixed-with-noise", 0)
	req.Stderr = &stderr
	result, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Outcome.Success {
		t.Error("Success = false for a passing child")
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if result.Outcome.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", result.Outcome.ErrorCount)
	}
	if result.Outcome.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1 (help lines are not warnings)", result.Outcome.WarningCount)
	}
	if len(result.BuildScripts) != 1 {
		t.Errorf("got %d build scripts, want 1", len(result.BuildScripts))
	}
	if !strings.Contains(stderr.String(), "warning: unused variable") {
		t.Errorf("child stderr not forwarded, got %q", stderr.String())
	}
}

func TestRunEmptyStream(t *testing.T) {
	req := fakeCargo(t, "silent", 0)
	result, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome.ErrorCount != 0 || result.Outcome.WarningCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", result.Outcome.ErrorCount, result.Outcome.WarningCount)
	}
	if result.Outcome.HasRecurringErrors {
		t.Error("HasRecurringErrors = true for an empty stream")
	}
	if len(result.Groups) != 0 {
		t.Errorf("got %d groups, want 0", len(result.Groups))
	}
}

func TestRunSpawnFailureIsFatal(t *testing.T) {
	req := &Request{
		CargoBin: "/nonexistent/cargo-binary",
		Args:     []string{"build"},
		Stderr:   &bytes.Buffer{},
	}
	if _, err := Run(context.Background(), req); err == nil {
		t.Fatal("expected an error when the binary cannot be spawned")
	}
}

func TestRunNilRequest(t *testing.T) {
	if _, err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil request")
	}
}

func TestRunEmitsProgressEvents(t *testing.T) {
	req := fakeCargo(t, "two-errors-one-artifact", 101)
	var events []Event
	req.Progress = sinkFunc(func(evt Event) { events = append(events, evt) })
	if _, err := Run(context.Background(), req); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	last := events[len(events)-1]
	if last.Counts.Errors != 2 || last.Counts.Artifacts != 1 {
		t.Errorf("final snapshot = %+v, want 2 errors and 1 artifact", last.Counts)
	}
}

func TestRunCoachSeesRecurringErrors(t *testing.T) {
	req := fakeCargo(t, "two-errors-one-artifact", 101)
	req.Thresholds = triage.CoachThresholds{
		SlowBuild:    time.Hour,
		ManyWarnings: 1 << 30,
		ManyErrors:   1 << 30,
	}
	result, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(result.Tip, "Recurring error") {
		t.Errorf("Tip = %q, want the recurring-error tip", result.Tip)
	}
}

type sinkFunc func(Event)

func (f sinkFunc) OnEvent(evt Event) { f(evt) }
