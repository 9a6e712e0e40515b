// Package pipeline runs one cargo invocation end-to-end: it spawns the
// compiler with structured output requested, consumes stdout and stderr
// concurrently, classifies events, and assembles the final outcome.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"cargomate/internal/cargo"
	"cargomate/internal/observ"
	"cargomate/internal/triage"
)

// maxLineBytes bounds one stdout line. Rendered diagnostics for macro-heavy
// code can run long.
const maxLineBytes = 4 << 20

// Request configures one build invocation.
type Request struct {
	// CargoBin is the compiler binary. Empty means "cargo".
	CargoBin string
	// Args are the cargo arguments, e.g. ["build", "--release"].
	// --message-format=json is appended by the pipeline.
	Args []string
	// Progress receives live events; nil disables progress reporting.
	Progress ProgressSink
	// Counters are the shared live tallies. Nil means the pipeline
	// allocates its own. A UI that polls counters passes the same
	// instance here.
	Counters *Counters
	// Stderr receives the child's stderr verbatim. Nil means os.Stderr.
	Stderr io.Writer
	// Thresholds tune the coaching tips. Zero value means defaults.
	Thresholds triage.CoachThresholds
}

// Result captures everything one invocation produced.
type Result struct {
	Outcome      triage.Outcome
	Errors       []cargo.Diagnostic
	Warnings     []cargo.Diagnostic
	Prioritized  []cargo.Diagnostic
	Groups       []triage.Group
	Artifacts    []cargo.CompilerArtifact
	BuildScripts []cargo.BuildScript
	Tip          string
	// ExitCode is the child's exit code; the wrapper mirrors it.
	ExitCode int
	Timer    *observ.Timer
}

// Run executes cargo and consumes its event stream. A spawn failure is the
// only fatal error; everything after a successful spawn produces a Result.
func Run(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing pipeline request")
	}
	cargoBin := req.CargoBin
	if cargoBin == "" {
		cargoBin = "cargo"
	}
	counters := req.Counters
	if counters == nil {
		counters = &Counters{}
	}
	stderrOut := req.Stderr
	if stderrOut == nil {
		stderrOut = os.Stderr
	}
	thresholds := req.Thresholds
	if thresholds == (triage.CoachThresholds{}) {
		thresholds = triage.DefaultCoachThresholds()
	}

	dedup := triage.NewDeduplicator()
	prioritizer := triage.NewPrioritizer()
	coach := triage.NewCoach(thresholds)
	timer := observ.NewTimer()
	result.Timer = timer

	start := time.Now()
	spawnPhase := timer.Begin("spawn")

	args := append(append([]string{}, req.Args...), "--message-format=json")
	cmd := exec.CommandContext(ctx, cargoBin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return result, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return result, fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return result, fmt.Errorf("failed to start %s: %w", cargoBin, err)
	}
	timer.End(spawnPhase, "")

	// The only other execution context: drain stderr verbatim while this
	// goroutine owns stdout. The two streams are independent and are
	// never interleaved by assumed timing.
	g := &errgroup.Group{}
	g.Go(func() error {
		return drainStderr(stderr, stderrOut)
	})

	streamPhase := timer.Begin("stream")
	lines := 0
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		event, ok := cargo.Decode(scanner.Text())
		if !ok {
			// Malformed or unrecognized line: skipped, no counter
			// moves, processing continues.
			continue
		}
		lines++
		switch event.Kind {
		case cargo.KindCompilerMessage:
			msg := event.Message
			switch msg.Level {
			case cargo.LevelError:
				result.Errors = append(result.Errors, msg.Diagnostic)
				counters.addError()
				dedup.Process([]cargo.Diagnostic{msg.Diagnostic})
				emit(req.Progress, Event{
					Counts: counters.Snapshot(),
					Detail: msg.Diagnostic.Message,
				})
			case cargo.LevelWarning:
				result.Warnings = append(result.Warnings, msg.Diagnostic)
				counters.addWarning()
				emit(req.Progress, Event{
					Counts: counters.Snapshot(),
					Detail: msg.Diagnostic.Message,
				})
			default:
				// Notes and helps stay out of the tallies.
			}
		case cargo.KindCompilerArtifact:
			result.Artifacts = append(result.Artifacts, *event.Artifact)
			counters.addArtifact()
			emit(req.Progress, Event{
				Counts: counters.Snapshot(),
				Detail: event.Artifact.TargetName,
			})
		case cargo.KindBuildScript:
			result.BuildScripts = append(result.BuildScripts, *event.BuildScript)
			counters.addArtifact()
			emit(req.Progress, Event{
				Counts: counters.Snapshot(),
				Detail: event.BuildScript.PackageID,
			})
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		// The stream broke mid-build; report and carry on with what was
		// collected. The child's exit status still decides success.
		fmt.Fprintf(stderrOut, "cm: stdout stream error: %v\n", scanErr)
	}
	timer.End(streamPhase, fmt.Sprintf("%d events", lines))

	waitPhase := timer.Begin("wait")
	if drainErr := g.Wait(); drainErr != nil {
		// Degraded but not fatal: the outcome is built from whatever
		// stdout delivered.
		fmt.Fprintf(stderrOut, "cm: stderr drain failed: %v\n", drainErr)
	}
	exitCode := 0
	waitErr := cmd.Wait()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			fmt.Fprintf(stderrOut, "cm: wait failed: %v\n", waitErr)
			exitCode = 1
		}
	}
	timer.End(waitPhase, "")
	result.ExitCode = exitCode

	result.Outcome = triage.Outcome{
		Elapsed:            time.Since(start),
		WarningCount:       len(result.Warnings),
		ErrorCount:         len(result.Errors),
		HasRecurringErrors: len(result.Errors) > 0 && counters.Errors() > 1,
		Success:            waitErr == nil,
	}
	result.Prioritized = prioritizer.Sort(result.Errors)
	result.Groups = dedup.Process(nil)
	result.Tip = coach.Tip(result.Outcome)
	return result, nil
}

// drainStderr forwards the child's raw error stream to out as it arrives.
func drainStderr(r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		fmt.Fprintln(out, scanner.Text())
	}
	return scanner.Err()
}
