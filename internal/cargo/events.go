// Package cargo decodes the newline-delimited JSON event stream that cargo
// emits with --message-format=json. Each line is a self-contained object with
// a "reason" field; lines that fail to parse or carry an unmodeled reason are
// dropped by the caller.
package cargo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level classifies a compiler diagnostic.
type Level string

const (
	// LevelError marks a hard compilation error.
	LevelError Level = "error"
	// LevelWarning marks a lint or compiler warning.
	LevelWarning Level = "warning"
	// LevelOther covers notes, helps and everything else that is not
	// surfaced to the user.
	LevelOther Level = "other"
)

// Reason values cargo uses to discriminate event objects.
const (
	reasonCompilerMessage     = "compiler-message"
	reasonCompilerArtifact    = "compiler-artifact"
	reasonBuildScriptExecuted = "build-script-executed"
)

// Event is one decoded line of the cargo stdout stream. Exactly one of the
// pointer fields is set, matching Kind.
type Event struct {
	Kind        EventKind
	Message     *CompilerMessage
	Artifact    *CompilerArtifact
	BuildScript *BuildScript
}

// EventKind discriminates decoded events.
type EventKind int

const (
	// KindCompilerMessage is a diagnostic from rustc.
	KindCompilerMessage EventKind = iota
	// KindCompilerArtifact reports a produced artifact.
	KindCompilerArtifact
	// KindBuildScript reports an executed build script.
	KindBuildScript
)

// CompilerMessage carries a classified diagnostic.
type CompilerMessage struct {
	Level      Level
	Diagnostic Diagnostic
}

// Diagnostic is a normalized compiler diagnostic record.
type Diagnostic struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Rendered string `json:"rendered,omitempty"`
}

// CompilerArtifact reports an output file set produced for a target.
type CompilerArtifact struct {
	PackageID  string
	TargetName string
	Filenames  []string
}

// BuildScript records a build-script execution and its linkage outputs.
type BuildScript struct {
	PackageID   string
	LinkedLibs  []string
	LinkedPaths []string
	Cfgs        []string
}

// Wire-format structs. Field names follow cargo's JSON schema.

type rawMessage struct {
	Reason    string         `json:"reason"`
	Message   *rawDiagnostic `json:"message"`
	PackageID string         `json:"package_id"`
	Target    *rawTarget     `json:"target"`
	Filenames []string       `json:"filenames"`

	LinkedLibs  []string `json:"linked_libs"`
	LinkedPaths []string `json:"linked_paths"`
	Cfgs        []string `json:"cfgs"`
}

type rawDiagnostic struct {
	Message  string    `json:"message"`
	Code     *rawCode  `json:"code"`
	Level    string    `json:"level"`
	Spans    []rawSpan `json:"spans"`
	Rendered string    `json:"rendered"`
}

type rawCode struct {
	Code string `json:"code"`
}

type rawSpan struct {
	FileName    string `json:"file_name"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
}

type rawTarget struct {
	Name string `json:"name"`
}

// Decode turns one line of cargo stdout into an event. The second result is
// false for malformed lines and for reasons this wrapper does not model;
// both are silently skippable per the wire contract.
func Decode(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return Event{}, false
	}
	var raw rawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Event{}, false
	}
	switch raw.Reason {
	case reasonCompilerMessage:
		if raw.Message == nil {
			return Event{}, false
		}
		return Event{
			Kind: KindCompilerMessage,
			Message: &CompilerMessage{
				Level:      classifyLevel(raw.Message.Level),
				Diagnostic: normalizeDiagnostic(raw.Message),
			},
		}, true
	case reasonCompilerArtifact:
		target := ""
		if raw.Target != nil {
			target = raw.Target.Name
		}
		return Event{
			Kind: KindCompilerArtifact,
			Artifact: &CompilerArtifact{
				PackageID:  raw.PackageID,
				TargetName: target,
				Filenames:  raw.Filenames,
			},
		}, true
	case reasonBuildScriptExecuted:
		return Event{
			Kind: KindBuildScript,
			BuildScript: &BuildScript{
				PackageID:   raw.PackageID,
				LinkedLibs:  raw.LinkedLibs,
				LinkedPaths: raw.LinkedPaths,
				Cfgs:        raw.Cfgs,
			},
		}, true
	default:
		return Event{}, false
	}
}

func classifyLevel(level string) Level {
	switch level {
	case "error":
		return LevelError
	case "warning":
		return LevelWarning
	default:
		return LevelOther
	}
}

func normalizeDiagnostic(raw *rawDiagnostic) Diagnostic {
	diag := Diagnostic{
		Message:  raw.Message,
		Rendered: raw.Rendered,
		Code:     "unknown",
	}
	if raw.Code != nil && raw.Code.Code != "" {
		diag.Code = raw.Code.Code
	}
	if len(raw.Spans) > 0 {
		diag.File = raw.Spans[0].FileName
		diag.Line = raw.Spans[0].LineStart
		diag.Column = raw.Spans[0].ColumnStart
	}
	return diag
}

// String renders a diagnostic the way the summary and the persisted result
// files print it.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s:%d - %s", d.Code, d.File, d.Line, d.Message)
}
