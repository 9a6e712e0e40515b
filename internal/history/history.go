// Package history persists the results of build invocations under the
// cargomate home directory: plain-text snapshots of the latest run and a
// rolling msgpack session log.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cargomate/internal/cargo"
)

// maxSessions bounds the rolling session log.
const maxSessions = 50

// Session is one recorded invocation.
type Session struct {
	ID        string
	Timestamp time.Time
	Command   string
	Errors    []cargo.Diagnostic
	Warnings  []cargo.Diagnostic
	Success   bool
	Duration  time.Duration
}

// Store reads and writes invocation history rooted at one directory.
type Store struct {
	dir string
}

// Dir resolves the cargomate home directory. CARGOMATE_HOME overrides the
// default ~/.cargomate.
func Dir() (string, error) {
	if dir := os.Getenv("CARGOMATE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cargomate"), nil
}

// Open initializes the store, creating the directory if needed.
func Open() (*Store, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dir)
}

// OpenAt initializes a store rooted at dir.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveLatest writes the plain-text snapshots consumed by `cm view`.
func (s *Store) SaveLatest(errors, warnings []cargo.Diagnostic, artifacts []cargo.CompilerArtifact, scripts []cargo.BuildScript) error {
	var b strings.Builder
	for _, e := range errors {
		fmt.Fprintln(&b, e.String())
	}
	if err := s.writeSnapshot("errors", b.String()); err != nil {
		return err
	}
	b.Reset()
	for _, w := range warnings {
		fmt.Fprintln(&b, w.String())
	}
	if err := s.writeSnapshot("warnings", b.String()); err != nil {
		return err
	}
	b.Reset()
	for _, a := range artifacts {
		fmt.Fprintf(&b, "%s -> %s\n", a.TargetName, strings.Join(a.Filenames, ", "))
	}
	if err := s.writeSnapshot("artifacts", b.String()); err != nil {
		return err
	}
	b.Reset()
	for _, sc := range scripts {
		fmt.Fprintf(&b, "%s -> libs: %d, paths: %d, cfgs: %d\n",
			sc.PackageID, len(sc.LinkedLibs), len(sc.LinkedPaths), len(sc.Cfgs))
	}
	return s.writeSnapshot("scripts", b.String())
}

// Latest returns the plain-text snapshot for one kind
// (errors|warnings|artifacts|scripts).
func (s *Store) Latest(kind string) (string, error) {
	path := filepath.Join(s.dir, kind, "latest.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Append adds a session to the rolling log, trimming the oldest entries past
// the cap, and replaces the log file atomically.
func (s *Store) Append(session Session) error {
	sessions, err := s.Sessions()
	if err != nil {
		// A corrupt log is dropped rather than blocking new history.
		sessions = nil
	}
	sessions = append(sessions, session)
	if len(sessions) > maxSessions {
		sessions = sessions[len(sessions)-maxSessions:]
	}
	return s.writeSessions(sessions)
}

// Sessions returns the recorded sessions, oldest first.
func (s *Store) Sessions() ([]Session, error) {
	path := s.logPath()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var sessions []Session
	if err := msgpack.NewDecoder(f).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode session log: %w", err)
	}
	return sessions, nil
}

// Recent returns up to n sessions, newest first.
func (s *Store) Recent(n int) ([]Session, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, n)
	for i := len(sessions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sessions[i])
	}
	return out, nil
}

func (s *Store) logPath() string {
	return filepath.Join(s.dir, "sessions.mp")
}

func (s *Store) writeSessions(sessions []Session) error {
	path := s.logPath()
	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)
	if err := msgpack.NewEncoder(f).Encode(sessions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace keeps the log readable if we crash mid-write.
	return os.Rename(tmpName, path)
}

func (s *Store) writeSnapshot(kind, content string) error {
	dir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "latest.txt"), []byte(content), 0o600)
}

// NewSessionID returns a unique id for one invocation.
func NewSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d", now.UnixNano())
}
