package pipeline

import (
	"sync/atomic"

	"fortio.org/safecast"
)

// Counters are the live error/warning/artifact tallies shared between the
// stdout reader and the UI ticker. Plain atomics with relaxed semantics are
// enough: the values are monotonic within a run and read only for display,
// never for correctness decisions.
type Counters struct {
	errors    atomic.Int64
	warnings  atomic.Int64
	artifacts atomic.Int64
}

// Snapshot is a point-in-time read of the counters.
type Snapshot struct {
	Errors    int
	Warnings  int
	Artifacts int
}

func (c *Counters) addError()    { c.errors.Add(1) }
func (c *Counters) addWarning()  { c.warnings.Add(1) }
func (c *Counters) addArtifact() { c.artifacts.Add(1) }

// Errors returns the error tally.
func (c *Counters) Errors() int { return toInt(c.errors.Load()) }

// Warnings returns the warning tally.
func (c *Counters) Warnings() int { return toInt(c.warnings.Load()) }

// Artifacts returns the artifact tally.
func (c *Counters) Artifacts() int { return toInt(c.artifacts.Load()) }

// Snapshot reads all three counters. The three loads are not mutually
// atomic; a snapshot may straddle an update, which is fine for display.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Errors:    c.Errors(),
		Warnings:  c.Warnings(),
		Artifacts: c.Artifacts(),
	}
}

func toInt(v int64) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0
	}
	return n
}
