package triage

import (
	"path/filepath"
	"sort"
	"strings"

	"cargomate/internal/cargo"
)

// Weights tune the heuristic error ordering.
type Weights struct {
	NeverSeenBefore     float32
	BlockingCompilation float32
	HasQuickFix         float32
	FrequentlyIgnored   float32
	InDependency        float32
	TestOnly            float32
}

// DefaultWeights mirrors the shipped scoring table.
func DefaultWeights() Weights {
	return Weights{
		NeverSeenBefore:     10.0,
		BlockingCompilation: 8.0,
		HasQuickFix:         -2.0,
		FrequentlyIgnored:   -5.0,
		InDependency:        -3.0,
		TestOnly:            -1.0,
	}
}

// Prioritizer orders errors so the ones most worth fixing first come first.
// It keeps no state between calls.
type Prioritizer struct {
	weights Weights
}

// NewPrioritizer returns a prioritizer with the default weights.
func NewPrioritizer() *Prioritizer {
	return &Prioritizer{weights: DefaultWeights()}
}

// Sort returns the errors reordered by descending score. The input slice is
// not modified.
func (p *Prioritizer) Sort(errors []cargo.Diagnostic) []cargo.Diagnostic {
	type scored struct {
		err   cargo.Diagnostic
		score float32
	}
	scoredErrors := make([]scored, len(errors))
	for i, err := range errors {
		scoredErrors[i] = scored{err: err, score: p.Score(err)}
	}
	sort.SliceStable(scoredErrors, func(i, j int) bool {
		return scoredErrors[i].score > scoredErrors[j].score
	})
	out := make([]cargo.Diagnostic, len(scoredErrors))
	for i, s := range scoredErrors {
		out[i] = s.err
	}
	return out
}

// Score computes the heuristic score for one error. Scores are bounded sums
// of constants, never NaN.
func (p *Prioritizer) Score(err cargo.Diagnostic) float32 {
	score := float32(5.0)
	// No cross-run memory is threaded in, so every error counts as new.
	// The weight is applied unconditionally.
	score += p.weights.NeverSeenBefore
	if p.hasKnownFix(err) {
		score += p.weights.HasQuickFix
	}
	if strings.Contains(err.File, "/dependencies/") {
		score += p.weights.InDependency
	}
	if isTestPath(err.File) {
		score += p.weights.TestOnly
	}
	return score
}

// hasKnownFix is a hook for a quick-fix catalog. No catalog ships yet, so it
// never fires.
func (p *Prioritizer) hasKnownFix(cargo.Diagnostic) bool {
	return false
}

func isTestPath(file string) bool {
	if strings.Contains(file, "/tests/") {
		return true
	}
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return strings.HasSuffix(base, "_test")
}
