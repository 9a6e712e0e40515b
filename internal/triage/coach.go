package triage

import "time"

// Outcome is the final summary of one build invocation, consumed by the
// coaching engine and the external reporters.
type Outcome struct {
	Elapsed            time.Duration
	WarningCount       int
	ErrorCount         int
	HasRecurringErrors bool
	Success            bool
}

// Condition triggers a coaching tip from a build outcome.
type Condition interface {
	Matches(Outcome) bool
}

// SlowBuild fires when the build took longer than the threshold.
type SlowBuild struct{ Threshold time.Duration }

// ManyWarnings fires when the warning count exceeds the threshold.
type ManyWarnings struct{ Threshold int }

// RecurringErrors fires when the same error class was seen more than once.
type RecurringErrors struct{}

// LargeErrorCount fires when the error count exceeds the threshold.
type LargeErrorCount struct{ Threshold int }

func (c SlowBuild) Matches(o Outcome) bool       { return o.Elapsed > c.Threshold }
func (c ManyWarnings) Matches(o Outcome) bool    { return o.WarningCount > c.Threshold }
func (c RecurringErrors) Matches(o Outcome) bool { return o.HasRecurringErrors }
func (c LargeErrorCount) Matches(o Outcome) bool { return o.ErrorCount > c.Threshold }

// Tip is a one-shot hint shown at most once per invocation.
type Tip struct {
	ID        string
	Condition Condition
	Message   string
	// Priority is carried for the catalog but tips fire in declaration
	// order, not by this field.
	Priority uint8
}

// Coach evaluates the tip catalog against a build outcome and shows each tip
// at most once. One Coach instance covers one invocation.
type Coach struct {
	tips  []Tip
	shown map[string]struct{}
}

// CoachThresholds overrides the tip trigger points.
type CoachThresholds struct {
	SlowBuild    time.Duration
	ManyWarnings int
	ManyErrors   int
}

// DefaultCoachThresholds returns the shipped trigger points.
func DefaultCoachThresholds() CoachThresholds {
	return CoachThresholds{
		SlowBuild:    30 * time.Second,
		ManyWarnings: 20,
		ManyErrors:   10,
	}
}

// NewCoach builds the tip catalog. Declaration order decides which tip wins
// when several conditions hold at once.
func NewCoach(t CoachThresholds) *Coach {
	tips := []Tip{
		{
			ID:        "slow_build",
			Condition: SlowBuild{Threshold: t.SlowBuild},
			Message:   "Long build? Try `cm build --release` only when you need it; debug builds link faster",
			Priority:  5,
		},
		{
			ID:        "many_warnings",
			Condition: ManyWarnings{Threshold: t.ManyWarnings},
			Message:   "Many warnings? Fix them in one sweep with `cargo fix` before they pile up",
			Priority:  3,
		},
		{
			ID:        "recurring_error",
			Condition: RecurringErrors{},
			Message:   "Recurring error? Check `cm view errors` for the grouped pattern before chasing each copy",
			Priority:  8,
		},
		{
			ID:        "many_errors",
			Condition: LargeErrorCount{Threshold: t.ManyErrors},
			Message:   "Many errors? Focus on the first few - they often cascade",
			Priority:  6,
		},
	}
	return &Coach{tips: tips, shown: make(map[string]struct{})}
}

// Tip returns the message of the first matching unshown tip and marks it
// shown, or "" when nothing fires.
func (c *Coach) Tip(outcome Outcome) string {
	for _, tip := range c.tips {
		if _, ok := c.shown[tip.ID]; ok {
			continue
		}
		if tip.Condition.Matches(outcome) {
			c.shown[tip.ID] = struct{}{}
			return tip.Message
		}
	}
	return ""
}
