package triage

import (
	"testing"
	"time"
)

func TestCoachTipFiresOnce(t *testing.T) {
	c := NewCoach(DefaultCoachThresholds())
	outcome := Outcome{Elapsed: time.Minute}
	first := c.Tip(outcome)
	if first == "" {
		t.Fatal("expected a slow-build tip")
	}
	if again := c.Tip(outcome); again != "" {
		t.Errorf("second call returned %q, want nothing", again)
	}
}

func TestCoachDeclarationOrderWins(t *testing.T) {
	c := NewCoach(DefaultCoachThresholds())
	// Both slow_build and many_errors match; slow_build is declared first.
	outcome := Outcome{Elapsed: time.Minute, ErrorCount: 50}
	first := c.Tip(outcome)
	second := c.Tip(outcome)
	if first == second {
		t.Fatal("consecutive calls should surface different tips")
	}
	if second == "" {
		t.Error("second matching tip should still fire after the first is spent")
	}
}

func TestCoachNoMatch(t *testing.T) {
	c := NewCoach(DefaultCoachThresholds())
	outcome := Outcome{Elapsed: time.Second, WarningCount: 1, ErrorCount: 1, Success: true}
	if tip := c.Tip(outcome); tip != "" {
		t.Errorf("got %q for a healthy build, want nothing", tip)
	}
}

func TestCoachThresholdsAreExclusive(t *testing.T) {
	thresholds := CoachThresholds{
		SlowBuild:    10 * time.Second,
		ManyWarnings: 5,
		ManyErrors:   3,
	}
	tests := []struct {
		name    string
		outcome Outcome
		fires   bool
	}{
		{"warnings at threshold", Outcome{WarningCount: 5}, false},
		{"warnings past threshold", Outcome{WarningCount: 6}, true},
		{"errors at threshold", Outcome{ErrorCount: 3}, false},
		{"errors past threshold", Outcome{ErrorCount: 4}, true},
		{"elapsed at threshold", Outcome{Elapsed: 10 * time.Second}, false},
		{"elapsed past threshold", Outcome{Elapsed: 11 * time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoach(thresholds)
			got := c.Tip(tt.outcome) != ""
			if got != tt.fires {
				t.Errorf("fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestCoachRecurringErrors(t *testing.T) {
	c := NewCoach(DefaultCoachThresholds())
	tip := c.Tip(Outcome{HasRecurringErrors: true})
	if tip == "" {
		t.Fatal("expected the recurring-error tip")
	}
}
