package review

import (
	"context"
	"testing"

	"github.com/happyreview/happyreview-go/pkg/condition"
)

func TestSnapshot(t *testing.T) {
	cfg := baseConfig()
	cfg.Prerequisites = []Trigger{{Event: "onboarding", MinOccurrences: 1}}
	cfg.Conditions = []condition.Condition{
		condition.Custom("always_true", func(ctx context.Context) (bool, error) {
			return true, nil
		}),
		condition.Custom("always_false", func(ctx context.Context) (bool, error) {
			return false, nil
		}),
	}
	e := mustEngine(t, cfg)
	ctx := context.Background()

	logEvent(t, e, "purchase")
	logEvent(t, e, "purchase")

	snap, err := e.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if !snap.Enabled {
		t.Error("Enabled = false, expected true")
	}
	if len(snap.Triggers) != 1 {
		t.Fatalf("trigger statuses = %d, expected 1", len(snap.Triggers))
	}
	ts := snap.Triggers[0]
	if ts.Event != "purchase" || ts.Count != 2 || ts.Satisfied {
		t.Errorf("trigger status = %+v, expected purchase at 2/3 unsatisfied", ts)
	}

	if len(snap.Prerequisites) != 1 || snap.Prerequisites[0].Satisfied {
		t.Errorf("prerequisite statuses = %+v, expected one unsatisfied entry", snap.Prerequisites)
	}

	if !snap.PolicyAllows {
		t.Error("PolicyAllows = false under the relaxed rule")
	}

	if len(snap.Conditions) != 2 {
		t.Fatalf("condition statuses = %d, expected 2", len(snap.Conditions))
	}
	if !snap.Conditions[0].Passed || snap.Conditions[1].Passed {
		t.Errorf("condition statuses = %+v, expected [true false]", snap.Conditions)
	}

	if snap.InstallDate == nil {
		t.Error("InstallDate = nil, expected value recorded by New")
	}
	if snap.LastPrompt != nil {
		t.Error("LastPrompt set, no prompt was ever shown")
	}

	// Snapshot must not mutate: counters are unchanged.
	if count, _ := e.EventCount(ctx, "purchase"); count != 2 {
		t.Errorf("EventCount() = %d after Snapshot, expected 2", count)
	}
}

func TestSnapshot_ResolvesAllConditionsWithoutShortCircuit(t *testing.T) {
	evaluated := 0

	cfg := baseConfig()
	cfg.Conditions = []condition.Condition{
		condition.Custom("first_false", func(ctx context.Context) (bool, error) {
			evaluated++
			return false, nil
		}),
		condition.Custom("second", func(ctx context.Context) (bool, error) {
			evaluated++
			return true, nil
		}),
	}
	e := mustEngine(t, cfg)

	if _, err := e.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	// Diagnostics show every condition's verdict, unlike the pipeline.
	if evaluated != 2 {
		t.Errorf("evaluated %d conditions, expected 2", evaluated)
	}
}
