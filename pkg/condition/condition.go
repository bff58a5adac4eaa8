// Package condition provides the pluggable boolean gates the engine checks
// after triggers and the platform policy. All configured conditions must
// pass; evaluation short-circuits on the first failure, so predicates must
// be side-effect-free and order-independent.
package condition

import (
	"context"
	"fmt"
	"time"

	"github.com/happyreview/happyreview-go/pkg/storage"
)

// Condition is a named boolean predicate over persisted state.
type Condition interface {
	// Name identifies the condition in logs and diagnostic snapshots.
	Name() string

	// Evaluate reports whether the condition currently passes.
	// Errors are collaborator failures, not negative verdicts.
	Evaluate(ctx context.Context, store storage.Store) (bool, error)
}

const day = 24 * time.Hour

// DaysSinceInstall passes once the install date is at least Days old.
// It fails while no install date has been recorded.
type DaysSinceInstall struct {
	Days int
	Now  func() time.Time
}

// MinDaysSinceInstall creates a days-since-install condition.
func MinDaysSinceInstall(days int) *DaysSinceInstall {
	return &DaysSinceInstall{Days: days}
}

func (c *DaysSinceInstall) Name() string {
	return fmt.Sprintf("min_days_since_install(%d)", c.Days)
}

func (c *DaysSinceInstall) Evaluate(ctx context.Context, store storage.Store) (bool, error) {
	installed, ok, err := store.GetTime(ctx, storage.KeyInstallDate)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return clock(c.Now).Sub(installed) >= time.Duration(c.Days)*day, nil
}

// DaysSinceLastPrompt is the app-level cooldown, independent of the platform
// rate limiter. It passes if no prompt was ever shown, or the last one is at
// least Days old.
type DaysSinceLastPrompt struct {
	Days int
	Now  func() time.Time
}

// MinDaysSinceLastPrompt creates an app-level cooldown condition.
func MinDaysSinceLastPrompt(days int) *DaysSinceLastPrompt {
	return &DaysSinceLastPrompt{Days: days}
}

func (c *DaysSinceLastPrompt) Name() string {
	return fmt.Sprintf("min_days_since_last_prompt(%d)", c.Days)
}

func (c *DaysSinceLastPrompt) Evaluate(ctx context.Context, store storage.Store) (bool, error) {
	last, ok, err := store.GetTime(ctx, storage.KeyLastPromptDate)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return clock(c.Now).Sub(last) >= time.Duration(c.Days)*day, nil
}

// MaxPrompts passes while the lifetime prompts-shown counter is below Max.
type MaxPrompts struct {
	Max int64
}

// MaxPromptsShown creates a lifetime prompt-count ceiling condition.
func MaxPromptsShown(max int64) *MaxPrompts {
	return &MaxPrompts{Max: max}
}

func (c *MaxPrompts) Name() string {
	return fmt.Sprintf("max_prompts_shown(%d)", c.Max)
}

func (c *MaxPrompts) Evaluate(ctx context.Context, store storage.Store) (bool, error) {
	shown, err := store.GetInt(ctx, storage.KeyPromptsShownCount, 0)
	if err != nil {
		return false, err
	}
	return shown < c.Max, nil
}

// CustomCondition delegates to an injected predicate. The storage capability
// is not passed through; custom predicates consult their own state.
type CustomCondition struct {
	name string
	fn   func(ctx context.Context) (bool, error)
}

// Custom wraps a predicate with a display name for diagnostics.
func Custom(name string, fn func(ctx context.Context) (bool, error)) *CustomCondition {
	return &CustomCondition{name: name, fn: fn}
}

func (c *CustomCondition) Name() string {
	return c.name
}

func (c *CustomCondition) Evaluate(ctx context.Context, _ storage.Store) (bool, error) {
	return c.fn(ctx)
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
