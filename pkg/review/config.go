package review

import (
	"fmt"
	"time"

	"github.com/happyreview/happyreview-go/pkg/condition"
	"github.com/happyreview/happyreview-go/pkg/dialog"
	"github.com/happyreview/happyreview-go/pkg/policy"
	"github.com/happyreview/happyreview-go/pkg/storage"
)

// Trigger names an event and the occurrence count that activates the review
// flow. Triggers are OR-combined: any one reaching its threshold activates.
// The same shape is used for prerequisites, which are AND-combined and must
// all be satisfied before any trigger may fire.
type Trigger struct {
	Event          string
	MinOccurrences int64
}

func (t Trigger) validate() error {
	if t.Event == "" {
		return ErrEmptyEventName
	}
	if t.MinOccurrences < 1 {
		return fmt.Errorf("%w: %s has %d", ErrInvalidThreshold, t.Event, t.MinOccurrences)
	}
	return nil
}

// Callbacks are optional hooks dispatched synchronously at fixed pipeline
// points. Order within one flow is: PreDialogShown, then exactly one of
// Positive/Negative/RemindLater/Dismissed, then ReviewRequested or
// FeedbackSubmitted when the flow reaches that far.
type Callbacks struct {
	OnPreDialogShown    func()
	OnPositive          func()
	OnNegative          func()
	OnRemindLater       func()
	OnDismissed         func()
	OnReviewRequested   func()
	OnFeedbackSubmitted func(dialog.Feedback)
}

// Config is the one-time configuration of the engine. Zero values are
// usable defaults everywhere except Triggers, which must name at least one
// event.
type Config struct {
	// Triggers activate the review flow (OR-combined). Required.
	Triggers []Trigger

	// Prerequisites gate all triggers (AND-combined). Optional.
	Prerequisites []Trigger

	// Conditions are additional AND-combined gates. Optional.
	Conditions []condition.Condition

	// Platform selects the rule-set family. Empty means detect from the
	// build target.
	Platform policy.Platform

	// PlatformRule overrides the per-platform default frequency ceiling.
	PlatformRule *policy.Rule

	// Dialog presents the satisfaction pre-dialog. Nil is valid and means
	// the OS review is requested directly, with no pre-dialog.
	Dialog dialog.Dialog

	// Reviewer is the OS review-request capability. Nil behaves as an
	// unavailable capability: prompts still count as shown, the OS call is
	// skipped.
	Reviewer dialog.Reviewer

	// Store holds all persisted state. Nil defaults to an in-memory store.
	Store storage.Store

	// Disabled starts the engine with the kill switch off. SetEnabled
	// toggles it afterwards.
	Disabled bool

	// Debug raises the library's own log verbosity. It changes nothing
	// about decisions.
	Debug bool

	// DebugBypassGates skips prerequisites, platform policy and conditions.
	// Trigger matching still applies. Never ship with this set.
	DebugBypassGates bool

	Callbacks Callbacks

	// Metrics, when set, counts logged events and decision outcomes.
	Metrics *Metrics

	// Now is the clock; nil means time.Now. Tests inject a fixed value.
	Now func() time.Time
}

func (c *Config) validate() error {
	if len(c.Triggers) == 0 {
		return ErrNoTriggers
	}
	for _, t := range c.Triggers {
		if err := t.validate(); err != nil {
			return fmt.Errorf("trigger: %w", err)
		}
	}
	for _, p := range c.Prerequisites {
		if err := p.validate(); err != nil {
			return fmt.Errorf("prerequisite: %w", err)
		}
	}
	return nil
}

// rule resolves the effective platform rule.
func (c *Config) rule() policy.Rule {
	if c.PlatformRule != nil {
		return *c.PlatformRule
	}
	platform := c.Platform
	if platform == "" {
		platform = policy.Detect()
	}
	return policy.DefaultRule(platform)
}

func fire(fn func()) {
	if fn != nil {
		fn()
	}
}
