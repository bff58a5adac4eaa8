// Package review decides when to ask the user for an app-store review.
// Callers report named events; the engine counts them, matches triggers and
// prerequisites, applies the platform frequency policy and the configured
// conditions, and only then runs the satisfaction dialog flow. Every
// LogEvent call is a fresh traversal; the only state between calls lives in
// the storage capability.
package review

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/happyreview/happyreview-go/pkg/dialog"
	"github.com/happyreview/happyreview-go/pkg/ledger"
	"github.com/happyreview/happyreview-go/pkg/policy"
	"github.com/happyreview/happyreview-go/pkg/storage"
)

// Engine is the decision engine. Construct it once with New and share it;
// a global mutex serializes LogEvent because the whole pipeline reads and
// writes one shared set of keys.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	store   storage.Store
	ledger  *ledger.Ledger
	checker *policy.Checker
	enabled bool
	now     func() time.Time
	log     *logrus.Logger
}

// New validates the configuration and builds an engine. The install date is
// recorded on first construction and never overwritten afterwards.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	store := cfg.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	log := logrus.StandardLogger()
	if cfg.Debug {
		log = logrus.New()
		log.SetLevel(logrus.DebugLevel)
	}

	e := &Engine{
		cfg:     cfg,
		store:   store,
		ledger:  ledger.New(store),
		checker: policy.NewChecker(cfg.rule(), store, now),
		enabled: !cfg.Disabled,
		now:     now,
		log:     log,
	}

	if err := e.recordInstallDate(ctx); err != nil {
		return nil, err
	}

	log.Debugf("engine configured: %d triggers, %d prerequisites, %d conditions, rule %+v",
		len(cfg.Triggers), len(cfg.Prerequisites), len(cfg.Conditions), e.checker.Rule())
	return e, nil
}

// ensureReady guards against use of a zero-value Engine. That is an
// integration bug, not a runtime condition, so it fails loudly.
func (e *Engine) ensureReady() {
	if e == nil || e.store == nil {
		panic("review: engine not configured, construct it with review.New")
	}
}

func (e *Engine) recordInstallDate(ctx context.Context) error {
	_, ok, err := e.store.GetTime(ctx, storage.KeyInstallDate)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return e.store.SetTime(ctx, storage.KeyInstallDate, e.now())
}

// LogEvent records one occurrence of the named event and runs the decision
// pipeline. host is the UI surface dialogs attach to; it may be nil for
// headless integrations, in which case it is treated as valid. Collaborator
// failures propagate as errors with an empty Result.
func (e *Engine) LogEvent(ctx context.Context, host dialog.Host, name string) (Result, error) {
	e.ensureReady()
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.logEvent(ctx, host, name)
	if err != nil {
		return "", err
	}
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.observe(name, result)
	}
	e.log.Debugf("event %q -> %s", name, result)
	return result, nil
}

func (e *Engine) logEvent(ctx context.Context, host dialog.Host, name string) (Result, error) {
	// The kill switch short-circuits before any counter mutation, so a
	// disabled engine leaves no trace in storage.
	if !e.enabled {
		return ResultDisabled, nil
	}

	count, err := e.ledger.Record(ctx, name)
	if err != nil {
		return "", err
	}

	if !e.triggerMatches(name, count) {
		return ResultNoTrigger, nil
	}
	e.log.Debugf("trigger matched for %q at count %d", name, count)

	if e.cfg.DebugBypassGates {
		e.log.Warnf("bypassing prerequisites, platform policy and conditions for %q", name)
	} else {
		met, err := e.prerequisitesMet(ctx)
		if err != nil {
			return "", err
		}
		if !met {
			return ResultPrerequisitesNotMet, nil
		}

		allowed, err := e.checker.CanShow(ctx)
		if err != nil {
			return "", err
		}
		if !allowed {
			return ResultBlockedByPlatformPolicy, nil
		}

		pass, failed, err := e.conditionsPass(ctx)
		if err != nil {
			return "", err
		}
		if !pass {
			e.log.Debugf("condition %q failed for %q", failed, name)
			return ResultConditionsNotMet, nil
		}
	}

	return e.runDialogFlow(ctx, host)
}

func (e *Engine) triggerMatches(name string, count int64) bool {
	for _, t := range e.cfg.Triggers {
		if t.Event == name && count >= t.MinOccurrences {
			return true
		}
	}
	return false
}

// prerequisitesMet reads every prerequisite's current count, not just the
// event that was logged.
func (e *Engine) prerequisitesMet(ctx context.Context) (bool, error) {
	for _, p := range e.cfg.Prerequisites {
		count, err := e.ledger.Count(ctx, p.Event)
		if err != nil {
			return false, err
		}
		if count < p.MinOccurrences {
			e.log.Debugf("prerequisite %q at %d/%d", p.Event, count, p.MinOccurrences)
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) conditionsPass(ctx context.Context) (bool, string, error) {
	for _, c := range e.cfg.Conditions {
		pass, err := c.Evaluate(ctx, e.store)
		if err != nil {
			return false, c.Name(), err
		}
		if !pass {
			return false, c.Name(), nil
		}
	}
	return true, "", nil
}

// runDialogFlow is entered only after every gate has passed.
func (e *Engine) runDialogFlow(ctx context.Context, host dialog.Host) (Result, error) {
	if e.cfg.Dialog == nil {
		if err := e.recordPromptShown(ctx); err != nil {
			return "", err
		}
		if err := e.requestReview(ctx, host); err != nil {
			return "", err
		}
		fire(e.cfg.Callbacks.OnReviewRequested)
		return ResultReviewRequestedDirect, nil
	}

	if !hostOK(host) {
		return ResultDialogDismissed, nil
	}

	fire(e.cfg.Callbacks.OnPreDialogShown)
	choice, err := e.cfg.Dialog.ShowPreDialog(ctx, host)
	if err != nil {
		return "", err
	}

	switch choice {
	case dialog.ChoicePositive:
		if err := e.recordPromptShown(ctx); err != nil {
			return "", err
		}
		fire(e.cfg.Callbacks.OnPositive)
		if err := e.requestReview(ctx, host); err != nil {
			return "", err
		}
		fire(e.cfg.Callbacks.OnReviewRequested)
		return ResultReviewRequested, nil

	case dialog.ChoiceNegative:
		// The user engaged with the satisfaction question, so the prompt
		// slot is consumed whether or not feedback is submitted.
		if err := e.recordPromptShown(ctx); err != nil {
			return "", err
		}
		fire(e.cfg.Callbacks.OnNegative)
		if !hostOK(host) {
			return ResultDialogDismissed, nil
		}
		feedback, err := e.cfg.Dialog.ShowFeedbackDialog(ctx, host)
		if err != nil {
			return "", err
		}
		if feedback == nil {
			return ResultDialogDismissed, nil
		}
		if e.cfg.Callbacks.OnFeedbackSubmitted != nil {
			e.cfg.Callbacks.OnFeedbackSubmitted(*feedback)
		}
		return ResultFeedbackSubmitted, nil

	case dialog.ChoiceRemindLater:
		fire(e.cfg.Callbacks.OnRemindLater)
		return ResultRemindLater, nil

	default:
		fire(e.cfg.Callbacks.OnDismissed)
		return ResultDialogDismissed, nil
	}
}

// recordPromptShown updates the platform rate limiter, the app-level
// last-prompt date and the lifetime counter together. It runs only when the
// flow reached a shown state: positive, negative, or a direct OS request.
func (e *Engine) recordPromptShown(ctx context.Context) error {
	if err := e.checker.RecordPrompt(ctx); err != nil {
		return err
	}
	if err := e.store.SetTime(ctx, storage.KeyLastPromptDate, e.now()); err != nil {
		return err
	}
	shown, err := e.store.GetInt(ctx, storage.KeyPromptsShownCount, 0)
	if err != nil {
		return err
	}
	if err := e.store.SetInt(ctx, storage.KeyPromptsShownCount, shown+1); err != nil {
		return err
	}
	e.log.Infof("review prompt shown, lifetime count now %d", shown+1)
	return nil
}

// requestReview invokes the OS review capability when it is present,
// available, and the UI surface is still usable. Unavailability is a soft
// condition: the prompt already counted as shown, the call is just skipped.
func (e *Engine) requestReview(ctx context.Context, host dialog.Host) error {
	if e.cfg.Reviewer == nil || !e.cfg.Reviewer.Available() {
		e.log.Debugf("review capability unavailable, skipping OS request")
		return nil
	}
	if !hostOK(host) {
		e.log.Debugf("UI surface gone, skipping OS request")
		return nil
	}
	return e.cfg.Reviewer.RequestReview(ctx, host)
}

// EventCount returns the current counter for an event name, zero if never
// logged.
func (e *Engine) EventCount(ctx context.Context, name string) (int64, error) {
	e.ensureReady()
	return e.ledger.Count(ctx, name)
}

// PromptsShownCount returns the lifetime number of prompts shown.
func (e *Engine) PromptsShownCount(ctx context.Context) (int64, error) {
	e.ensureReady()
	return e.store.GetInt(ctx, storage.KeyPromptsShownCount, 0)
}

// LastPromptDate returns the timestamp of the most recent shown prompt.
// ok is false if no prompt was ever shown.
func (e *Engine) LastPromptDate(ctx context.Context) (time.Time, bool, error) {
	e.ensureReady()
	return e.store.GetTime(ctx, storage.KeyLastPromptDate)
}

// InstallDate returns the recorded install timestamp.
func (e *Engine) InstallDate(ctx context.Context) (time.Time, bool, error) {
	e.ensureReady()
	return e.store.GetTime(ctx, storage.KeyInstallDate)
}

// Reset clears all persisted state, then re-records the install date so
// days-since-install conditions keep working afterwards.
func (e *Engine) Reset(ctx context.Context) error {
	e.ensureReady()
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.ClearAll(ctx); err != nil {
		return err
	}
	e.log.Infof("state reset")
	return e.store.SetTime(ctx, storage.KeyInstallDate, e.now())
}

// SetEnabled toggles the kill switch. The toggle is in-memory only and takes
// effect on the next LogEvent call.
func (e *Engine) SetEnabled(enabled bool) {
	e.ensureReady()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
	e.log.Infof("engine enabled=%v", enabled)
}

// Enabled reports the current kill-switch position.
func (e *Engine) Enabled() bool {
	e.ensureReady()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func hostOK(host dialog.Host) bool {
	return host == nil || host.Valid()
}
