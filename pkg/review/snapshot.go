package review

import (
	"context"
	"time"

	"github.com/happyreview/happyreview-go/pkg/policy"
	"github.com/happyreview/happyreview-go/pkg/storage"
)

// TriggerStatus is one trigger or prerequisite resolved against its current
// event count.
type TriggerStatus struct {
	Event          string `json:"event"`
	MinOccurrences int64  `json:"min_occurrences"`
	Count          int64  `json:"count"`
	Satisfied      bool   `json:"satisfied"`
}

// ConditionStatus is one condition's current verdict.
type ConditionStatus struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// Snapshot is a one-pass, read-only view of everything the next LogEvent
// would consult. Diagnostics only; nothing here mutates state.
type Snapshot struct {
	Enabled       bool              `json:"enabled"`
	Rule          policy.Rule       `json:"rule"`
	Triggers      []TriggerStatus   `json:"triggers"`
	Prerequisites []TriggerStatus   `json:"prerequisites"`
	PolicyAllows  bool              `json:"policy_allows"`
	Conditions    []ConditionStatus `json:"conditions"`
	PromptsShown  int64             `json:"prompts_shown"`
	InstallDate   *time.Time        `json:"install_date,omitempty"`
	LastPrompt    *time.Time        `json:"last_prompt,omitempty"`
}

// Snapshot resolves the full diagnostic view in one pass.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	e.ensureReady()
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := &Snapshot{
		Enabled: e.enabled,
		Rule:    e.checker.Rule(),
	}

	var err error
	if snap.Triggers, err = e.resolveTriggers(ctx, e.cfg.Triggers); err != nil {
		return nil, err
	}
	if snap.Prerequisites, err = e.resolveTriggers(ctx, e.cfg.Prerequisites); err != nil {
		return nil, err
	}

	if snap.PolicyAllows, err = e.checker.CanShow(ctx); err != nil {
		return nil, err
	}

	for _, c := range e.cfg.Conditions {
		passed, err := c.Evaluate(ctx, e.store)
		if err != nil {
			return nil, err
		}
		snap.Conditions = append(snap.Conditions, ConditionStatus{Name: c.Name(), Passed: passed})
	}

	if snap.PromptsShown, err = e.store.GetInt(ctx, storage.KeyPromptsShownCount, 0); err != nil {
		return nil, err
	}
	if t, ok, err := e.store.GetTime(ctx, storage.KeyInstallDate); err != nil {
		return nil, err
	} else if ok {
		snap.InstallDate = &t
	}
	if t, ok, err := e.store.GetTime(ctx, storage.KeyLastPromptDate); err != nil {
		return nil, err
	} else if ok {
		snap.LastPrompt = &t
	}

	return snap, nil
}

func (e *Engine) resolveTriggers(ctx context.Context, triggers []Trigger) ([]TriggerStatus, error) {
	var statuses []TriggerStatus
	for _, t := range triggers {
		count, err := e.ledger.Count(ctx, t.Event)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, TriggerStatus{
			Event:          t.Event,
			MinOccurrences: t.MinOccurrences,
			Count:          count,
			Satisfied:      count >= t.MinOccurrences,
		})
	}
	return statuses, nil
}
