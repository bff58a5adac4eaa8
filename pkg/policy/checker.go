package policy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/happyreview/happyreview-go/pkg/storage"
)

// Checker evaluates a Rule against the prompt history kept in storage.
// CanShow is a pure read; RecordPrompt is the only writer. The timestamp
// history is append-only and windowed at read time, never pruned in storage:
// prompt cadence is weeks-to-months, so the list stays tiny in practice.
type Checker struct {
	rule  Rule
	store storage.Store
	now   func() time.Time
}

// NewChecker creates a checker for the given rule. A nil now defaults to
// time.Now; tests inject a fixed clock.
func NewChecker(rule Rule, store storage.Store, now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{rule: rule, store: store, now: now}
}

// Rule returns the rule this checker enforces.
func (c *Checker) Rule() Rule {
	return c.rule
}

// CanShow reports whether the rule currently permits a prompt: the cooldown
// since the last prompt must have elapsed AND the rolling-window count must
// be below the ceiling.
func (c *Checker) CanShow(ctx context.Context) (bool, error) {
	now := c.now()

	last, ok, err := c.store.GetTime(ctx, storage.KeyPlatformLastPrompt)
	if err != nil {
		return false, err
	}
	if ok && now.Sub(last) < c.rule.Cooldown {
		logrus.Debugf("platform policy: cooldown active, %v since last prompt (need %v)",
			now.Sub(last), c.rule.Cooldown)
		return false, nil
	}

	timestamps, err := c.promptTimestamps(ctx)
	if err != nil {
		return false, err
	}
	windowStart := now.Add(-c.rule.MaxPromptsPeriod).UnixMilli()
	inWindow := 0
	for _, ts := range timestamps {
		if ts > windowStart {
			inWindow++
		}
	}
	if inWindow >= c.rule.MaxPrompts {
		logrus.Debugf("platform policy: %d prompts in trailing %v, ceiling is %d",
			inWindow, c.rule.MaxPromptsPeriod, c.rule.MaxPrompts)
		return false, nil
	}

	return true, nil
}

// RecordPrompt marks a prompt as shown now: it overwrites the last-prompt
// timestamp and appends to the timestamp history. Both writes must happen
// together; callers treat this as one operation.
func (c *Checker) RecordPrompt(ctx context.Context) error {
	now := c.now()

	if err := c.store.SetTime(ctx, storage.KeyPlatformLastPrompt, now); err != nil {
		return err
	}

	raw, _, err := c.store.GetString(ctx, storage.KeyPlatformPromptTimestamps)
	if err != nil {
		return err
	}
	entry := strconv.FormatInt(now.UnixMilli(), 10)
	if raw == "" {
		raw = entry
	} else {
		raw = raw + "," + entry
	}
	return c.store.SetString(ctx, storage.KeyPlatformPromptTimestamps, raw)
}

// promptTimestamps reads back the full comma-joined epoch-millisecond list.
func (c *Checker) promptTimestamps(ctx context.Context) ([]int64, error) {
	raw, ok, err := c.store.GetString(ctx, storage.KeyPlatformPromptTimestamps)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	parts := strings.Split(raw, ",")
	timestamps := make([]int64, 0, len(parts))
	for _, p := range parts {
		ts, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt prompt timestamp %q: %w", p, err)
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, nil
}
