package review

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "happyreview.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
triggers:
  - event: purchase
    min_occurrences: 3
  - event: level_complete
    min_occurrences: 10
prerequisites:
  - event: onboarding
    min_occurrences: 1
conditions:
  - type: min_days_since_install
    days: 7
  - type: max_prompts_shown
    max: 5
policy:
  cooldown_days: 60
  max_prompts: 3
  max_prompts_period_days: 365
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	cfg, err := fc.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig() error = %v", err)
	}

	if len(cfg.Triggers) != 2 || cfg.Triggers[0].Event != "purchase" || cfg.Triggers[0].MinOccurrences != 3 {
		t.Errorf("triggers = %+v, expected purchase:3 and level_complete:10", cfg.Triggers)
	}
	if len(cfg.Prerequisites) != 1 || cfg.Prerequisites[0].Event != "onboarding" {
		t.Errorf("prerequisites = %+v, expected onboarding:1", cfg.Prerequisites)
	}
	if len(cfg.Conditions) != 2 {
		t.Fatalf("conditions = %d, expected 2", len(cfg.Conditions))
	}
	if cfg.PlatformRule == nil {
		t.Fatal("PlatformRule = nil, expected override from file")
	}
	if cfg.PlatformRule.Cooldown != 60*24*time.Hour || cfg.PlatformRule.MaxPrompts != 3 {
		t.Errorf("rule = %+v, expected 60d cooldown and 3 max prompts", cfg.PlatformRule)
	}
}

func TestLoadFileConfig_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_PURCHASE_THRESHOLD", "5")

	path := writeConfig(t, `
triggers:
  - event: purchase
    min_occurrences: ${TEST_PURCHASE_THRESHOLD:3}
conditions:
  - type: min_days_since_install
    days: ${TEST_UNSET_DAYS:7}
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Triggers[0].MinOccurrences != 5 {
		t.Errorf("min_occurrences = %d, expected 5 from environment", fc.Triggers[0].MinOccurrences)
	}
	if fc.Conditions[0].Days != 7 {
		t.Errorf("days = %d, expected fallback default 7", fc.Conditions[0].Days)
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "no triggers",
			content: `debug: true`,
			wantErr: ErrNoTriggers,
		},
		{
			name: "zero threshold",
			content: `
triggers:
  - event: purchase
    min_occurrences: 0
`,
			wantErr: ErrInvalidThreshold,
		},
		{
			name: "unknown condition type",
			content: `
triggers:
  - event: purchase
    min_occurrences: 1
conditions:
  - type: phase_of_moon
`,
			wantErr: ErrUnknownConditionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadFileConfig(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadFileConfig() error = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileConfig_DuplicateTrigger(t *testing.T) {
	path := writeConfig(t, `
triggers:
  - event: purchase
    min_occurrences: 1
  - event: purchase
    min_occurrences: 2
`)

	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() accepted duplicate trigger events")
	}
}

func TestLoadFileConfig_MissingFile(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFileConfig() did not fail for a missing file")
	}
}
