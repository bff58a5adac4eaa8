package review

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/happyreview/happyreview-go/pkg/condition"
	"github.com/happyreview/happyreview-go/pkg/policy"
)

// FileConfig is the YAML shape of an engine configuration. Capabilities
// (store, dialog, reviewer, callbacks, custom conditions) cannot be
// described in a file and are attached programmatically after loading.
type FileConfig struct {
	Disabled         bool              `yaml:"disabled"`
	Debug            bool              `yaml:"debug"`
	DebugBypassGates bool              `yaml:"debug_bypass_gates"`
	Platform         string            `yaml:"platform,omitempty"`
	Triggers         []TriggerConfig   `yaml:"triggers"`
	Prerequisites    []TriggerConfig   `yaml:"prerequisites,omitempty"`
	Conditions       []ConditionConfig `yaml:"conditions,omitempty"`
	Policy           *PolicyConfig     `yaml:"policy,omitempty"`
}

// TriggerConfig is one trigger or prerequisite entry.
type TriggerConfig struct {
	Event          string `yaml:"event"`
	MinOccurrences int64  `yaml:"min_occurrences"`
}

// ConditionConfig describes a builtin condition by type name.
type ConditionConfig struct {
	Type string `yaml:"type"`
	Days int    `yaml:"days,omitempty"`
	Max  int64  `yaml:"max,omitempty"`
}

// PolicyConfig overrides the per-platform default frequency ceiling.
// Durations are in whole days, matching how store quotas are stated.
type PolicyConfig struct {
	CooldownDays         int `yaml:"cooldown_days"`
	MaxPrompts           int `yaml:"max_prompts"`
	MaxPromptsPeriodDays int `yaml:"max_prompts_period_days"`
}

// Builtin condition type names accepted in config files.
const (
	ConditionMinDaysSinceInstall    = "min_days_since_install"
	ConditionMinDaysSinceLastPrompt = "min_days_since_last_prompt"
	ConditionMaxPromptsShown        = "max_prompts_shown"
)

// LoadFileConfig reads an engine configuration from a YAML file. Values may
// reference environment variables as ${VAR} or ${VAR:default}.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var fc FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &fc, nil
}

// Validate checks the file for common mistakes before it is turned into an
// engine configuration.
func (fc *FileConfig) Validate() error {
	if len(fc.Triggers) == 0 {
		return ErrNoTriggers
	}

	seen := make(map[string]bool)
	for _, t := range fc.Triggers {
		if t.Event == "" {
			return fmt.Errorf("trigger: %w", ErrEmptyEventName)
		}
		if t.MinOccurrences < 1 {
			return fmt.Errorf("trigger %s: %w", t.Event, ErrInvalidThreshold)
		}
		if seen[t.Event] {
			return fmt.Errorf("duplicate trigger event: %s", t.Event)
		}
		seen[t.Event] = true
	}

	for _, p := range fc.Prerequisites {
		if p.Event == "" {
			return fmt.Errorf("prerequisite: %w", ErrEmptyEventName)
		}
		if p.MinOccurrences < 1 {
			return fmt.Errorf("prerequisite %s: %w", p.Event, ErrInvalidThreshold)
		}
	}

	for _, c := range fc.Conditions {
		if _, err := buildCondition(c); err != nil {
			return err
		}
	}

	if fc.Policy != nil {
		if fc.Policy.MaxPrompts < 1 {
			return fmt.Errorf("policy max_prompts must be >= 1, got %d", fc.Policy.MaxPrompts)
		}
		if fc.Policy.MaxPromptsPeriodDays < 1 {
			return fmt.Errorf("policy max_prompts_period_days must be >= 1, got %d", fc.Policy.MaxPromptsPeriodDays)
		}
	}

	return nil
}

// EngineConfig turns the loaded file into a Config. Capabilities and
// callbacks are left for the caller to fill in.
func (fc *FileConfig) EngineConfig() (Config, error) {
	cfg := Config{
		Disabled:         fc.Disabled,
		Debug:            fc.Debug,
		DebugBypassGates: fc.DebugBypassGates,
		Platform:         policy.Platform(fc.Platform),
	}

	for _, t := range fc.Triggers {
		cfg.Triggers = append(cfg.Triggers, Trigger{Event: t.Event, MinOccurrences: t.MinOccurrences})
	}
	for _, p := range fc.Prerequisites {
		cfg.Prerequisites = append(cfg.Prerequisites, Trigger{Event: p.Event, MinOccurrences: p.MinOccurrences})
	}

	for _, cc := range fc.Conditions {
		cond, err := buildCondition(cc)
		if err != nil {
			return Config{}, err
		}
		cfg.Conditions = append(cfg.Conditions, cond)
	}

	if fc.Policy != nil {
		cfg.PlatformRule = &policy.Rule{
			Cooldown:         time24h(fc.Policy.CooldownDays),
			MaxPrompts:       fc.Policy.MaxPrompts,
			MaxPromptsPeriod: time24h(fc.Policy.MaxPromptsPeriodDays),
		}
	}

	return cfg, nil
}

func buildCondition(cc ConditionConfig) (condition.Condition, error) {
	switch cc.Type {
	case ConditionMinDaysSinceInstall:
		if cc.Days < 1 {
			return nil, fmt.Errorf("condition %s: days must be >= 1", cc.Type)
		}
		return condition.MinDaysSinceInstall(cc.Days), nil
	case ConditionMinDaysSinceLastPrompt:
		if cc.Days < 1 {
			return nil, fmt.Errorf("condition %s: days must be >= 1", cc.Type)
		}
		return condition.MinDaysSinceLastPrompt(cc.Days), nil
	case ConditionMaxPromptsShown:
		if cc.Max < 1 {
			return nil, fmt.Errorf("condition %s: max must be >= 1", cc.Type)
		}
		return condition.MaxPromptsShown(cc.Max), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownConditionType, cc.Type)
	}
}

func time24h(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// expandEnvVars expands ${VAR} and ${VAR:default} references.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		value := os.Getenv(parts[0])
		if value == "" && len(parts) == 2 {
			return parts[1]
		}
		return value
	})
}
