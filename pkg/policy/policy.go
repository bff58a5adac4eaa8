// Package policy enforces the per-store frequency ceiling on review prompts:
// a cooldown since the most recent prompt plus a rolling-window cap on how
// many prompts may be shown within a period. The ceilings mirror what the
// app stores themselves tolerate, so defaults differ per OS family.
package policy

import (
	"runtime"
	"time"
)

// Platform identifies the OS family whose store quota applies.
type Platform string

const (
	// PlatformApple covers iOS and macOS, where StoreKit allows roughly
	// three review prompts per year per app.
	PlatformApple Platform = "apple"

	// PlatformAndroid covers Google Play, which publishes no hard quota but
	// recommends keeping in-app review requests rare.
	PlatformAndroid Platform = "android"
)

// Detect resolves the platform for the current build target. Unknown targets
// fall back to the Apple rule set, which is the stricter of the two.
func Detect() Platform {
	switch runtime.GOOS {
	case "android":
		return PlatformAndroid
	case "darwin", "ios":
		return PlatformApple
	default:
		return PlatformApple
	}
}

// Rule is a frequency ceiling: a minimum gap since the last prompt, and a
// maximum number of prompts within a trailing period. The two limits are
// independent; violating either blocks the prompt.
type Rule struct {
	Cooldown         time.Duration
	MaxPrompts       int
	MaxPromptsPeriod time.Duration
}

// DefaultRule returns the built-in rule for a platform.
func DefaultRule(p Platform) Rule {
	switch p {
	case PlatformAndroid:
		return Rule{
			Cooldown:         30 * 24 * time.Hour,
			MaxPrompts:       4,
			MaxPromptsPeriod: 365 * 24 * time.Hour,
		}
	default:
		return Rule{
			Cooldown:         60 * 24 * time.Hour,
			MaxPrompts:       3,
			MaxPromptsPeriod: 365 * 24 * time.Hour,
		}
	}
}
