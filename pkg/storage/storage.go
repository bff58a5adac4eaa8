package storage

import (
	"context"
	"time"
)

// Keys used by the library. The namespace is fixed so that state written by
// one adapter can be read back by another (or by an older build).
const (
	KeyInstallDate              = "install_date"
	KeyLastPromptDate           = "last_prompt_date"
	KeyPromptsShownCount        = "prompts_shown_count"
	KeyPlatformLastPrompt       = "platform_last_prompt"
	KeyPlatformPromptTimestamps = "platform_prompt_timestamps"

	eventCountPrefix = "event_count_"
)

// EventCountKey returns the storage key holding the occurrence counter for an
// event name.
func EventCountKey(name string) string {
	return eventCountPrefix + name
}

// Store is the key-value persistence capability the engine runs against.
// Implementations must treat missing keys as absent rather than errors:
// typed getters return the provided default (or ok=false) for keys that were
// never written. Timestamps are persisted as epoch milliseconds so adapters
// stay interchangeable.
type Store interface {
	GetInt(ctx context.Context, key string, def int64) (int64, error)
	SetInt(ctx context.Context, key string, value int64) error

	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	// GetTime reports ok=false when the key has never been written.
	GetTime(ctx context.Context, key string) (t time.Time, ok bool, err error)
	SetTime(ctx context.Context, key string, value time.Time) error

	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetString(ctx context.Context, key, value string) error

	// ClearAll removes every key written by this store.
	ClearAll(ctx context.Context) error
}
