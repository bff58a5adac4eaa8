package review

import "errors"

var (
	// ErrNoTriggers indicates a configuration with an empty trigger set.
	ErrNoTriggers = errors.New("at least one trigger is required")

	// ErrInvalidThreshold indicates a trigger or prerequisite whose
	// occurrence threshold is below one.
	ErrInvalidThreshold = errors.New("min occurrences must be >= 1")

	// ErrEmptyEventName indicates a trigger or prerequisite without an
	// event name.
	ErrEmptyEventName = errors.New("event name must not be empty")

	// ErrUnknownConditionType indicates a config file condition whose type
	// has no builtin constructor.
	ErrUnknownConditionType = errors.New("unknown condition type")
)
