package review

// Result is the outcome of a single LogEvent traversal. Negative outcomes
// (no trigger, policy block, failed condition) are first-class results the
// caller branches on, not errors.
type Result string

const (
	// ResultDisabled: the kill switch is off; nothing was evaluated.
	ResultDisabled Result = "disabled"

	// ResultNoTrigger: no trigger matched the event at its threshold.
	ResultNoTrigger Result = "no_trigger"

	// ResultPrerequisitesNotMet: at least one prerequisite count is below
	// its threshold.
	ResultPrerequisitesNotMet Result = "prerequisites_not_met"

	// ResultBlockedByPlatformPolicy: the platform rate limiter refused.
	ResultBlockedByPlatformPolicy Result = "blocked_by_platform_policy"

	// ResultConditionsNotMet: a configured condition evaluated false.
	ResultConditionsNotMet Result = "conditions_not_met"

	// ResultReviewRequested: the user answered positive and the OS review
	// flow was invoked.
	ResultReviewRequested Result = "review_requested"

	// ResultReviewRequestedDirect: no dialog is configured; the OS review
	// flow was invoked directly.
	ResultReviewRequestedDirect Result = "review_requested_direct"

	// ResultFeedbackSubmitted: the user answered negative and submitted
	// feedback.
	ResultFeedbackSubmitted Result = "feedback_submitted"

	// ResultRemindLater: the user asked to be reminded later. No prompt
	// slot was consumed.
	ResultRemindLater Result = "remind_later"

	// ResultDialogDismissed: the dialog was closed without a choice, the
	// feedback form was abandoned, or the UI surface went away mid-flow.
	ResultDialogDismissed Result = "dialog_dismissed"
)
