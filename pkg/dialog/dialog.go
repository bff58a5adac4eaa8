// Package dialog defines the UI-facing capabilities the engine consumes:
// the satisfaction pre-dialog, the feedback form, and the OS review request.
// Implementations live in the host application; this package only fixes the
// contracts.
package dialog

import "context"

// Choice is the user's answer to the satisfaction pre-dialog.
type Choice string

const (
	// ChoicePositive means the user is happy; route to the OS review prompt.
	ChoicePositive Choice = "positive"

	// ChoiceNegative means the user is unhappy; route to feedback collection.
	ChoiceNegative Choice = "negative"

	// ChoiceRemindLater means ask again another time. Does not consume a
	// prompt slot.
	ChoiceRemindLater Choice = "remind_later"

	// ChoiceDismissed means the dialog was closed without choosing. Does not
	// consume a prompt slot.
	ChoiceDismissed Choice = "dismissed"
)

// Feedback is the payload collected by the feedback form.
type Feedback struct {
	Comment      string
	Category     string
	ContactEmail string
}

// Host is the abstract UI handle dialogs are attached to (an activity, a
// view controller, a window). Valid reports whether the handle can still be
// used; the engine checks it before every UI-dependent step and bails out
// with a dismissed outcome when the surface is gone.
type Host interface {
	Valid() bool
}

// Dialog presents the satisfaction pre-dialog and the optional feedback
// form. Both calls block until the user answers; the engine imposes no
// timeout.
type Dialog interface {
	// ShowPreDialog presents the satisfaction question and returns the
	// user's choice.
	ShowPreDialog(ctx context.Context, host Host) (Choice, error)

	// ShowFeedbackDialog presents the feedback form. A nil Feedback with a
	// nil error means the user backed out without submitting.
	ShowFeedbackDialog(ctx context.Context, host Host) (*Feedback, error)
}

// Reviewer is the OS-level review-request capability. Availability varies by
// OS version and store presence; when unavailable the engine skips the call
// but still counts the prompt as shown.
type Reviewer interface {
	Available() bool
	RequestReview(ctx context.Context, host Host) error
}
