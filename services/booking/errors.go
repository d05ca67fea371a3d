package booking

import (
	"errors"
	"fmt"
)

// Draft step validation errors, surfaced synchronously to the customer.
var (
	ErrNotDraftOwner     = errors.New("draft does not belong to this customer")
	ErrDraftNotEditable  = errors.New("draft is no longer editable")
	ErrPackageRequired   = errors.New("package tier must be selected before slots")
	ErrAnswersIncomplete = errors.New("all qualifying answers must be provided")
	ErrNoSlotsRequested  = errors.New("at least one slot must be selected")
	ErrDraftIncomplete   = errors.New("draft is missing required selections")
	ErrSlotNotInSchedule = errors.New("requested slot is not on the schedule")
)

// TransitionError reports an attempt to apply a state change the draft
// state machine does not permit. Logged as a bug/alert; never applied.
type TransitionError struct {
	DraftID string
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition for draft %s: %s -> %s", e.DraftID, e.From, e.To)
}

// PricingMismatchError reports a client-submitted total that disagrees with
// the server computation. The request is rejected, never silently corrected.
type PricingMismatchError struct {
	Submitted int64
	Computed  int64
}

func (e *PricingMismatchError) Error() string {
	return fmt.Sprintf("submitted total %d does not match computed total %d", e.Submitted, e.Computed)
}
