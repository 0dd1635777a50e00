package lifecycle

import (
	"fmt"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

// ErrItemNotFound is returned when the user owns no item with the given id.
// ItemStore implementations must return an error wrapping it.
var ErrItemNotFound = analyzer.ErrItemNotFound

// ValidationError is a malformed request. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransitionError is an action the item's current status does not accept.
// Nothing was written.
type TransitionError struct {
	ItemID int64
	From   analyzer.Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("item %d: cannot apply %q to an item in status %q", e.ItemID, e.Action, e.From)
}

// UpstreamError is a failure of the item store.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
