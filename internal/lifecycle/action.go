// Package lifecycle records a user's decision on a declutter candidate.
//
// Transitions driven by user actions:
//
//	active  --pending-->  pending   (status_updated_at = now)
//	pending --pending-->  pending   (cooldown restarts)
//	active  --discard-->  discard
//	pending --discard-->  discard
//	discard --discard-->  discard   (no-op)
//	discard --pending-->  rejected
//	deleted --any------>  rejected  (terminal)
//
// favorite sets the orthogonal is_favorite flag on any non-deleted item and
// never touches the status. No user action returns an item to active; that
// only happens through Reactivate when a new usage is recorded.
package lifecycle

import (
	"errors"
	"strconv"
	"strings"

	"github.com/blackwell-systems/closetprune/internal/validation"
)

// Action is a user decision on a candidate.
type Action string

const (
	ActionPending  Action = "pending"
	ActionDiscard  Action = "discard"
	ActionFavorite Action = "favorite"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionPending, ActionDiscard, ActionFavorite:
		return true
	}
	return false
}

// ParseAction converts command-line input to an Action, ignoring case and
// surrounding space. Request.Validate accepts only the exact action names.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", &ValidationError{Field: "action", Message: "unknown action " + strconv.Quote(s)}
	}
	return a, nil
}

// Request is one action on one item on behalf of a user.
type Request struct {
	UserID string `json:"user_id" validate:"required"`
	ItemID int64  `json:"item_id" validate:"required,gt=0"`
	Action Action `json:"action" validate:"required,oneof=pending discard favorite"`
}

// Validate checks that every field is present and the action is known.
func (r Request) Validate() error {
	err := validation.Struct(&r)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := errs[0]
	if first.Field == "action" && first.Tag == "oneof" {
		return &ValidationError{Field: "action", Message: "unknown action " + strconv.Quote(string(r.Action))}
	}
	return &ValidationError{Field: first.Field, Message: first.Message}
}
