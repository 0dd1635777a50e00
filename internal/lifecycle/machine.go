package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

// ItemState is the part of an item the state machine reads.
type ItemState struct {
	Status          analyzer.Status
	StatusUpdatedAt *time.Time
	IsFavorite      bool
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Status          *analyzer.Status
	StatusUpdatedAt *time.Time
	IsFavorite      *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Status == nil && p.StatusUpdatedAt == nil && p.IsFavorite == nil
}

// ItemStore reads and writes item lifecycle fields, keyed by user and item.
type ItemStore interface {
	GetItemState(ctx context.Context, userID string, itemID int64) (ItemState, error)
	UpdateItem(ctx context.Context, userID string, itemID int64, patch Patch) error
}

// Outcome describes what an accepted action did.
type Outcome struct {
	ItemID  int64
	From    analyzer.Status
	To      analyzer.Status
	Changed bool
	// Favorited is true when the action set is_favorite.
	Favorited bool
}

// Machine applies user actions and usage-driven reactivation to items.
// It holds no state between calls; concurrent writes to the same item are
// last-write-wins.
type Machine struct {
	store ItemStore
}

// NewMachine creates a Machine writing through store.
func NewMachine(store ItemStore) *Machine {
	return &Machine{store: store}
}

// Apply validates req and applies its action as of now.
func (m *Machine) Apply(ctx context.Context, req Request, now time.Time) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	state, err := m.load(ctx, req.UserID, req.ItemID)
	if err != nil {
		return Outcome{}, err
	}

	patch, outcome, err := transition(state, req.Action, now)
	if err != nil {
		var te *TransitionError
		if errors.As(err, &te) {
			te.ItemID = req.ItemID
		}
		return Outcome{}, err
	}
	outcome.ItemID = req.ItemID

	if patch.Empty() {
		return outcome, nil
	}
	if err := m.store.UpdateItem(ctx, req.UserID, req.ItemID, patch); err != nil {
		return Outcome{}, m.storeError("update item", err)
	}
	return outcome, nil
}

// CheckReactivate reports whether a new usage of the item may be recorded:
// the item must exist and must not be deleted. Nothing is written.
func (m *Machine) CheckReactivate(ctx context.Context, userID string, itemID int64) error {
	if userID == "" || itemID <= 0 {
		return &ValidationError{Field: "item_id", Message: "user and item are required"}
	}

	state, err := m.load(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return reactivatable(itemID, state)
}

// Reactivate returns a pending or discarded item to active as of now. It is
// called when a new usage of the item is recorded. Active items are left
// alone; deleted items are rejected.
func (m *Machine) Reactivate(ctx context.Context, userID string, itemID int64, now time.Time) (Outcome, error) {
	if userID == "" || itemID <= 0 {
		return Outcome{}, &ValidationError{Field: "item_id", Message: "user and item are required"}
	}

	state, err := m.load(ctx, userID, itemID)
	if err != nil {
		return Outcome{}, err
	}
	if err := reactivatable(itemID, state); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{ItemID: itemID, From: state.Status, To: state.Status}
	if state.Status == analyzer.StatusActive {
		return outcome, nil
	}

	active := analyzer.StatusActive
	patch := Patch{Status: &active, StatusUpdatedAt: &now}
	if err := m.store.UpdateItem(ctx, userID, itemID, patch); err != nil {
		return Outcome{}, m.storeError("update item", err)
	}

	outcome.To = active
	outcome.Changed = true
	return outcome, nil
}

func reactivatable(itemID int64, state ItemState) error {
	switch state.Status {
	case analyzer.StatusActive, analyzer.StatusPending, analyzer.StatusDiscard:
		return nil
	}
	return &TransitionError{ItemID: itemID, From: state.Status, Action: "reactivate"}
}

func (m *Machine) load(ctx context.Context, userID string, itemID int64) (ItemState, error) {
	state, err := m.store.GetItemState(ctx, userID, itemID)
	if err != nil {
		return ItemState{}, m.storeError("get item state", err)
	}
	return state, nil
}

func (m *Machine) storeError(op string, err error) error {
	if errors.Is(err, ErrItemNotFound) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// transition computes the patch for action on an item in state. An empty
// patch means the action is accepted but changes nothing.
func transition(state ItemState, action Action, now time.Time) (Patch, Outcome, error) {
	outcome := Outcome{From: state.Status, To: state.Status}
	reject := &TransitionError{From: state.Status, Action: action}

	if state.Status == analyzer.StatusDeleted || !state.Status.IsValid() {
		return Patch{}, Outcome{}, reject
	}

	switch action {
	case ActionFavorite:
		outcome.Favorited = true
		if state.IsFavorite {
			return Patch{}, outcome, nil
		}
		fav := true
		outcome.Changed = true
		return Patch{IsFavorite: &fav}, outcome, nil

	case ActionPending:
		if state.Status == analyzer.StatusDiscard {
			return Patch{}, Outcome{}, reject
		}
		return statusPatch(analyzer.StatusPending, now, outcome)

	case ActionDiscard:
		if state.Status == analyzer.StatusDiscard {
			return Patch{}, outcome, nil
		}
		return statusPatch(analyzer.StatusDiscard, now, outcome)
	}

	return Patch{}, Outcome{}, &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", action)}
}

func statusPatch(to analyzer.Status, now time.Time, outcome Outcome) (Patch, Outcome, error) {
	outcome.To = to
	outcome.Changed = true
	return Patch{Status: &to, StatusUpdatedAt: &now}, outcome, nil
}
