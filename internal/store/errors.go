package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

// ErrNotInitialized is returned when the database has no schema yet.
var ErrNotInitialized = errors.New("database not initialized: run 'closetprune items add' or 'closetprune seed' first")

// ErrItemNotFound is returned when the user owns no item with the given id.
var ErrItemNotFound = analyzer.ErrItemNotFound

// wrapErr annotates err with msg, mapping a missing table to
// ErrNotInitialized.
func wrapErr(msg string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", msg, ErrNotInitialized)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
