package analyzer

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned by Explain when the user owns no item with
// the requested id.
var ErrItemNotFound = errors.New("item not found")

// UpstreamError wraps a failure of the usage summary provider. No partial
// results accompany it.
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
