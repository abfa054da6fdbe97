package scheduler

import (
	"errors"
	"fmt"

	"github.com/caylanwilcox/qr-system-sub003/internal/engine"
)

// Store-level sentinels. The GORM adapter translates conditional-write
// misses into these so the variants can map them onto the error taxonomy.
var (
	ErrNotFound      = errors.New("record not found")
	ErrCapacityFull  = errors.New("event capacity reached")
	ErrDuplicatePair = errors.New("employee already assigned to this event")
	ErrStaleVersion  = errors.New("event was modified by another admin")

	// ErrOperationInFlight reports that a submit was ignored because an
	// identical one is still outstanding for the same target entity.
	ErrOperationInFlight = errors.New("operation already in flight for this target")
)

// AuthorizationError: the viewer's role does not permit the operation (or
// any scheduler view at all). Rendered as an unauthorized view, no retry.
type AuthorizationError struct {
	Role string
	Op   string
}

func (e *AuthorizationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("role %q is not authorized for scheduling", e.Role)
	}
	return fmt.Sprintf("role %q is not authorized to %s", e.Role, e.Op)
}

// ValidationError: malformed event or assignment input. Surfaced inline,
// the dialog stays open, no retry.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// ConflictError: engine rejection or a lost conditional write. Carries the
// specific reason so the UI can tell the user what to change.
type ConflictError struct {
	Reason engine.Reason
	Msg    string
}

func (e *ConflictError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Reason)
}

// StoreError: a fetch or commit against the data store failed. The only
// class that leaves persistent user-visible error state behind.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
