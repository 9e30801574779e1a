package apperrors

import "errors"

// Error kinds returned by the core services. Handlers map these to HTTP
// status codes in pkg/utils; repositories and services wrap them with
// fmt.Errorf("...: %w", Err...) so callers can match with errors.Is.
var (
	// ErrNotFound - branch/item/transfer/dispatch/discrepancy id unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStateTransition - action invoked outside its valid source
	// state, or a conditional status update affected zero rows because a
	// concurrent call won the race.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInsufficientStock - an OUT-direction movement would drive
	// current_stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientAvailableStock - a reservation exceeds
	// current_stock - reserved_stock.
	ErrInsufficientAvailableStock = errors.New("insufficient available stock")

	// ErrInvalidApprovalQuantity - approved > requested, or a similar
	// quantity-ordering violation on transfer line items.
	ErrInvalidApprovalQuantity = errors.New("invalid approval quantity")

	// ErrDuplicateReference - transfer/dispatch/receiving number collision.
	ErrDuplicateReference = errors.New("duplicate reference")

	// ErrStoreUnavailable - the database is unreachable. Never retried
	// inside the core.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrValidation - request failed input validation before touching the
	// store.
	ErrValidation = errors.New("validation failed")
)
