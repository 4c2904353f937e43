package formset

import "errors"

var (
	// ErrMissingManagementForm is returned when the management source lacks
	// the TOTAL_FORMS or INITIAL_FORMS field for the prefix.
	ErrMissingManagementForm = errors.New("formset: management form data is missing or has been tampered with")
	// ErrInvalidManagementForm is returned when a management count is not a
	// non-negative integer.
	ErrInvalidManagementForm = errors.New("formset: management form counts must be non-negative integers")
	// ErrNilSource is returned when a Reconciler has no Source to read.
	ErrNilSource = errors.New("formset: source is required")
)
