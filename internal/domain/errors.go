package domain

import (
	"errors"
	"fmt"
)

type FailureKind string

const (
	FailureEpubGeneration FailureKind = "epub_generation_failed"
	FailureDelivery       FailureKind = "delivery_failed"
	FailureUnexpected     FailureKind = "unexpected_unit_failure"
)

// UnitError classifies why a single user's delivery unit failed. Its message
// is what ends up in the failed history record.
type UnitError struct {
	Kind FailureKind
	Err  error
}

func (e *UnitError) Error() string {
	switch e.Kind {
	case FailureEpubGeneration:
		return fmt.Sprintf("EPUB generation failed: %v", e.Err)
	case FailureDelivery:
		return fmt.Sprintf("Email failed: %v", e.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", e.Err)
	}
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

func EpubGenerationFailed(err error) *UnitError {
	return &UnitError{Kind: FailureEpubGeneration, Err: err}
}

func DeliveryFailed(err error) *UnitError {
	return &UnitError{Kind: FailureDelivery, Err: err}
}

func UnexpectedFailure(err error) *UnitError {
	return &UnitError{Kind: FailureUnexpected, Err: err}
}

// AsUnitError returns err as a *UnitError, classifying it with kind when it
// is not one already.
func AsUnitError(err error, kind FailureKind) *UnitError {
	var unitErr *UnitError
	if errors.As(err, &unitErr) {
		return unitErr
	}
	return &UnitError{Kind: kind, Err: err}
}
