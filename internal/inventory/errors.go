package inventory

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

var (
	// ErrInvalidQuantity is returned for non-positive or non-numeric quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrMissingField is returned when a required text or date field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownWaterType is returned for water types outside the catalog.
	ErrUnknownWaterType = errors.New("unknown water type")

	// ErrInsufficientStock is returned when a mutation would drive a type's stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMalformedDocument is returned when an import document has the wrong shape.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNotFound is returned when an edit targets an id that does not exist.
	ErrNotFound = errors.New("entry not found")
)

// FieldError names the required field that was left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// InsufficientStockError reports the stock available at the time of the check.
type InsufficientStockError struct {
	WaterType models.WaterType
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d packs of %s available, requested %d",
		e.Available, e.WaterType, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrUnknownWaterType) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrMalformedDocument)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
