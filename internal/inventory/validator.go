package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

const dateLayout = "2006-01-02"

// StockReader answers the current stock of a water type.
type StockReader interface {
	InventoryByType(wt models.WaterType) int
}

// ValidateNewProduction checks a production candidate before it is stored.
func ValidateNewProduction(entry models.ProductionEntry) error {
	if entry.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(entry.BatchID) == "" {
		return &FieldError{Field: "batchId"}
	}
	if entry.Date.IsZero() {
		return &FieldError{Field: "date"}
	}
	if !entry.WaterType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWaterType, entry.WaterType)
	}
	return nil
}

// ValidateNewSale checks a sales candidate against the stock available before it
// is admitted.
func ValidateNewSale(entry models.SalesEntry, stock StockReader) error {
	if entry.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if entry.Date.IsZero() {
		return &FieldError{Field: "date"}
	}
	if !entry.WaterType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWaterType, entry.WaterType)
	}

	available := stock.InventoryByType(entry.WaterType)
	if entry.Quantity > available {
		return &InsufficientStockError{
			WaterType: entry.WaterType,
			Available: available,
			Requested: entry.Quantity,
		}
	}
	return nil
}

// ValidateSaleEdit checks the stock impact of applying patch to an existing sale.
// The existing quantity is already counted as sold, so only the extra packs of a
// same-type increase are checked. Moving a sale to another type checks the full
// new quantity against that type.
func ValidateSaleEdit(existing models.SalesEntry, patch models.SalesPatch, stock StockReader) error {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return &FieldError{Field: "date"}
	}

	updated := patch.Apply(existing)
	if !updated.WaterType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWaterType, updated.WaterType)
	}

	if updated.WaterType != existing.WaterType {
		available := stock.InventoryByType(updated.WaterType)
		if updated.Quantity > available {
			return &InsufficientStockError{
				WaterType: updated.WaterType,
				Available: available,
				Requested: updated.Quantity,
			}
		}
		return nil
	}

	delta := updated.Quantity - existing.Quantity
	if delta <= 0 {
		return nil
	}
	available := stock.InventoryByType(existing.WaterType)
	if delta > available {
		return &InsufficientStockError{
			WaterType: existing.WaterType,
			Available: available,
			Requested: delta,
		}
	}
	return nil
}

// ValidateProductionEdit rejects production edits that would withdraw more packs
// from a type than are currently in stock.
func ValidateProductionEdit(existing models.ProductionEntry, patch models.ProductionPatch, stock StockReader) error {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if patch.BatchID != nil && strings.TrimSpace(*patch.BatchID) == "" {
		return &FieldError{Field: "batchId"}
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return &FieldError{Field: "date"}
	}

	updated := patch.Apply(existing)
	if !updated.WaterType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWaterType, updated.WaterType)
	}

	withdrawn := existing.Quantity
	if updated.WaterType == existing.WaterType {
		withdrawn = existing.Quantity - updated.Quantity
	}
	if withdrawn <= 0 {
		return nil
	}
	available := stock.InventoryByType(existing.WaterType)
	if withdrawn > available {
		return &InsufficientStockError{
			WaterType: existing.WaterType,
			Available: available,
			Requested: withdrawn,
		}
	}
	return nil
}

// ParseQuantity converts raw form input into a positive pack count.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidQuantity
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return qty, nil
}

// ParseDate accepts a calendar date (YYYY-MM-DD, midnight in loc) or an RFC 3339
// timestamp.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &FieldError{Field: "date"}
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
