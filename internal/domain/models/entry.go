package models

import "time"

const (
	// DefaultCustomer is recorded on sales when no customer is captured.
	DefaultCustomer = "Customer"
)

// ProductionEntry captures one production run of packs.
type ProductionEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	BatchID   string    `json:"batchId"`
	WaterType WaterType `json:"waterType"`
}

// SalesEntry captures one sales transaction.
type SalesEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	WaterType WaterType `json:"waterType"`
	Customer  string    `json:"customer"`
	Price     float64   `json:"price"`
}

// ProductionPatch holds the fields of a production edit. Nil fields are left untouched.
type ProductionPatch struct {
	Date      *time.Time `json:"date,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
	BatchID   *string    `json:"batchId,omitempty"`
	WaterType *WaterType `json:"waterType,omitempty"`
}

// Apply returns a copy of entry with the patch fields overwritten.
func (p ProductionPatch) Apply(entry ProductionEntry) ProductionEntry {
	if p.Date != nil {
		entry.Date = *p.Date
	}
	if p.Quantity != nil {
		entry.Quantity = *p.Quantity
	}
	if p.BatchID != nil {
		entry.BatchID = *p.BatchID
	}
	if p.WaterType != nil {
		entry.WaterType = *p.WaterType
	}
	return entry
}

// SalesPatch holds the fields of a sales edit. Nil fields are left untouched.
type SalesPatch struct {
	Date      *time.Time `json:"date,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
	WaterType *WaterType `json:"waterType,omitempty"`
	Customer  *string    `json:"customer,omitempty"`
	Price     *float64   `json:"price,omitempty"`
}

// Apply returns a copy of entry with the patch fields overwritten.
func (p SalesPatch) Apply(entry SalesEntry) SalesEntry {
	if p.Date != nil {
		entry.Date = *p.Date
	}
	if p.Quantity != nil {
		entry.Quantity = *p.Quantity
	}
	if p.WaterType != nil {
		entry.WaterType = *p.WaterType
	}
	if p.Customer != nil {
		entry.Customer = *p.Customer
	}
	if p.Price != nil {
		entry.Price = *p.Price
	}
	return entry
}

// Document is the persisted store state and the portable export format.
type Document struct {
	Production []ProductionEntry `json:"production"`
	Sales      []SalesEntry      `json:"sales"`
}
