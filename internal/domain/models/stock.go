package models

import "time"

// StockStatus is the display classification of a stock level.
type StockStatus string

const (
	StockLow     StockStatus = "low"
	StockHealthy StockStatus = "healthy"
)

// TypeSummary aggregates the produced, sold and on-hand packs of one water type.
type TypeSummary struct {
	WaterType WaterType   `json:"waterType"`
	Produced  int         `json:"produced"`
	Sold      int         `json:"sold"`
	Stock     int         `json:"stock"`
	Bottles   int         `json:"bottles"`
	Status    StockStatus `json:"status"`
}

// FlowTotals is the produced and sold pack count for a period.
type FlowTotals struct {
	Produced int `json:"produced"`
	Sold     int `json:"sold"`
}

// DayActivity is one calendar day of the daily series.
type DayActivity struct {
	Date   time.Time                `json:"date"`
	Label  string                   `json:"label"`
	ByType map[WaterType]FlowTotals `json:"byType"`
	Total  FlowTotals               `json:"total"`
}
