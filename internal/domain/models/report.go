package models

import "time"

// DailyReport is the end-of-day stock snapshot archived to MongoDB and Google Sheets.
type DailyReport struct {
	Date          time.Time     `bson:"date" json:"date"`
	Stock         []TypeSummary `bson:"stock" json:"stock"`
	TotalStock    int           `bson:"total_stock" json:"total_stock"`
	ProducedToday int           `bson:"produced_today" json:"produced_today"`
	SoldToday     int           `bson:"sold_today" json:"sold_today"`
	LowStock      []WaterType   `bson:"low_stock" json:"low_stock"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
}
