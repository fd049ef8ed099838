package inventory

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

const (
	// LowStockThreshold is the pack count under which a type is flagged as low.
	LowStockThreshold = 500

	dayKeyLayout   = "2006-01-02"
	dayLabelLayout = "Jan 2"
)

// ProducedAndSold sums the packs produced and sold for one water type.
func ProducedAndSold(production []models.ProductionEntry, sales []models.SalesEntry, wt models.WaterType) (produced, sold int) {
	for _, p := range production {
		if p.WaterType == wt {
			produced += p.Quantity
		}
	}
	for _, s := range sales {
		if s.WaterType == wt {
			sold += s.Quantity
		}
	}
	return produced, sold
}

// CurrentStock returns produced minus sold for one water type.
func CurrentStock(production []models.ProductionEntry, sales []models.SalesEntry, wt models.WaterType) int {
	produced, sold := ProducedAndSold(production, sales, wt)
	return produced - sold
}

// TotalStock sums the current stock over all entries regardless of type.
func TotalStock(production []models.ProductionEntry, sales []models.SalesEntry) int {
	total := 0
	for _, p := range production {
		total += p.Quantity
	}
	for _, s := range sales {
		total -= s.Quantity
	}
	return total
}

// Classify maps a stock level to its display status.
func Classify(stock int) models.StockStatus {
	if stock < LowStockThreshold {
		return models.StockLow
	}
	return models.StockHealthy
}

// Summaries returns one TypeSummary per catalog water type, in display order.
func Summaries(production []models.ProductionEntry, sales []models.SalesEntry) []models.TypeSummary {
	types := models.WaterTypes()
	out := make([]models.TypeSummary, 0, len(types))
	for _, wt := range types {
		out = append(out, Summarize(production, sales, wt))
	}
	return out
}

// Summarize builds the TypeSummary of a single water type.
func Summarize(production []models.ProductionEntry, sales []models.SalesEntry, wt models.WaterType) models.TypeSummary {
	produced, sold := ProducedAndSold(production, sales, wt)
	stock := produced - sold
	return models.TypeSummary{
		WaterType: wt,
		Produced:  produced,
		Sold:      sold,
		Stock:     stock,
		Bottles:   stock * wt.BottlesPerPack(),
		Status:    Classify(stock),
	}
}

// DailySeries yields windowDays consecutive calendar days ending on now's day,
// oldest first. Entry dates and the window are both truncated to days in loc.
// Each iteration re-reads the given slices, so the sequence can be ranged over
// more than once.
func DailySeries(production []models.ProductionEntry, sales []models.SalesEntry, windowDays int, now time.Time, loc *time.Location) iter.Seq[models.DayActivity] {
	if loc == nil {
		loc = time.UTC
	}
	return func(yield func(models.DayActivity) bool) {
		if windowDays <= 0 {
			return
		}

		buckets := make(map[string]map[models.WaterType]models.FlowTotals)
		bucket := func(t time.Time) map[models.WaterType]models.FlowTotals {
			key := t.In(loc).Format(dayKeyLayout)
			b, ok := buckets[key]
			if !ok {
				b = make(map[models.WaterType]models.FlowTotals)
				buckets[key] = b
			}
			return b
		}
		for _, p := range production {
			b := bucket(p.Date)
			flow := b[p.WaterType]
			flow.Produced += p.Quantity
			b[p.WaterType] = flow
		}
		for _, s := range sales {
			b := bucket(s.Date)
			flow := b[s.WaterType]
			flow.Sold += s.Quantity
			b[s.WaterType] = flow
		}

		today := StartOfDay(now, loc)
		for i := windowDays - 1; i >= 0; i-- {
			day := today.AddDate(0, 0, -i)
			activity := models.DayActivity{
				Date:   day,
				Label:  day.Format(dayLabelLayout),
				ByType: make(map[models.WaterType]models.FlowTotals),
			}
			b := buckets[day.Format(dayKeyLayout)]
			for _, wt := range models.WaterTypes() {
				flow := b[wt]
				activity.ByType[wt] = flow
				activity.Total.Produced += flow.Produced
				activity.Total.Sold += flow.Sold
			}
			if !yield(activity) {
				return
			}
		}
	}
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SortProductionByDateDesc returns a copy of entries ordered newest first.
func SortProductionByDateDesc(entries []models.ProductionEntry) []models.ProductionEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b models.ProductionEntry) int {
		return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano())
	})
	return out
}

// SortSalesByDateDesc returns a copy of entries ordered newest first.
func SortSalesByDateDesc(entries []models.SalesEntry) []models.SalesEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b models.SalesEntry) int {
		return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano())
	})
	return out
}
