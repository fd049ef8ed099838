package models

import "fmt"

// WaterType identifies one of the fixed bottled-water product variants.
type WaterType string

const (
	Water330ml WaterType = "330ml"
	Water500ml WaterType = "500ml"
	Water1Ltr  WaterType = "1Ltr"
)

// WaterTypeInfo is the static catalog entry for a WaterType.
type WaterTypeInfo struct {
	Type           WaterType `json:"type"`
	BottlesPerPack int       `json:"bottlesPerPack"`
	Label          string    `json:"label"`
}

var waterCatalog = []WaterTypeInfo{
	{Type: Water330ml, BottlesPerPack: 20, Label: "330ml (20 bottles/pack)"},
	{Type: Water500ml, BottlesPerPack: 15, Label: "500ml (15 bottles/pack)"},
	{Type: Water1Ltr, BottlesPerPack: 8, Label: "1Ltr (8 bottles/pack)"},
}

// WaterTypes returns every known water type in display order.
func WaterTypes() []WaterType {
	types := make([]WaterType, 0, len(waterCatalog))
	for _, info := range waterCatalog {
		types = append(types, info.Type)
	}
	return types
}

// Catalog returns a copy of the water type catalog in display order.
func Catalog() []WaterTypeInfo {
	out := make([]WaterTypeInfo, len(waterCatalog))
	copy(out, waterCatalog)
	return out
}

// ParseWaterType converts a raw key into a WaterType.
func ParseWaterType(raw string) (WaterType, error) {
	wt := WaterType(raw)
	if !wt.Valid() {
		return "", fmt.Errorf("unknown water type %q", raw)
	}
	return wt, nil
}

// Valid reports whether the type is part of the catalog.
func (w WaterType) Valid() bool {
	_, ok := w.info()
	return ok
}

// BottlesPerPack returns the number of bottles in a pack, or 0 for unknown types.
func (w WaterType) BottlesPerPack() int {
	info, _ := w.info()
	return info.BottlesPerPack
}

// Label returns the display label, falling back to the raw key.
func (w WaterType) Label() string {
	if info, ok := w.info(); ok {
		return info.Label
	}
	return string(w)
}

func (w WaterType) info() (WaterTypeInfo, bool) {
	for _, info := range waterCatalog {
		if info.Type == w {
			return info, true
		}
	}
	return WaterTypeInfo{}, false
}
