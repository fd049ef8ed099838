package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

const exportFilePrefix = "montwater-inventory"

// Export renders both collections as an indented JSON document.
func Export(doc models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(normalize(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return data, nil
}

// ExportFilename returns the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("%s-%s.json", exportFilePrefix, now.Format(dateLayout))
}

// Decode parses an import document. Both "production" and "sales" must be present
// and be arrays; individual entries are taken as they are.
func Decode(data []byte) (models.Document, error) {
	var raw struct {
		Production json.RawMessage `json:"production"`
		Sales      json.RawMessage `json:"sales"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if !isArray(raw.Production) {
		return models.Document{}, fmt.Errorf("%w: production must be an array", ErrMalformedDocument)
	}
	if !isArray(raw.Sales) {
		return models.Document{}, fmt.Errorf("%w: sales must be an array", ErrMalformedDocument)
	}

	var doc models.Document
	if err := json.Unmarshal(raw.Production, &doc.Production); err != nil {
		return models.Document{}, fmt.Errorf("%w: production: %v", ErrMalformedDocument, err)
	}
	if err := json.Unmarshal(raw.Sales, &doc.Sales); err != nil {
		return models.Document{}, fmt.Errorf("%w: sales: %v", ErrMalformedDocument, err)
	}
	return normalize(doc), nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// normalize replaces nil collections with empty ones so they encode as [].
func normalize(doc models.Document) models.Document {
	if doc.Production == nil {
		doc.Production = []models.ProductionEntry{}
	}
	if doc.Sales == nil {
		doc.Sales = []models.SalesEntry{}
	}
	return doc
}
