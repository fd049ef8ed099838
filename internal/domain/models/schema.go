package models

// FieldKind tells a generic form renderer which input to draw.
type FieldKind string

const (
	FieldNumber FieldKind = "number"
	FieldDate   FieldKind = "date"
	FieldText   FieldKind = "text"
	FieldSelect FieldKind = "select"
)

// FieldOption is one choice of a select field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor declares one editable field of an entry.
type FieldDescriptor struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Kind    FieldKind     `json:"type"`
	Options []FieldOption `json:"options,omitempty"`
}

// ProductionEditSchema describes the production edit form.
func ProductionEditSchema() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "quantity", Label: "Quantity", Kind: FieldNumber},
		{Name: "batchId", Label: "Batch ID", Kind: FieldText},
		{Name: "date", Label: "Date", Kind: FieldDate},
		{Name: "waterType", Label: "Type", Kind: FieldSelect, Options: waterTypeOptions()},
	}
}

// SalesEditSchema describes the sales edit form.
func SalesEditSchema() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "quantity", Label: "Quantity", Kind: FieldNumber},
		{Name: "date", Label: "Date", Kind: FieldDate},
		{Name: "waterType", Label: "Type", Kind: FieldSelect, Options: waterTypeOptions()},
	}
}

func waterTypeOptions() []FieldOption {
	opts := make([]FieldOption, 0, len(waterCatalog))
	for _, info := range waterCatalog {
		opts = append(opts, FieldOption{Value: string(info.Type), Label: info.Label})
	}
	return opts
}
