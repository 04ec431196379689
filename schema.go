package attest

import (
	"fmt"
	"slices"
)

// SourceSchema maps source columns, by position, onto attestation fields.
type SourceSchema struct {
	Source  Source
	Columns []Field
}

// The APS export carries a completion date column in sixth position which
// in practice holds the application owner.
var APSSchema = SourceSchema{
	Source: SourceAPS,
	Columns: []Field{
		FieldAIT,
		FieldAITName,
		FieldAssessment,
		FieldTridentStatus,
		FieldDueDate,
		FieldAppOwner,
		FieldAPSAccountable,
	},
}

var CIOSchema = SourceSchema{
	Source: SourceCIO,
	Columns: []Field{
		FieldAIT,
		FieldAITName,
		FieldAssessment,
		FieldTridentStatus,
		FieldDueDate,
		FieldAppOwner,
	},
}

// SchemaFor returns the schema for the given source.
func SchemaFor(src Source) (SourceSchema, error) {
	switch src {
	case SourceAPS:
		return APSSchema, nil
	case SourceCIO:
		return CIOSchema, nil
	default:
		return SourceSchema{}, fmt.Errorf("unknown source %q", src)
	}
}

// Fields returns the normalized output fields: the canonical order
// restricted to the mapped columns plus the placeholders.
func (s SourceSchema) Fields() []Field {
	var fields []Field
	for _, f := range canonicalFields {
		if slices.Contains(s.Columns, f) || slices.Contains(placeholderFields, f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Validate checks the table shape against the schema. A table with fewer
// columns than mapped is always rejected; extra trailing columns are
// rejected only in strict mode.
func (s SourceSchema) Validate(t Table, strict bool) error {
	if len(t.Columns) < len(s.Columns) || (strict && len(t.Columns) != len(s.Columns)) {
		return &SchemaError{
			Table:    t.Name,
			Source:   s.Source,
			Expected: len(s.Columns),
			Actual:   len(t.Columns),
		}
	}
	return checkRowWidths(t)
}

func checkRowWidths(t Table) error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%s: row %d has %d cells, header has %d", t.Name, i+2, len(row), len(t.Columns))
		}
	}
	return nil
}

// SchemaError reports a source table whose column count does not match
// its schema.
type SchemaError struct {
	Table    string
	Source   Source
	Expected int
	Actual   int
}

func (e *SchemaError) Error() string {
	name := e.Table
	if name == "" {
		name = string(e.Source)
	}
	return fmt.Sprintf("%s: schema mismatch for %s source: expected %d columns, got %d", name, e.Source, e.Expected, e.Actual)
}
