package attest

import "slices"

// NormalizeOptions tune the column normalizer.
type NormalizeOptions struct {
	// Strict rejects tables with extra trailing columns.
	Strict bool
}

// Normalize maps a raw source table onto the attestation schema. The
// result has the schema's field set and order, and one record per input
// row in input order. A table already in the normalized shape is mapped
// by column name instead of by position.
func Normalize(t Table, schema SourceSchema, opts NormalizeOptions) (*AttestationTable, error) {
	fields := schema.Fields()
	out := &AttestationTable{
		Source:  schema.Source,
		Fields:  fields,
		Records: make([]Record, 0, len(t.Rows)),
	}

	if isNormalized(t, fields) {
		if err := checkRowWidths(t); err != nil {
			return nil, err
		}
		for _, row := range t.Rows {
			var rec Record
			for i, f := range fields {
				rec.Set(f, row[i])
			}
			out.Records = append(out.Records, rec)
		}
		return out, nil
	}

	if err := schema.Validate(t, opts.Strict); err != nil {
		return nil, err
	}

	for _, row := range t.Rows {
		var rec Record
		for i, f := range schema.Columns {
			rec.Set(f, row[i])
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func isNormalized(t Table, fields []Field) bool {
	if len(t.Columns) != len(fields) {
		return false
	}
	return slices.EqualFunc(t.Columns, fields, func(c string, f Field) bool {
		return c == string(f)
	})
}

// Table renders the attestation table back into a raw table, for export
// and for feeding the normalizer again.
func (t *AttestationTable) Table() Table {
	return Table{
		Name:    string(t.Source),
		Columns: t.Header(),
		Rows:    t.Rows(),
	}
}
