package attest

import (
	"fmt"
	"strings"
)

// LookupSpec names the columns of a lookup table: the identifier column
// and the two value columns, and the attestation fields they fill.
type LookupSpec struct {
	Key            string
	ColumnA        string
	ColumnB        string
	FieldA, FieldB Field
}

// OwnerLookup is the spec for the application owner lookup table.
var OwnerLookup = LookupSpec{
	Key:     "AIT",
	ColumnA: string(FieldSupportOwner),
	ColumnB: string(FieldAPSSLT),
	FieldA:  FieldSupportOwner,
	FieldB:  FieldAPSSLT,
}

// ExecLookup is the spec for the technology executive lookup table.
var ExecLookup = LookupSpec{
	Key:     "AIT",
	ColumnA: string(FieldTechExec),
	ColumnB: string(FieldCIOExec),
	FieldA:  FieldTechExec,
	FieldB:  FieldCIOExec,
}

// Lookup maps identifiers to a pair of field values. The first row for
// an identifier wins; later rows are kept only as duplicates.
type Lookup struct {
	Name       string
	spec       LookupSpec
	entries    map[string][2]string
	duplicates []string
}

// NewLookup projects a lookup table to (key, a, b) using the column names
// in spec. A missing column is an error. Rows with a blank key are skipped.
func NewLookup(t Table, spec LookupSpec) (*Lookup, error) {
	cols := make([]int, 3)
	for i, name := range []string{spec.Key, spec.ColumnA, spec.ColumnB} {
		idx := t.Column(name)
		if idx < 0 {
			return nil, fmt.Errorf("%s: lookup column %q not found in %q", t.Name, name, t.Columns)
		}
		cols[i] = idx
	}
	if err := checkRowWidths(t); err != nil {
		return nil, err
	}

	l := &Lookup{
		Name:    t.Name,
		spec:    spec,
		entries: make(map[string][2]string, len(t.Rows)),
	}
	for _, row := range t.Rows {
		key := NormalizeKey(row[cols[0]])
		if key == "" {
			continue
		}
		if _, ok := l.entries[key]; ok {
			l.duplicates = append(l.duplicates, key)
			continue
		}
		l.entries[key] = [2]string{
			strings.TrimSpace(row[cols[1]]),
			strings.TrimSpace(row[cols[2]]),
		}
	}
	return l, nil
}

// Get returns the values for the identifier.
func (l *Lookup) Get(id string) (a, b string, ok bool) {
	v, ok := l.entries[NormalizeKey(id)]
	return v[0], v[1], ok
}

func (l *Lookup) Len() int {
	return len(l.entries)
}

// Duplicates returns the identifiers that appeared more than once, in the
// order their repeats were seen.
func (l *Lookup) Duplicates() []string {
	return l.duplicates
}

// Enrich fills the lookup fields of each record from the lookups. Records
// without a match keep blank fields. The result has the same records, in
// the same order, as the input; the input is not modified.
func Enrich(t *AttestationTable, lookups ...*Lookup) *AttestationTable {
	out := t.clone()
	for i := range out.Records {
		rec := &out.Records[i]
		for _, l := range lookups {
			a, b, ok := l.Get(rec.AIT)
			if !ok {
				continue
			}
			rec.Set(l.spec.FieldA, a)
			rec.Set(l.spec.FieldB, b)
		}
	}
	return out
}

// NormalizeKey trims an identifier and reduces integer-valued decimal
// renderings such as "101.0" to "101".
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Trim(s[i+1:], "0") == "" && isDigits(s[:i]) {
		return s[:i]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
