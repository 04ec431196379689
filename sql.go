package attest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// OpenDB opens a PostgreSQL connection for loading lookup tables.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// LookupQuery builds the query selecting a lookup spec's columns from a
// table. The table may be schema qualified ("cmdb.applications").
func LookupQuery(table string, spec LookupSpec) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		pq.QuoteIdentifier(spec.Key),
		pq.QuoteIdentifier(spec.ColumnA),
		pq.QuoteIdentifier(spec.ColumnB),
		strings.Join(parts, "."))
}

// QueryTable runs a query and returns its result set as a table. Every
// value is read as text; NULL becomes blank.
func QueryTable(ctx context.Context, db *sql.DB, name, query string, args ...any) (Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()

	t, err := scanTable(name, rows)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTable(name string, rows rowScanner) (Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Table{}, err
	}
	t := Table{Name: name, Columns: cols}

	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Table{}, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}
