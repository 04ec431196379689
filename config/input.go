package config

import (
	"context"
	"database/sql"
	"fmt"

	"kastelo.dev/attest"
)

// LoadInput reads all four input tables. Lookup tables configured with a
// database table name and no path are queried through the DSN.
func (c Config) LoadInput(ctx context.Context) (attest.Input, error) {
	var in attest.Input
	var db *sql.DB
	if c.DSN != "" && (c.Owners.fromDB() || c.Execs.fromDB()) {
		var err error
		db, err = attest.OpenDB(ctx, c.DSN)
		if err != nil {
			return in, err
		}
		defer db.Close()
	}

	opts := c.Options()
	for _, t := range []struct {
		name string
		dst  *attest.Table
		src  Input
		spec attest.LookupSpec
	}{
		{"aps", &in.APS, c.APS, attest.LookupSpec{}},
		{"cio", &in.CIO, c.CIO, attest.LookupSpec{}},
		{"owners", &in.Owners, c.Owners, opts.OwnerLookup},
		{"execs", &in.Execs, c.Execs, opts.ExecLookup},
	} {
		var err error
		switch {
		case t.src.Path != "":
			*t.dst, err = attest.OpenTable(t.src.Path, t.src.Sheet, t.src.Encoding)
		case t.src.Table != "" && t.spec.Key != "":
			if db == nil {
				return in, fmt.Errorf("%s: table %q requires a dsn", t.name, t.src.Table)
			}
			*t.dst, err = attest.QueryTable(ctx, db, t.src.Table, attest.LookupQuery(t.src.Table, t.spec))
		default:
			return in, fmt.Errorf("%s: no input path", t.name)
		}
		if err != nil {
			return in, err
		}
	}
	return in, nil
}

func (in Input) fromDB() bool {
	return in.Path == "" && in.Table != ""
}
