package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInputs(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"aps.csv":    "AIT,Context,Title,Status,Due,Completed,Accountable\n101,App,Att,Pending,2024-06-30,,Smith\n",
		"cio.csv":    "AIT,Context,Title,Status,Due,Accountable\n201,App,Att,Complete,2024-06-30,Jones\n202,App,Att,Pending,2024-06-30,Brown\n",
		"owners.csv": "AIT,Support Owner,APS SLT\n101,Owner A,SLT A\n",
		"execs.csv":  "AIT,CIO Exec,Tech Exec\n101,CIO A,Tech A\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := Default()
	cfg.APS.Path = filepath.Join(dir, "aps.csv")
	cfg.CIO.Path = filepath.Join(dir, "cio.csv")
	cfg.Owners.Path = filepath.Join(dir, "owners.csv")
	cfg.Execs.Path = filepath.Join(dir, "execs.csv")
	return cfg
}

func TestLoadInputFiles(t *testing.T) {
	cfg := writeInputs(t)
	in, err := cfg.LoadInput(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		rows int
		got  int
	}{
		{"aps", 1, len(in.APS.Rows)},
		{"cio", 2, len(in.CIO.Rows)},
		{"owners", 1, len(in.Owners.Rows)},
		{"execs", 1, len(in.Execs.Rows)},
	}
	for _, c := range cases {
		if c.got != c.rows {
			t.Errorf("%s: expected %d rows, got %d", c.name, c.rows, c.got)
		}
	}
	if in.CIO.Name != "cio.csv" {
		t.Errorf("unexpected table name %q", in.CIO.Name)
	}
}

func TestLoadInputTableWithoutDSN(t *testing.T) {
	cfg := writeInputs(t)
	cfg.Execs = Input{Table: "cmdb.app_execs"}
	cfg.DSN = ""

	_, err := cfg.LoadInput(context.Background())
	if err == nil {
		t.Fatal("unexpected success")
	}
	if !strings.Contains(err.Error(), "requires a dsn") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadInputSourceTableNotQueried(t *testing.T) {
	cfg := writeInputs(t)
	cfg.APS = Input{Table: "aps"}
	cfg.DSN = "postgres://localhost/unused"

	_, err := cfg.LoadInput(context.Background())
	if err == nil || !strings.Contains(err.Error(), "aps: no input path") {
		t.Errorf("unexpected error %v", err)
	}
}
