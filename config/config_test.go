package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"kastelo.dev/attest/excel"
)

const testConfig = `
aps:
  path: input/aps.xlsx
  sheet: Tracker
cio:
  path: /data/cio.csv
  encoding: windows-1252
owners:
  path: input/owners.xlsx
execs:
  table: cmdb.app_execs
exec_lookup:
  key: AIT Number
dsn: postgres://localhost/cmdb
strict: true
output_dir: out
layout:
  aps:
    title: APS Q3
    rules:
      - rows: [4, 9, 18, 20, 23, 29, 51]
        style:
          fill: "#FFFF00"
          bold: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "attest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ATTEST_DSN", "")
	t.Setenv("ATTEST_LOG_LEVEL", "")
	path := writeConfig(t, testConfig)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APS.Path != filepath.Join(dir, "input/aps.xlsx") || cfg.APS.Sheet != "Tracker" {
		t.Errorf("unexpected aps input %+v", cfg.APS)
	}
	if cfg.CIO.Path != "/data/cio.csv" {
		t.Errorf("absolute path rewritten: %q", cfg.CIO.Path)
	}
	if cfg.OutputDir != filepath.Join(dir, "out") {
		t.Errorf("unexpected output dir %q", cfg.OutputDir)
	}
	if !cfg.Strict {
		t.Error("expected strict")
	}

	// partially set lookups are completed from defaults
	expected := Lookup{Key: "AIT Number", ColumnA: "Tech Exec", ColumnB: "CIO Exec"}
	if diff := cmp.Diff(expected, cfg.ExecLookup); diff != "" {
		t.Errorf("exec lookup mismatch (-want +got):\n%s", diff)
	}
	if cfg.OwnerLookup.Key != "AIT" {
		t.Errorf("unexpected owner lookup %+v", cfg.OwnerLookup)
	}

	// layout keeps defaults where the file is silent
	if cfg.Layout.APS.Name != "APS" || cfg.Layout.APS.Title != "APS Q3" {
		t.Errorf("unexpected aps layout %+v", cfg.Layout.APS)
	}
	if diff := cmp.Diff(excel.DefaultLayout().CIOReview, cfg.Layout.CIOReview); diff != "" {
		t.Errorf("cio review layout mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 9, 18, 20, 23, 29, 51}, cfg.Layout.APS.Rules[0].Rows); diff != "" {
		t.Errorf("rule rows mismatch (-want +got):\n%s", diff)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	opts := cfg.Options()
	if !opts.Normalize.Strict || opts.ExecLookup.Key != "AIT Number" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ATTEST_DSN", "postgres://override/db")
	t.Setenv("ATTEST_LOG_LEVEL", "debug")
	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DSN != "postgres://override/db" || cfg.LogLevel != "debug" {
		t.Errorf("environment not applied: %q, %q", cfg.DSN, cfg.LogLevel)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ATTEST_LOG_LEVEL", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" || cfg.OutputName != "Attestation_Report_{date}.xlsx" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing inputs to fail validation")
	}
}

func TestLoadBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "aps: [unclosed")); err == nil {
		t.Error("unexpected success")
	}
}

func TestValidateTableNeedsDSN(t *testing.T) {
	cfg := Default()
	cfg.APS.Path = "aps.xlsx"
	cfg.CIO.Path = "cio.xlsx"
	cfg.Owners.Path = "owners.xlsx"
	cfg.Execs.Table = "execs"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without dsn")
	}
	cfg.DSN = "postgres://localhost/db"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = "reports"
	got := cfg.OutputPath(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))
	if got != filepath.Join("reports", "Attestation_Report_2024-07-01.xlsx") {
		t.Errorf("unexpected path %q", got)
	}
}
