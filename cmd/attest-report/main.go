package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/google/uuid"
	"kastelo.dev/attest"
	"kastelo.dev/attest/config"
	"kastelo.dev/attest/excel"
)

func main() {
	cmdBuild := kingpin.Command("build", "Build the attestation status workbook")
	cmdCheck := kingpin.Command("check", "Read and process the inputs without writing a workbook")
	cfgFile := kingpin.Flag("config", "Configuration file").Short('c').ExistingFile()
	apsFile := kingpin.Flag("aps", "APS source table (.xlsx or .csv)").String()
	cioFile := kingpin.Flag("cio", "CIO source table (.xlsx or .csv)").String()
	ownersFile := kingpin.Flag("owners", "Support owner lookup table").String()
	execsFile := kingpin.Flag("execs", "Executive lookup table").String()
	strict := kingpin.Flag("strict", "Reject source tables with extra columns").Bool()
	verbose := kingpin.Flag("verbose", "Log intermediate table shapes").Short('v').Bool()
	outDir := cmdBuild.Flag("out", "Output directory").String()
	date := cmdBuild.Flag("date", "Report date for the file name (YYYY-MM-DD)").String()
	cmd := kingpin.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fatal("Error loading configuration", err)
	}
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&cfg.APS.Path, *apsFile},
		{&cfg.CIO.Path, *cioFile},
		{&cfg.Owners.Path, *ownersFile},
		{&cfg.Execs.Path, *execsFile},
		{&cfg.OutputDir, *outDir},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}
	if *strict {
		cfg.Strict = true
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	runID := uuid.NewString()
	setupLogging(cfg.LogLevel, runID)

	if err := cfg.Validate(); err != nil {
		fatal("Invalid configuration", err)
	}

	now := time.Now()
	if *date != "" {
		now, err = time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			fatal("Invalid report date", err)
		}
	}

	ctx := context.Background()
	rep, err := build(ctx, cfg)
	if err != nil {
		fatal("Error building report", err)
	}

	switch cmd {
	case cmdCheck.FullCommand():
		fmt.Print(summary(rep))

	case cmdBuild.FullCommand():
		bs, err := excel.ReportXLSX(excel.ReportSheets(rep, cfg.Layout), excel.Properties{
			Title:   "Attestation Status Report",
			Creator: "attest-report",
			RunID:   runID,
			Created: now,
		})
		if err != nil {
			fatal("Error creating Excel file", err)
		}
		path := cfg.OutputPath(now)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fatal("Error creating output directory", err)
		}
		if err := os.WriteFile(path, bs, 0o644); err != nil {
			fatal("Error writing Excel file", err)
		}
		slog.Info("Wrote report", "path", path, "bytes", len(bs))
	}
}

func build(ctx context.Context, cfg config.Config) (*attest.Report, error) {
	in, err := cfg.LoadInput(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range []attest.Table{in.APS, in.CIO, in.Owners, in.Execs} {
		slog.Debug("Read table", "name", t.Name, "rows", len(t.Rows), "columns", len(t.Columns))
	}
	rep, err := attest.Build(ctx, in, cfg.Options())
	if err != nil {
		return nil, err
	}

	for _, l := range []*attest.Lookup{rep.Owners, rep.Execs} {
		if dups := l.Duplicates(); len(dups) > 0 {
			slog.Warn("Duplicate lookup identifiers, first row used", "lookup", l.Name, "count", len(dups), "ids", dups)
		}
	}
	for _, t := range []*attest.AttestationTable{rep.APS, rep.CIO} {
		slog.Debug("Enriched table", "source", t.Source, "rows", len(t.Records), "fields", len(t.Fields))
		if n := t.Empty(attest.FieldCIOExec); n > 0 {
			slog.Warn("Records without executive", "source", t.Source, "count", n)
		}
		if n := t.Empty(attest.FieldSupportOwner); n > 0 {
			slog.Warn("Records without support owner", "source", t.Source, "count", n)
		}
	}
	for _, p := range []struct {
		name  string
		pivot *attest.Pivot
	}{
		{"APS status", rep.APSStatus},
		{"APS review", rep.APSReview},
		{"CIO status", rep.CIOStatus},
		{"CIO review", rep.CIOReview},
	} {
		slog.Debug("Pivot", "name", p.name, "groups", p.pivot.Len(), "categories", len(p.pivot.Categories))
	}
	return rep, nil
}

func summary(rep *attest.Report) string {
	return fmt.Sprintf("APS: %d records, %d status groups, %d review groups\nCIO: %d records, %d status groups, %d review groups\n",
		len(rep.APS.Records), rep.APSStatus.Len(), rep.APSReview.Len(),
		len(rep.CIO.Records), rep.CIOStatus.Len(), rep.CIOReview.Len())
}

func setupLogging(level, runID string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h).With("run", runID))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
