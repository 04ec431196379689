package attest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Input is everything a report is built from.
type Input struct {
	APS    Table
	CIO    Table
	Owners Table
	Execs  Table
}

// Options configure a report build.
type Options struct {
	Normalize   NormalizeOptions
	OwnerLookup LookupSpec
	ExecLookup  LookupSpec
}

// DefaultOptions use the standard lookup column names.
func DefaultOptions() Options {
	return Options{
		OwnerLookup: OwnerLookup,
		ExecLookup:  ExecLookup,
	}
}

// Report is the result of one run: the two enriched attestation tables and
// their status and review status pivots.
type Report struct {
	APS       *AttestationTable
	CIO       *AttestationTable
	APSStatus *Pivot
	APSReview *Pivot
	CIOStatus *Pivot
	CIOReview *Pivot

	Owners *Lookup
	Execs  *Lookup
}

// Build normalizes, enriches and aggregates both sources. The APS and CIO
// tables are processed concurrently; any failure aborts the whole build.
func Build(ctx context.Context, in Input, opts Options) (*Report, error) {
	owners, err := NewLookup(in.Owners, opts.OwnerLookup)
	if err != nil {
		return nil, fmt.Errorf("owner lookup: %w", err)
	}
	execs, err := NewLookup(in.Execs, opts.ExecLookup)
	if err != nil {
		return nil, fmt.Errorf("executive lookup: %w", err)
	}

	rep := &Report{Owners: owners, Execs: execs}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rep.APS, rep.APSStatus, rep.APSReview, err = buildSource(ctx, in.APS, APSSchema, opts, owners, execs)
		return err
	})
	g.Go(func() error {
		var err error
		rep.CIO, rep.CIOStatus, rep.CIOReview, err = buildSource(ctx, in.CIO, CIOSchema, opts, owners, execs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

func buildSource(ctx context.Context, t Table, schema SourceSchema, opts Options, lookups ...*Lookup) (*AttestationTable, *Pivot, *Pivot, error) {
	norm, err := Normalize(t, schema, opts.Normalize)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	enriched := Enrich(norm, lookups...)
	return enriched, NewPivot(enriched, FieldTridentStatus), NewPivot(enriched, FieldReviewStatus), nil
}
