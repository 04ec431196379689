package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"kastelo.dev/attest"
	"kastelo.dev/attest/config"
)

func main() {
	dir := flag.String("dir", ".", "Directory")
	cfgFile := flag.String("config", "", "Configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	in, err := cfg.LoadInput(ctx)
	if err != nil {
		log.Fatal(err)
	}

	rep, err := attest.Build(ctx, in, cfg.Options())
	if err != nil {
		log.Fatal(err)
	}

	writeTable(*dir, "aps.csv", rep.APS)
	writeTable(*dir, "cio.csv", rep.CIO)
	writePivot(*dir, "aps_status.csv", rep.APSStatus)
	writePivot(*dir, "aps_review.csv", rep.APSReview)
	writePivot(*dir, "cio_status.csv", rep.CIOStatus)
	writePivot(*dir, "cio_review.csv", rep.CIOReview)
}

func writeTable(dir, name string, t *attest.AttestationTable) {
	fd, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Fatal(err)
	}
	cw := csv.NewWriter(fd)
	cw.Write(t.Header())
	cw.WriteAll(t.Rows())
	if err := fd.Close(); err != nil {
		log.Fatal(err)
	}
}

func writePivot(dir, name string, p *attest.Pivot) {
	fd, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Fatal(err)
	}
	cw := csv.NewWriter(fd)
	hdr := []string{string(attest.FieldCIOExec), string(attest.FieldTechExec)}
	hdr = append(hdr, p.Categories...)
	cw.Write(append(hdr, "Total"))
	for _, g := range p.Groups {
		row := []string{g.CIOExec, g.TechExec}
		for _, c := range p.Categories {
			val := ""
			if n, ok := p.Count(g, c); ok {
				val = strconv.Itoa(n)
			}
			row = append(row, val)
		}
		row = append(row, strconv.Itoa(p.Total(g)))
		cw.Write(row)
	}
	cw.Flush()
	if err := fd.Close(); err != nil {
		log.Fatal(err)
	}
}
