// CLAUDE:SUMMARY CLI subcommand running one dedup pass: input CSV/URL/zip in, deduped CSV + Excel out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/company-intel/pkg/pipeline"
)

func cmdDedupe(args []string) {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	in := fs.String("in", "", "input CSV (local path, http(s) URL, or .zip)")
	out := fs.String("out", "", "output CSV path (an .xlsx is written next to it)")
	column := fs.String("column", "", "name column to key on (default from config, else company_name)")
	encoding := fs.String("encoding", "", "source encoding when not UTF-8 (e.g. iso-8859-1)")
	keepSuffixes := fs.Bool("keep-suffixes", false, "don't strip legal suffixes (Ltd/LLP/PLC) when normalising")
	keepNormCol := fs.Bool("keep-norm-col", false, "keep the internal _norm_name column in the output")
	verbose := fs.Bool("verbose", false, "print a summary after the run")
	fs.Parse(args)

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "dedupe: -in and -out are required")
		fs.Usage()
		os.Exit(2)
	}

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	if *column == "" {
		*column = cfg.NameColumn
	}
	if *encoding == "" {
		*encoding = cfg.Encoding
	}

	runs := openRuns(cfg, logger)
	if runs != nil {
		defer runs.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	sum, err := pipeline.Run(ctx, pipeline.Config{
		Input:          *in,
		OutputCSV:      *out,
		NameColumn:     *column,
		StripSuffixes:  !*keepSuffixes,
		KeepNormColumn: *keepNormCol,
		Encoding:       *encoding,
		Runs:           runs,
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		xlsx := strings.TrimSuffix(*out, filepath.Ext(*out)) + ".xlsx"
		fmt.Printf("Read %d rows -> %d unique (removed %d).\n", sum.RowsIn, sum.RowsOut, sum.Removed)
		fmt.Printf("Wrote: %s and %s\n", *out, xlsx)
	}
}
