package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/company-intel/pkg/pipeline"
)

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	inDir := fs.String("in-dir", "", "directory to watch for incoming CSVs")
	outDir := fs.String("out-dir", "", "directory for deduped outputs")
	interval := fs.Duration("interval", time.Minute, "scan interval")
	column := fs.String("column", "", "name column to key on")
	keepSuffixes := fs.Bool("keep-suffixes", false, "don't strip legal suffixes when normalising")
	keepNormCol := fs.Bool("keep-norm-col", false, "keep the internal _norm_name column in outputs")
	fs.Parse(args)

	if *inDir == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "watch: -in-dir and -out-dir are required")
		fs.Usage()
		os.Exit(2)
	}

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	if *column == "" {
		*column = cfg.NameColumn
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	runs := openRuns(cfg, logger)
	if runs != nil {
		defer runs.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := pipeline.NewWatcher(*inDir, *outDir, pipeline.Config{
		NameColumn:     *column,
		StripSuffixes:  !*keepSuffixes,
		KeepNormColumn: *keepNormCol,
		Encoding:       cfg.Encoding,
		Runs:           runs,
	}, *interval, logger)

	logger.Info("watching for company CSVs", "in", *inDir, "out", *outDir, "interval", *interval)
	w.Start(ctx)
	logger.Info("watch stopped")
}
