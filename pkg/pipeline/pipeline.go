// CLAUDE:SUMMARY Orchestrates one dedup run: fetch input, read CSV, dedupe, write CSV+Excel, record history.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/company-intel/pkg/dataset"
	"github.com/hazyhaar/company-intel/pkg/rundb"
	"github.com/hazyhaar/company-intel/pkg/tabular"
)

// Config holds everything one dedup run needs. Runs is optional; when
// nil the run is simply not recorded.
type Config struct {
	Input          string // local path, http(s) URL, or .zip
	OutputCSV      string
	NameColumn     string
	StripSuffixes  bool
	KeepNormColumn bool
	Encoding       string // source encoding, "" = UTF-8
	Seen           *dataset.KeySet
	Runs           *rundb.DB
	Logger         *slog.Logger
}

// Run reads the input table, dedupes it on the canonical company name,
// and writes CSV plus a best-effort Excel rendering. The summary is
// returned even when recording history fails; any other failure aborts
// with no partial output.
func Run(ctx context.Context, cfg Config) (*dataset.Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	started := time.Now()

	sum, err := run(ctx, cfg, logger)
	if cfg.Runs != nil {
		if err != nil {
			if _, dbErr := cfg.Runs.RecordFailure(cfg.Input, started, err); dbErr != nil {
				logger.Warn("failed to record run failure", "error", dbErr)
			}
		} else {
			_, dbErr := cfg.Runs.Record(rundb.Run{
				Input:      cfg.Input,
				Output:     cfg.OutputCSV,
				RowsIn:     sum.RowsIn,
				RowsOut:    sum.RowsOut,
				Removed:    sum.Removed,
				Status:     rundb.StatusOK,
				StartedAt:  started.Unix(),
				DurationMS: time.Since(started).Milliseconds(),
			})
			if dbErr != nil {
				logger.Warn("failed to record run", "error", dbErr)
			}
		}
	}
	return sum, err
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) (*dataset.Summary, error) {
	input := cfg.Input
	if isLocal(input) {
		if _, err := os.Stat(input); err != nil {
			wd, _ := os.Getwd()
			return nil, fmt.Errorf("input not found: %s (working dir: %s): %w", input, wd, err)
		}
	}

	workDir := filepath.Join(filepath.Dir(cfg.OutputCSV), "_fetch")
	path, err := tabular.FetchInput(ctx, input, workDir)
	if err != nil {
		return nil, err
	}
	if path != input {
		defer os.RemoveAll(workDir)
	}

	table, err := tabular.ReadCSV(path, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	deduped, sum, err := dataset.Dedupe(table, dataset.Options{
		NameColumn:     cfg.NameColumn,
		StripSuffixes:  cfg.StripSuffixes,
		KeepNormColumn: cfg.KeepNormColumn,
		Seen:           cfg.Seen,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	if err := tabular.WriteOutputs(cfg.OutputCSV, deduped, logger); err != nil {
		return nil, err
	}

	logger.Info("dedup run complete",
		"input", cfg.Input,
		"output", cfg.OutputCSV,
		"rows_in", sum.RowsIn,
		"rows_out", sum.RowsOut,
		"removed", sum.Removed,
	)
	return sum, nil
}

func isLocal(input string) bool {
	return !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://")
}
