// CLAUDE:SUMMARY Polling watcher that dedupes new or changed CSVs in a directory, carrying seen keys across files.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/company-intel/pkg/dataset"
)

// Watcher polls an input directory and runs the dedup pipeline on every
// CSV it hasn't processed yet (or that changed since). Files are
// handled sequentially in one goroutine so the first-occurrence rule
// holds across the whole session, with the shared key set carrying
// already-emitted canonical names from file to file.
type Watcher struct {
	inputDir  string
	outputDir string
	cfg       Config
	interval  time.Duration
	logger    *slog.Logger

	seen      *dataset.KeySet
	keysPath  string
	processed map[string]time.Time // path -> mtime at last successful run
}

// NewWatcher creates a watcher over inputDir that writes deduped
// outputs into outputDir every interval. cfg supplies the dedup options
// shared by all files; its Input/OutputCSV/Seen fields are managed per
// file by the watcher.
func NewWatcher(inputDir, outputDir string, cfg Config, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		inputDir:  inputDir,
		outputDir: outputDir,
		cfg:       cfg,
		interval:  interval,
		logger:    logger,
		seen:      dataset.NewKeySet(),
		keysPath:  filepath.Join(outputDir, "seen_keys.gob"),
		processed: make(map[string]time.Time),
	}
}

// Start runs an immediate scan then repeats every interval until ctx is
// cancelled. A previous session's key set is picked up from the output
// directory so restarts don't re-emit rows already written.
func (w *Watcher) Start(ctx context.Context) {
	if loaded, err := dataset.LoadKeySet(w.keysPath); err == nil {
		w.seen = loaded
		w.logger.Info("resumed key set", "path", w.keysPath, "keys", loaded.Len())
	}

	w.ScanOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ScanOnce(ctx)
		}
	}
}

// ScanOnce processes every new or changed CSV in the input directory,
// in lexical order so a session is reproducible.
func (w *Watcher) ScanOnce(ctx context.Context) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		w.logger.Error("watch: cannot read input dir", "dir", w.inputDir, "error", err)
		return
	}

	var ran int
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}

		path := filepath.Join(w.inputDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if last, ok := w.processed[path]; ok && !info.ModTime().After(last) {
			continue
		}

		cfg := w.cfg
		cfg.Input = path
		cfg.OutputCSV = filepath.Join(w.outputDir, outputName(entry.Name()))
		cfg.Seen = w.seen
		cfg.Logger = w.logger

		if _, err := Run(ctx, cfg); err != nil {
			w.logger.Error("watch: run failed", "input", path, "error", err)
			continue
		}
		w.processed[path] = info.ModTime()
		ran++
	}

	if ran > 0 {
		if err := w.seen.Save(w.keysPath); err != nil {
			w.logger.Warn("watch: cannot persist key set", "error", err)
		}
	}
}

// outputName maps companies.csv -> companies.deduped.csv.
func outputName(in string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + ".deduped.csv"
}
