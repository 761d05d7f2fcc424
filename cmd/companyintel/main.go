package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/company-intel/pkg/api"
	"github.com/hazyhaar/company-intel/pkg/rundb"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr       string `yaml:"addr"`
	RunsDB     string `yaml:"runs_db"`
	NameColumn string `yaml:"name_column"`
	Encoding   string `yaml:"encoding"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dedupe":
		cmdDedupe(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "runs":
		cmdRuns(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: companyintel <command>

Commands:
  dedupe  Deduplicate a company CSV by canonical name
  watch   Watch a directory and dedupe incoming CSVs
  serve   Start the HTTP API server
  mcp     Serve the MCP tools over stdio
  runs    Show recent dedup runs
`)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	runs := openRuns(cfg, logger)
	if runs != nil {
		defer runs.Close()
	}

	router := api.NewRouter(runs)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("company-intel listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	runs := openRuns(cfg, logger)
	if runs != nil {
		defer runs.Close()
	}

	srv := server.NewMCPServer("company-intel", "1.0.0")
	api.RegisterMCPTools(srv, runs)

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func cmdRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	limit := fs.Int("limit", 20, "maximum number of runs to show")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	runs, err := rundb.Open(cfg.RunsDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", cfg.RunsDB, err)
		os.Exit(1)
	}
	defer runs.Close()

	list, err := runs.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	for _, r := range list {
		line := fmt.Sprintf("#%-4d %-6s %6d -> %-6d (removed %d)  %s",
			r.ID, r.Status, r.RowsIn, r.RowsOut, r.Removed, r.Input)
		if r.Error != nil {
			line += "  error: " + *r.Error
		}
		fmt.Println(line)
	}
}

// openRuns opens the run history DB, or returns nil (history disabled)
// when no path is configured or the open fails.
func openRuns(cfg config, logger *slog.Logger) *rundb.DB {
	if cfg.RunsDB == "" {
		return nil
	}
	runs, err := rundb.Open(cfg.RunsDB)
	if err != nil {
		logger.Warn("run history disabled", "path", cfg.RunsDB, "error", err)
		return nil
	}
	return runs
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:       ":8421",
		RunsDB:     "runs.db",
		NameColumn: "company_name",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
