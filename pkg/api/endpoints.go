package api

import (
	"context"
	"fmt"

	"github.com/hazyhaar/company-intel/pkg/dataset"
	"github.com/hazyhaar/company-intel/pkg/kit"
	"github.com/hazyhaar/company-intel/pkg/names"
	"github.com/hazyhaar/company-intel/pkg/rundb"
)

// Shared request/response types used by both HTTP and MCP transports.

// NormalizeResult pairs a raw name with its canonical form.
type NormalizeResult struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
}

type batchResponse struct {
	Results []NormalizeResult `json:"results"`
}

type dedupeResponse struct {
	Columns []string        `json:"columns"`
	Rows    [][]string      `json:"rows"`
	Summary dataset.Summary `json:"summary"`
}

type runsResponse struct {
	Runs []rundb.Run `json:"runs"`
}

type normalizeReq struct {
	Name         string
	KeepSuffixes bool
}

type normalizeBatchReq struct {
	Names        []string
	KeepSuffixes bool
}

type dedupeReq struct {
	Columns        []string
	Rows           [][]string
	NameColumn     string
	KeepSuffixes   bool
	KeepNormColumn bool
}

type listRunsReq struct {
	Limit int
}

// Endpoints returns the core kit.Endpoints.

func normalizeTermEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeReq)
		return NormalizeResult{
			Name:       req.Name,
			Normalized: names.Normalize(req.Name, !req.KeepSuffixes),
		}, nil
	}
}

func normalizeBatchEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeBatchReq)
		if len(req.Names) == 0 {
			return nil, fmt.Errorf("names array is empty")
		}
		if len(req.Names) > 100 {
			return nil, fmt.Errorf("too many names (max 100, got %d)", len(req.Names))
		}
		results := make([]NormalizeResult, len(req.Names))
		for i, n := range req.Names {
			results[i] = NormalizeResult{Name: n, Normalized: names.Normalize(n, !req.KeepSuffixes)}
		}
		return batchResponse{Results: results}, nil
	}
}

func dedupeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*dedupeReq)
		if len(req.Columns) == 0 {
			return nil, fmt.Errorf("columns array is empty")
		}

		table := &dataset.Table{Columns: req.Columns, Rows: req.Rows}
		deduped, sum, err := dataset.Dedupe(table, dataset.Options{
			NameColumn:     req.NameColumn,
			StripSuffixes:  !req.KeepSuffixes,
			KeepNormColumn: req.KeepNormColumn,
		})
		if err != nil {
			return nil, err
		}
		rows := deduped.Rows
		if rows == nil {
			rows = [][]string{}
		}
		return dedupeResponse{Columns: deduped.Columns, Rows: rows, Summary: *sum}, nil
	}
}

func listRunsEndpoint(runs *rundb.DB) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		if runs == nil {
			return nil, fmt.Errorf("run history is disabled")
		}
		limit := 50
		if req, ok := request.(*listRunsReq); ok && req != nil && req.Limit > 0 {
			limit = req.Limit
		}
		list, err := runs.ListRuns(limit)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []rundb.Run{}
		}
		return runsResponse{Runs: list}, nil
	}
}
