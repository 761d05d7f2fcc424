package api

import (
	"encoding/json"
	"net/http"

	"github.com/hazyhaar/company-intel/pkg/rundb"
	"github.com/hazyhaar/company-intel/pkg/kit"
)

// NewRouter returns an http.Handler with all API routes. runs may be
// nil when run history is disabled.
func NewRouter(runs *rundb.DB) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		normalizeTerm:  normalizeTermEndpoint(),
		normalizeBatch: normalizeBatchEndpoint(),
		dedupe:         dedupeEndpoint(),
		listRuns:       listRunsEndpoint(runs),
		runs:           runs,
	}

	mux.HandleFunc("GET /v1/normalize/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/normalize/batch", h.handleNormalizeBatch)
	mux.HandleFunc("GET /v1/normalize/{name}", h.handleNormalizeTerm)
	mux.HandleFunc("POST /v1/dedupe", h.handleDedupe)
	mux.HandleFunc("GET /v1/runs", h.handleListRuns)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	normalizeTerm  kit.Endpoint
	normalizeBatch kit.Endpoint
	dedupe         kit.Endpoint
	listRuns       kit.Endpoint
	runs           *rundb.DB
}

// --- normalize single name ---

func (h *handler) handleNormalizeTerm(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	resp, err := h.normalizeTerm(r.Context(), &normalizeReq{
		Name:         name,
		KeepSuffixes: r.URL.Query().Get("keep_suffixes") == "true",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- normalize batch ---

type httpBatchRequest struct {
	Names        []string `json:"names"`
	KeepSuffixes bool     `json:"keep_suffixes,omitempty"`
}

func (h *handler) handleNormalizeBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.normalizeBatch(r.Context(), &normalizeBatchReq{
		Names:        req.Names,
		KeepSuffixes: req.KeepSuffixes,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- dedupe rows ---

type httpDedupeRequest struct {
	Columns        []string   `json:"columns"`
	Rows           [][]string `json:"rows"`
	NameColumn     string     `json:"name_column,omitempty"`
	KeepSuffixes   bool       `json:"keep_suffixes,omitempty"`
	KeepNormColumn bool       `json:"keep_norm_column,omitempty"`
}

func (h *handler) handleDedupe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10*1024*1024) // 10 MiB max
	var req httpDedupeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.dedupe(r.Context(), &dedupeReq{
		Columns:        req.Columns,
		Rows:           req.Rows,
		NameColumn:     req.NameColumn,
		KeepSuffixes:   req.KeepSuffixes,
		KeepNormColumn: req.KeepNormColumn,
	})
	if err != nil {
		// Schema errors (missing name column) and size limits are
		// both caller mistakes.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- run history ---

func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	resp, err := h.listRuns(r.Context(), &listRunsReq{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status     string `json:"status"`
	RunHistory bool   `json:"run_history"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		RunHistory: h.runs != nil,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
