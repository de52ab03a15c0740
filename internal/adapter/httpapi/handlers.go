package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"finance-agent/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type analyzeRequest struct {
	Query    string `json:"query"`
	Question string `json:"question"`
}

func (r analyzeRequest) text() string {
	if q := strings.TrimSpace(r.Query); q != "" {
		return q
	}
	return strings.TrimSpace(r.Question)
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status        string `json:"status"`
	LLMKeySet     bool   `json:"llm_key_set"`
	FMPKeySet     bool   `json:"fmp_key_set"`
	FMPKeyPreview string `json:"fmp_key_preview"`
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type toolRunResponse struct {
	Tool       string          `json:"tool"`
	Success    bool            `json:"success"`
	Output     json.RawMessage `json:"output,omitempty"`
	Error      string          `json:"error,omitempty"`
	ErrorKind  string          `json:"error_kind,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tools := s.tools.All()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name().String())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct {
		Title string
		Tools []string
	}{
		Title: "AI Financial Analyst",
		Tools: names,
	})
	if err != nil {
		s.logger.Error("Rendering index failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		LLMKeySet:     s.cfg.LLMKeySet,
		FMPKeySet:     s.cfg.FMPKey != "",
		FMPKeyPreview: keyPreview(s.cfg.FMPKey),
	})
}

func keyPreview(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) > 8 {
		key = key[:8]
	}
	return key + "..."
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	question := req.text()
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Query is required"})
		return
	}

	logger := s.logger.WithField("http_request_id", middleware.GetReqID(r.Context()))

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.analyzer.Analyze(ctx, question)
	if err != nil {
		status, msg := analyzeFailure(err)
		logger.Error("Analysis failed", "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// analyzeFailure maps an analysis error onto a status and a message that is
// safe to show to clients.
func analyzeFailure(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrEmptyQuestion):
		return http.StatusBadRequest, "Query is required"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "analysis timed out"
	case errors.Is(err, entity.ErrModel):
		return http.StatusBadGateway, "analysis failed: language model unavailable"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	defs := s.tools.Definitions()
	out := make([]toolInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, toolInfo{
			Name:        d.Name.String(),
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleRunTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, ok := s.tools.Get(entity.ToolName(name))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown tool: " + name})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading body failed"})
		return
	}

	start := time.Now()
	out, err := tool.Execute(r.Context(), string(body))
	resp := toolRunResponse{Tool: name, DurationMS: time.Since(start).Milliseconds()}
	if err != nil {
		toolErr := entity.NewToolError(err)
		resp.Error = toolErr.Error
		resp.ErrorKind = toolErr.ErrorKind
	} else {
		resp.Success = true
		resp.Output = json.RawMessage(out)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "AAPL"
	}
	writeJSON(w, http.StatusOK, s.probe.Probe(r.Context(), symbol))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
