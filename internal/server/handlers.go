package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/logging"
	"github.com/conneroisu/tailplay/internal/preview"
	"github.com/conneroisu/tailplay/internal/version"
)

// maxBodySize bounds request bodies of the JSON API.
const maxBodySize = 1 << 20

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Markup string `json:"markup"`
}

// ExampleSummary is one entry of GET /api/examples.
type ExampleSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Code        string       `json:"code"`
	Tags        []string     `json:"tags"`
	Kind        catalog.Kind `json:"kind"`
}

// ExamplesResponse is the body of GET /api/examples.
type ExamplesResponse struct {
	Results []ExampleSummary `json:"results"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler returns the HTTP handler with every route and middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /examples", s.handleExamplesPage)
	mux.HandleFunc("GET /playground", s.handlePlaygroundPage)

	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("GET /api/examples", s.handleExamples)
	mux.HandleFunc("GET /api/examples/{id}", s.handleExample)
	mux.HandleFunc("GET /api/examples/{id}/convert", s.handleExampleConvert)
	mux.HandleFunc("GET /api/examples/{id}/preview", s.handleExamplePreview)
	mux.HandleFunc("POST /api/preview", s.handlePreview)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.addMiddleware(mux)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	s.logger.Debug(r.Context(), "Converting markup", "markup", logging.SanitizeForLog(req.Markup))
	writeJSON(w, http.StatusOK, s.engine.Convert(req.Markup))
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entries := s.catalog.Filter(query.Get("q"), query.Get("tag"))

	results := make([]ExampleSummary, 0, len(entries))
	for _, sn := range entries {
		results = append(results, ExampleSummary{
			ID:          sn.ID,
			Title:       sn.Title,
			Description: sn.Description,
			Code:        sn.Markup(),
			Tags:        sn.Tags,
			Kind:        sn.Kind,
		})
	}

	writeJSON(w, http.StatusOK, ExamplesResponse{Results: results})
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	sn, err := s.catalog.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

func (s *Server) handleExampleConvert(w http.ResponseWriter, r *http.Request) {
	sn, err := s.catalog.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sn.Convert(s.engine))
}

func (s *Server) handleExamplePreview(w http.ResponseWriter, r *http.Request) {
	sn, err := s.catalog.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.writeDocument(w, r, sn.Title, s.panelsFor(sn))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var panels preview.Panels
	if err := decodeJSON(w, r, &panels); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.writeDocument(w, r, "Preview", panels)
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, title string, panels preview.Panels) {
	doc, err := preview.Render(r.Context(), title, panels)
	if err != nil {
		writeError(w, r, s.logger, errors.Wrap(err, errors.ErrorTypeInternal, errors.ErrCodeInternalError, "failed to render preview"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// handleHealth returns the server health status for health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{
		"server":    map[string]interface{}{"status": "healthy"},
		"catalog":   map[string]interface{}{"status": "healthy", "snippets": s.catalog.Len()},
		"websocket": map[string]interface{}{"status": "healthy", "clients": s.hub.Len()},
	}
	if cached, ok := s.engine.(*convert.CachedConverter); ok {
		checks["cache"] = map[string]interface{}{"status": "healthy", "stats": cached.Stats()}
	}

	health := map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    version.GetShortVersion(),
		"build_info": version.GetBuildInfo(),
		"checks":     checks,
	}

	writeJSON(w, http.StatusOK, health)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.ErrInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs err with the request's ID and responds with the status
// HTTPStatus assigns to it.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	reqLogger := logger.WithRequestID(RequestID(r.Context())).With("path", logging.SanitizeForLog(r.URL.Path))
	errors.NewErrorHandler(reqLogger).Handle(r.Context(), err)
	writeErrorStatus(w, errors.HTTPStatus(err), err)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: errors.Code(err)})
}
