// Package server exposes the verification pipeline over HTTP for chat
// UIs and bot integrations.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/pipeline"
)

// Verifier runs one verification, honoring per-request options.
type Verifier interface {
	VerifyWith(ctx context.Context, claim string, opts model.VerifyOptions) (*model.Result, error)
}

// Server wraps a Verifier behind a JSON API.
type Server struct {
	verifier Verifier
	cfg      model.ServerConfig
	router   *mux.Router
}

// New creates the server and its routes.
func New(verifier Verifier, cfg model.ServerConfig) *Server {
	s := &Server{verifier: verifier, cfg: cfg}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/verify", s.handleVerify).Methods(http.MethodPost)
	s.router = r
	return s
}

// Handler returns the HTTP handler, usable directly in tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving requests until the context is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type verifyRequest struct {
	Message     string `json:"message"`
	MaxResults  int    `json:"max_results,omitempty"`
	ImageMarker string `json:"image_marker,omitempty"`
}

type verifyResponse struct {
	Verdict     string             `json:"verdict"`
	Confidence  float64            `json:"confidence"`
	Explanation string             `json:"explanation"`
	Sources     []model.SourceCard `json:"sources"`
	Evidence    evidenceBundle     `json:"evidence"`
	Cached      bool               `json:"cached"`
	Elapsed     float64            `json:"processing_time"` // seconds
	Notes       []string           `json:"notes,omitempty"`
}

type evidenceBundle struct {
	Support []evidenceLine `json:"support"`
	Refute  []evidenceLine `json:"refute"`
}

type evidenceLine struct {
	URL      string `json:"url"`
	Sentence string `json:"sentence"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "claimlens"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body", Code: "invalid_request"})
		return
	}

	opts := model.VerifyOptions{MaxResults: req.MaxResults, ImageMarker: req.ImageMarker}
	result, err := s.verifier.VerifyWith(r.Context(), req.Message, opts)
	if err != nil {
		status, code := errorStatus(err)
		writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
		return
	}

	writeJSON(w, http.StatusOK, toResponse(result))
}

// errorStatus maps the pipeline's error taxonomy onto HTTP. Anything
// outside the taxonomy is reported as the generic pipeline fault.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidClaim):
		return http.StatusBadRequest, "invalid_claim"
	case errors.Is(err, pipeline.ErrSearchUnavailable):
		return http.StatusBadGateway, "search_unavailable"
	default:
		log.Printf("verify failed: %v", err)
		return http.StatusInternalServerError, "pipeline_unavailable"
	}
}

func toResponse(result *model.Result) verifyResponse {
	resp := verifyResponse{
		Verdict:     string(result.Verdict),
		Confidence:  result.Confidence,
		Explanation: result.Explanation.Text(),
		Sources:     result.Sources,
		Evidence:    evidenceBundle{Support: []evidenceLine{}, Refute: []evidenceLine{}},
		Cached:      result.Cached,
		Elapsed:     result.Elapsed.Seconds(),
		Notes:       result.Notes,
	}
	for _, it := range result.Evidence.Supporting() {
		resp.Evidence.Support = append(resp.Evidence.Support, evidenceLine{URL: it.SourceURL, Sentence: it.Sentence})
	}
	for _, it := range result.Evidence.Contradicting() {
		resp.Evidence.Refute = append(resp.Evidence.Refute, evidenceLine{URL: it.SourceURL, Sentence: it.Sentence})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
