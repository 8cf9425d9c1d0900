package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/pipeline"
)

// stubVerifier returns a fixed result or error and records what it was
// asked to verify.
type stubVerifier struct {
	result *model.Result
	err    error

	gotClaim string
	gotOpts  model.VerifyOptions
}

func (s *stubVerifier) VerifyWith(_ context.Context, claim string, opts model.VerifyOptions) (*model.Result, error) {
	s.gotClaim = claim
	s.gotOpts = opts
	return s.result, s.err
}

func testServer(v *stubVerifier) *Server {
	return New(v, model.ServerConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second})
}

func postVerify(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/verify", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleVerify_Success(t *testing.T) {
	result := &model.Result{
		Claim:      model.NewClaim("the earth is flat"),
		Verdict:    model.VerdictLikelyFalse,
		Confidence: 0.92,
		Explanation: model.Explanation{
			Raw:     "Evidence strongly suggests the claim is false.",
			Sources: []string{"https://a.example"},
		},
		Sources: []model.SourceCard{{ID: 1, URL: "https://a.example", Stance: model.StanceRefute}},
		Evidence: model.EvidenceBundle{Items: []model.EvidenceItem{
			{SourceURL: "https://a.example", Sentence: "Satellite imagery shows curvature.", Label: model.LabelContradiction, Confidence: 0.92},
		}},
		Elapsed: 1500 * time.Millisecond,
	}
	srv := testServer(&stubVerifier{result: result})

	rec := postVerify(t, srv, `{"message": "the earth is flat"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp verifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if resp.Verdict != "likely_false" {
		t.Errorf("Expected likely_false, got %s", resp.Verdict)
	}
	if resp.Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %f", resp.Confidence)
	}
	if len(resp.Evidence.Refute) != 1 || resp.Evidence.Refute[0].URL != "https://a.example" {
		t.Errorf("Expected refuting evidence listed, got %+v", resp.Evidence)
	}
	if len(resp.Evidence.Support) != 0 {
		t.Errorf("Expected empty (not null) support list, got %+v", resp.Evidence.Support)
	}
	if resp.Elapsed != 1.5 {
		t.Errorf("Expected processing time in seconds, got %f", resp.Elapsed)
	}
}

func TestHandleVerify_ForwardsRequestOptions(t *testing.T) {
	stub := &stubVerifier{result: &model.Result{Claim: model.NewClaim("vaccines contain microchips")}}
	srv := testServer(stub)

	rec := postVerify(t, srv, `{"message": "vaccines contain microchips", "max_results": 3, "image_marker": "[image attached]"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotClaim != "vaccines contain microchips" {
		t.Errorf("Expected the message forwarded as the claim, got %q", stub.gotClaim)
	}
	if stub.gotOpts.MaxResults != 3 {
		t.Errorf("Expected max_results forwarded as 3, got %d", stub.gotOpts.MaxResults)
	}
	if stub.gotOpts.ImageMarker != "[image attached]" {
		t.Errorf("Expected image_marker forwarded, got %q", stub.gotOpts.ImageMarker)
	}
}

func TestHandleVerify_DefaultOptions(t *testing.T) {
	stub := &stubVerifier{result: &model.Result{Claim: model.NewClaim("the earth is flat")}}
	srv := testServer(stub)

	rec := postVerify(t, srv, `{"message": "the earth is flat"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotOpts != (model.VerifyOptions{}) {
		t.Errorf("Expected zero options when the request omits them, got %+v", stub.gotOpts)
	}
}

func TestHandleVerify_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid claim", fmt.Errorf("%w: too short", pipeline.ErrInvalidClaim), http.StatusBadRequest, "invalid_claim"},
		{"search down", fmt.Errorf("search: %w", pipeline.ErrSearchUnavailable), http.StatusBadGateway, "search_unavailable"},
		{"pipeline fault", pipeline.ErrPipelineUnavailable, http.StatusInternalServerError, "pipeline_unavailable"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "pipeline_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubVerifier{err: tt.err})

			rec := postVerify(t, srv, `{"message": "whatever"}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Expected JSON error body, got %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestHandleVerify_MalformedBody(t *testing.T) {
	srv := testServer(&stubVerifier{})

	rec := postVerify(t, srv, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestHandleVerify_MethodNotAllowed(t *testing.T) {
	srv := testServer(&stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET on verify, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(&stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}
