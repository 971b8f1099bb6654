package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/repository"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	for _, key := range []string{"success", "message", "data", "errors"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("envelope missing %q key: %s", key, rec.Body.String())
		}
	}
	return body
}

func TestWriteSuccessWrapsPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, map[string]any{"id": "42"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["message"] != "operation successful" {
		t.Fatalf("message = %v", body["message"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["id"] != "42" {
		t.Fatalf("data = %v", body["data"])
	}
	if body["errors"] != nil {
		t.Fatalf("errors should be null on success, got %v", body["errors"])
	}
}

func TestWriteSuccessLiftsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"user":    map[string]any{"id": "u1"},
	})

	body := decodeEnvelope(t, rec)
	if body["message"] != "registration successful" {
		t.Fatalf("message = %v", body["message"])
	}
	data := body["data"].(map[string]any)
	if _, leaked := data["message"]; leaked {
		t.Fatal("message key should not remain in data")
	}
	if _, ok := data["user"]; !ok {
		t.Fatal("data lost user key")
	}
}

func TestWriteSuccessPassThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, map[string]any{
		"success": false,
		"message": "already shaped",
		"data":    nil,
		"errors":  map[string]any{"field": "bad"},
	})

	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Fatalf("pre-shaped payload was rewrapped: %v", body)
	}
	if body["message"] != "already shaped" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestWriteFailureClassification(t *testing.T) {
	router := &Router{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validation(map[string][]string{"title": {"this field is required"}}), http.StatusBadRequest, "submitted data is invalid"},
		{"unauthenticated", apperr.Unauthenticated(), http.StatusUnauthorized, "login required"},
		{"forbidden reason", apperr.Forbidden("must be a team member"), http.StatusForbidden, "must be a team member"},
		{"not found", apperr.NotFound(""), http.StatusNotFound, "resource not found"},
		{"business rule", apperr.BusinessRule(http.StatusBadRequest, "maximum projects reached"), http.StatusBadRequest, "maximum projects reached"},
		{"bare repo not found", repository.ErrNotFound, http.StatusNotFound, "resource not found"},
		{"wrapped repo not found", apperr.NotFound("").Wrap(repository.ErrNotFound), http.StatusNotFound, "resource not found"},
		{"unclassified", errors.New("pg: connection refused"), http.StatusInternalServerError, "unexpected error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.writeFailure(rec, "test_handler", tc.err)

		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
			continue
		}
		body := decodeEnvelope(t, rec)
		if body["success"] != false {
			t.Errorf("%s: success = %v", tc.name, body["success"])
		}
		if body["message"] != tc.wantMsg {
			t.Errorf("%s: message = %v, want %q", tc.name, body["message"], tc.wantMsg)
		}
		if body["data"] != nil {
			t.Errorf("%s: data should be null on failure, got %v", tc.name, body["data"])
		}
	}
}

func TestWriteFailureCarriesDetails(t *testing.T) {
	router := &Router{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	rec := httptest.NewRecorder()
	router.writeFailure(rec, "test_handler", apperr.Validation(map[string][]string{"name": {"this field is required"}}))

	body := decodeEnvelope(t, rec)
	details, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("errors = %v", body["errors"])
	}
	reasons, ok := details["name"].([]any)
	if !ok || len(reasons) != 1 || reasons[0] != "this field is required" {
		t.Fatalf("details = %v", details)
	}
}

func TestWriteFailureHidesInternalDetail(t *testing.T) {
	router := &Router{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	rec := httptest.NewRecorder()
	router.writeFailure(rec, "test_handler", errors.New("dial tcp 10.0.0.5:5432: i/o timeout"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "unexpected error" {
		t.Fatalf("internal error detail leaked: %v", body["message"])
	}
}

func TestPathID(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/teams/abc", "abc"},
		{"/teams/", ""},
		{"/teams/abc/extra", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if got := pathID(req, "/teams/"); got != tc.want {
			t.Errorf("pathID(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
