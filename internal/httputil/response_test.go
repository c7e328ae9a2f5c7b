package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusForbidden, "nope", map[string]interface{}{"reason": "unapproved"})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["reason"] != "unapproved" || body["detail"] != "nope" || body["title"] != "Forbidden" {
		t.Errorf("unexpected body: %v", body)
	}
	if body["status"] != float64(http.StatusForbidden) {
		t.Errorf("unexpected status member: %v", body["status"])
	}
}

func TestRespondErrorOmitsEmptyDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusTeapot, "")

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["detail"]; ok {
		t.Error("empty detail should be omitted")
	}
	if body["type"] != "about:blank" {
		t.Errorf("unexpected type %v", body["type"])
	}
}
