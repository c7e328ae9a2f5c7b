package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Bearer   padded  ", "padded"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(req); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	var dest struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","extra":1}`))
	if err := ParseJSON(httptest.NewRecorder(), req, &dest); err == nil {
		t.Fatal("expected error for unknown field")
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x"}`))
	if err := ParseJSON(httptest.NewRecorder(), req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Title != "x" {
		t.Errorf("expected title x, got %q", dest.Title)
	}
}

func TestUserIDContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetUserID(req); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
	if got := GetUserID(WithUserID(req, "user-1")); got != "user-1" {
		t.Errorf("expected user-1, got %q", got)
	}
}
