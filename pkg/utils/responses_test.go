package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestResponseError(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseConflict(rec, "Genre already exists")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Genre already exists" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestResponseEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseEmpty(rec)

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("ResponseEmpty = %d %q, want 200 with no body", rec.Code, rec.Body.String())
	}
}

func TestGenerateObjectID(t *testing.T) {
	hex24 := regexp.MustCompile(`^[0-9a-f]{24}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateObjectID()
		if !hex24.MatchString(id) {
			t.Fatalf("GenerateObjectID() = %q, want 24 lowercase hex chars", id)
		}
		if seen[id] {
			t.Fatalf("GenerateObjectID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestRequestIDContext(t *testing.T) {
	if _, ok := GetRequestIDFromContext(context.Background()); ok {
		t.Fatalf("empty context reported a request id")
	}

	ctx := SetRequestIDContext(context.Background(), "req-1")
	if id, ok := GetRequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("GetRequestIDFromContext = %q, %v; want req-1, true", id, ok)
	}
}
