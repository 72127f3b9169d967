package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusConflict, "busy")

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"busy"}` {
		t.Fatalf("unexpected body: %s", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi","mood":"x"}`))
	var dst struct {
		Message string `json:"message"`
	}
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestSendSSEEvent(t *testing.T) {
	rr := httptest.NewRecorder()
	SetupSSEHeaders(rr)
	SendSSEEvent(rr, rr, "working", map[string]string{"sessionId": "abc"})

	want := "event: working\ndata: {\"sessionId\":\"abc\"}\n\n"
	if rr.Body.String() != want {
		t.Fatalf("unexpected sse frame: %q", rr.Body.String())
	}
	if !rr.Flushed {
		t.Fatal("expected response to be flushed")
	}
}
