package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
	sessionservice "github.com/zhouzirui/reply-studio/backend/internal/service/session"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
)

func setup(t *testing.T, completer reply.Completer) (*chi.Mux, *studio.Service, string) {
	t.Helper()
	gen := reply.NewGenerator(completer, reply.Config{Model: "test-model", Temperature: 0.3}, nil)
	svc := studio.NewService(sessionservice.NewService(), gen, time.Second)

	r := chi.NewRouter()
	New(svc, nil).RegisterRoutes(r)

	session, err := svc.Sessions().CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	return r, svc, session.ID
}

func streamURL(sessionID string, params url.Values) string {
	return "/stream/" + sessionID + "?" + params.Encode()
}

func TestStreamSendsWorkingThenMessage(t *testing.T) {
	r, svc, sessionID := setup(t, reply.CompleterFunc(func(context.Context, reply.Request) (string, error) {
		return "Doing well, you?", nil
	}))

	params := url.Values{"message": {"Hi"}, "emotion": {"Happy"}, "tone": {"Informal"}}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, streamURL(sessionID, params), nil))

	body := resp.Body.String()
	working := strings.Index(body, "event: working")
	message := strings.Index(body, "event: message")
	end := strings.Index(body, "event: end")
	if working < 0 || message < working || end < message {
		t.Fatalf("unexpected event order:\n%s", body)
	}
	if !strings.Contains(body, `"content":"Doing well, you?"`) {
		t.Fatalf("reply missing from stream:\n%s", body)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %s", ct)
	}

	store, _ := svc.Sessions().Transcript(context.Background(), sessionID)
	if store.Len() != 1 {
		t.Fatalf("expected 1 exchange, got %d", store.Len())
	}
}

func TestStreamReportsFailure(t *testing.T) {
	r, svc, sessionID := setup(t, reply.CompleterFunc(func(context.Context, reply.Request) (string, error) {
		return "", errors.New("rate limited")
	}))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, streamURL(sessionID, url.Values{"message": {"Hi"}}), nil))

	body := resp.Body.String()
	if !strings.Contains(body, "event: error") || !strings.Contains(body, `"status":502`) {
		t.Fatalf("expected error event:\n%s", body)
	}
	if strings.Contains(body, "event: message") {
		t.Fatalf("no message expected on failure:\n%s", body)
	}

	store, _ := svc.Sessions().Transcript(context.Background(), sessionID)
	if store.Len() != 0 {
		t.Fatalf("expected empty transcript, got %d", store.Len())
	}
}

func TestStreamUnknownSession(t *testing.T) {
	r, _, _ := setup(t, reply.CompleterFunc(func(context.Context, reply.Request) (string, error) {
		return "unused", nil
	}))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, streamURL("missing", url.Values{"message": {"Hi"}}), nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
