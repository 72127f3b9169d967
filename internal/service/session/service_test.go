package session_test

import (
	"context"
	"errors"
	"testing"

	session "github.com/zhouzirui/reply-studio/backend/internal/service/session"
)

func TestServiceGetSession(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != created.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, created.ID)
	}
	if got.Transcript == nil || got.Transcript.Len() != 0 {
		t.Fatal("expected an empty transcript")
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := session.NewService()

	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionsOwnSeparateTranscripts(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx)
	b, _ := svc.CreateSession(ctx)

	a.Transcript.Append("Hi", "Hello")

	storeB, err := svc.Transcript(ctx, b.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if storeB.Len() != 0 {
		t.Fatalf("session b should not see session a's exchanges, got %d", storeB.Len())
	}
}

func TestBeginRejectsSecondGeneration(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()
	s, _ := svc.CreateSession(ctx)

	release, err := svc.Begin(ctx, s.ID)
	if err != nil {
		t.Fatalf("Begin err: %v", err)
	}

	if _, err := svc.Begin(ctx, s.ID); !errors.Is(err, session.ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	release()
	release()

	again, err := svc.Begin(ctx, s.ID)
	if err != nil {
		t.Fatalf("Begin after release err: %v", err)
	}
	again()
}

func TestBeginIsPerSession(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx)
	b, _ := svc.CreateSession(ctx)

	releaseA, err := svc.Begin(ctx, a.ID)
	if err != nil {
		t.Fatalf("Begin a err: %v", err)
	}
	defer releaseA()

	releaseB, err := svc.Begin(ctx, b.ID)
	if err != nil {
		t.Fatalf("Begin b should not be blocked by a: %v", err)
	}
	releaseB()
}

func TestDeleteSession(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()
	s, _ := svc.CreateSession(ctx)

	if err := svc.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSession err: %v", err)
	}
	if _, err := svc.GetSession(ctx, s.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
	if err := svc.DeleteSession(ctx, s.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
	if _, err := svc.Begin(ctx, s.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from Begin, got %v", err)
	}
}
