package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.ActivityEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.ActivityEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestActivityService_Record_Success(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewActivityService(repo, zerolog.Nop())
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	err := svc.Record(context.Background(), domain.ActivityEvent{
		PizzaID:    "p1",
		OwnerID:    "u1",
		Name:       "Diavola",
		Action:     domain.ActionCreated,
		OccurredAt: ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.PizzaID != "p1" || got.Action != domain.ActionCreated || !got.OccurredAt.Equal(ts) {
		t.Errorf("unexpected event stored: %+v", got)
	}
}

func TestActivityService_Record_Incomplete(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewActivityService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), domain.ActivityEvent{OwnerID: "u1", Action: domain.ActionHidden})
	if !errors.Is(err, errIncompleteEvent) {
		t.Fatalf("expected errIncompleteEvent, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("incomplete events must not be stored")
	}
}

func TestActivityService_Record_RepoError(t *testing.T) {
	repo := &stubEventRepo{insertErr: errors.New("not primary")}
	svc := NewActivityService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), domain.ActivityEvent{PizzaID: "p1", Action: domain.ActionHidden})
	if !errors.Is(err, repo.insertErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
