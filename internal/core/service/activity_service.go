package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pizzabook/pizza-api/internal/api/metrics"
	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

var errIncompleteEvent = errors.New("activity event missing pizza or action")

type activityService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that writes to repo.
func NewActivityService(repo ports.EventRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists a single activity event.
func (s *activityService) Record(ctx context.Context, ev domain.ActivityEvent) error {
	if ev.PizzaID == "" || ev.Action == "" {
		return fmt.Errorf("record activity: %w", errIncompleteEvent)
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	metrics.ActivityEventsTotal.WithLabelValues(string(ev.Action)).Inc()

	s.log.Debug().
		Str("pizza_id", ev.PizzaID).
		Str("owner_id", ev.OwnerID).
		Str("action", string(ev.Action)).
		Msg("activity recorded")

	return nil
}
