package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

const collectionEvents = "pizza_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db Provider
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db Provider) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists an activity event to the pizza_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := collection(ctx, r.db, collectionEvents)
	if err != nil {
		return err
	}

	doc := bson.M{
		"pizzaId":    event.PizzaID,
		"ownerId":    event.OwnerID,
		"name":       event.Name,
		"action":     string(event.Action),
		"occurredAt": event.OccurredAt.UTC(),
		"recordedAt": time.Now().UTC(),
	}

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}
