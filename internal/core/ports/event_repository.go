package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// EventRepository persists the pizza activity log.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ActivityEvent) error
}
