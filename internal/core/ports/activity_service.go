package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// ActivityService records pizza lifecycle events.
type ActivityService interface {
	Record(ctx context.Context, event domain.ActivityEvent) error
}

// ActivityPublisher hands events off for asynchronous recording.
type ActivityPublisher interface {
	Publish(event domain.ActivityEvent)
}
