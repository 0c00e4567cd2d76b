package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// ListPizzasFilter selects one window of an owner's visible pizzas.
type ListPizzasFilter struct {
	OwnerID string
	Page    int // 1-based
	Limit   int
}

// PizzaRepository defines persistence operations for pizzas.
type PizzaRepository interface {
	// Create inserts p and returns the stored record with its generated ID.
	Create(ctx context.Context, p *domain.Pizza) (*domain.Pizza, error)
	// ExistsByNameAndOwner ignores visibility.
	ExistsByNameAndOwner(ctx context.Context, name, ownerID string) (bool, error)
	// ListByOwner returns visible pizzas only.
	ListByOwner(ctx context.Context, filter ListPizzasFilter) ([]*domain.Pizza, error)
	FindByID(ctx context.Context, id string) (*domain.Pizza, error)
	SetVisibility(ctx context.Context, id string, show bool) error
}
