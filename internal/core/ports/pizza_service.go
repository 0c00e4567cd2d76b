package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// IngredientInput is a single ingredient as supplied by the caller.
type IngredientInput struct {
	Name     string
	Quantity float64
	Unit     string
}

// CreatePizzaInput carries everything needed to create a pizza. The owner is
// always derived from CallerEmail; there is no way to supply it directly.
type CreatePizzaInput struct {
	CallerEmail string
	Name        string
	Ingredients []IngredientInput
}

// ListPizzasInput carries the parameters for the list endpoint.
type ListPizzasInput struct {
	CallerEmail string
	Page        int
}

// HidePizzaInput identifies the pizza to soft-delete and who is asking.
type HidePizzaInput struct {
	CallerEmail string
	PizzaID     string
}

// HidePizzaResult is returned by HidePizza. AlreadyHidden is true when the
// pizza was invisible before the call and nothing was written.
type HidePizzaResult struct {
	Pizza         *domain.Pizza
	AlreadyHidden bool
}

// PizzaService defines the use-case operations for pizzas.
type PizzaService interface {
	CreatePizza(ctx context.Context, input CreatePizzaInput) (*domain.Pizza, error)
	ListPizzas(ctx context.Context, input ListPizzasInput) ([]*domain.Pizza, error)
	HidePizza(ctx context.Context, input HidePizzaInput) (*HidePizzaResult, error)
}
