package handler

import (
	"fmt"
	"strconv"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createPizzaRequest, email string) (ports.CreatePizzaInput, error) {
	ingredients := make([]ports.IngredientInput, 0, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		qty, err := strconv.ParseFloat(ing.Quantity.String(), 64)
		if err != nil {
			return ports.CreatePizzaInput{}, fmt.Errorf("%w: ingredients[%d]: quantity must be numeric", domain.ErrValidation, i)
		}
		ingredients = append(ingredients, ports.IngredientInput{
			Name:     ing.Name,
			Quantity: qty,
			Unit:     ing.Unit,
		})
	}

	return ports.CreatePizzaInput{
		CallerEmail: email,
		Name:        req.Name,
		Ingredients: ingredients,
	}, nil
}

// --- Domain → Response ---

func toPizzaResponse(p *domain.Pizza) pizzaResponse {
	ingredients := make([]ingredientResponse, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		ingredients = append(ingredients, ingredientResponse{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
		})
	}

	return pizzaResponse{
		ID:          p.ID,
		Name:        p.Name,
		Ingredients: ingredients,
		Show:        p.Show,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toPizzaResponses(ps []*domain.Pizza) []pizzaResponse {
	out := make([]pizzaResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPizzaResponse(p))
	}
	return out
}
