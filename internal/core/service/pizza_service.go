package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

type PizzaService struct {
	users    ports.UserDirectory
	repo     ports.PizzaRepository
	activity ports.ActivityPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPizzaService wires the pizza use cases. activity may be nil, in which
// case no activity events are emitted.
func NewPizzaService(
	users ports.UserDirectory,
	repo ports.PizzaRepository,
	activity ports.ActivityPublisher,
	logger zerolog.Logger,
) *PizzaService {
	return &PizzaService{
		users:    users,
		repo:     repo,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// CreatePizza validates the input and stores a new visible pizza owned by the
// caller. A second pizza with the same name for the same owner is rejected
// with domain.ErrPizzaExists, whether or not the first one is hidden.
func (s *PizzaService) CreatePizza(ctx context.Context, in ports.CreatePizzaInput) (*domain.Pizza, error) {
	owner, err := s.users.Lookup(ctx, in.CallerEmail)
	if err != nil {
		return nil, err
	}

	pizza := &domain.Pizza{
		Name:        in.Name,
		Ingredients: toIngredients(in.Ingredients),
		Show:        true,
		CreatedBy:   owner.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := pizza.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByNameAndOwner(ctx, pizza.Name, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("create pizza: %w", err)
	}
	if exists {
		return nil, domain.ErrPizzaExists
	}

	// The unique (createdBy, name) index catches the race the check above
	// leaves open; the repository reports it as ErrPizzaExists too.
	created, err := s.repo.Create(ctx, pizza)
	if err != nil {
		if errors.Is(err, domain.ErrPizzaExists) {
			return nil, domain.ErrPizzaExists
		}
		s.logger.Error().Err(err).Str("owner_id", owner.ID).Msg("failed to create pizza")
		return nil, fmt.Errorf("create pizza: %w", err)
	}

	s.logger.Info().Str("pizza_id", created.ID).Str("owner_id", owner.ID).Msg("pizza created")
	s.publish(created, domain.ActionCreated)

	return created, nil
}

// ListPizzas returns the requested page of the caller's visible pizzas. Pages
// below 1 are treated as the first page. The result is never nil.
func (s *PizzaService) ListPizzas(ctx context.Context, in ports.ListPizzasInput) ([]*domain.Pizza, error) {
	owner, err := s.users.Lookup(ctx, in.CallerEmail)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	pizzas, err := s.repo.ListByOwner(ctx, ports.ListPizzasFilter{
		OwnerID: owner.ID,
		Page:    page,
		Limit:   domain.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}
	if pizzas == nil {
		pizzas = []*domain.Pizza{}
	}
	return pizzas, nil
}

// HidePizza soft-deletes a pizza owned by the caller. Pizzas owned by someone
// else are reported as not found. Hiding an already hidden pizza is a no-op.
func (s *PizzaService) HidePizza(ctx context.Context, in ports.HidePizzaInput) (*ports.HidePizzaResult, error) {
	owner, err := s.users.Lookup(ctx, in.CallerEmail)
	if err != nil {
		return nil, err
	}

	pizza, err := s.repo.FindByID(ctx, in.PizzaID)
	if err != nil {
		if errors.Is(err, domain.ErrPizzaNotFound) {
			return nil, domain.ErrPizzaNotFound
		}
		return nil, fmt.Errorf("hide pizza: %w", err)
	}
	if pizza.CreatedBy != owner.ID {
		s.logger.Warn().Str("pizza_id", in.PizzaID).Str("caller_id", owner.ID).Msg("hide attempted by non-owner")
		return nil, domain.ErrPizzaNotFound
	}

	if !pizza.Hide() {
		return &ports.HidePizzaResult{Pizza: pizza, AlreadyHidden: true}, nil
	}

	if err := s.repo.SetVisibility(ctx, pizza.ID, pizza.Show); err != nil {
		if errors.Is(err, domain.ErrPizzaNotFound) {
			return nil, domain.ErrPizzaNotFound
		}
		return nil, fmt.Errorf("hide pizza: %w", err)
	}

	s.logger.Info().Str("pizza_id", pizza.ID).Str("owner_id", owner.ID).Msg("pizza hidden")
	s.publish(pizza, domain.ActionHidden)

	return &ports.HidePizzaResult{Pizza: pizza}, nil
}

func (s *PizzaService) publish(p *domain.Pizza, action domain.ActivityAction) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(domain.ActivityEvent{
		PizzaID:    p.ID,
		OwnerID:    p.CreatedBy,
		Name:       p.Name,
		Action:     action,
		OccurredAt: s.now().UTC(),
	})
}

func toIngredients(in []ports.IngredientInput) []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(in))
	for _, i := range in {
		out = append(out, domain.Ingredient{
			Name:     i.Name,
			Quantity: i.Quantity,
			Unit:     domain.QuantityType(i.Unit),
		})
	}
	return out
}
