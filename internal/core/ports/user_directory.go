package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// UserDirectory resolves an authenticated e-mail to the internal user record.
type UserDirectory interface {
	Lookup(ctx context.Context, email string) (*domain.User, error)
}
