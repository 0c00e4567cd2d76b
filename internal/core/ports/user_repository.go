package ports

import (
	"context"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// UserRepository defines persistence for the user directory.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Upsert creates the user for u.Email if missing and refreshes name/image.
	// Only the identity integration and development tooling call it.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
}
