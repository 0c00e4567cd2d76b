package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

// UserDirectory resolves session e-mails to users through the repository.
type UserDirectory struct {
	repo ports.UserRepository
}

func NewUserDirectory(repo ports.UserRepository) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// Lookup returns the user registered under email. An empty e-mail means the
// caller has no session and is rejected without touching the store.
func (d *UserDirectory) Lookup(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := d.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
