// Command seed creates a development user, optionally a sample pizza, and
// prints a session token for it, standing in for the identity provider when
// running locally.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
	"github.com/pizzabook/pizza-api/internal/core/service"
	"github.com/pizzabook/pizza-api/internal/infrastructure/config"
	mongostore "github.com/pizzabook/pizza-api/internal/infrastructure/db/mongo"
	"github.com/pizzabook/pizza-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "demo@pizzabook.local", "e-mail of the user to create")
	name := flag.String("name", "Demo User", "display name of the user")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the printed session token")
	sample := flag.Bool("sample", true, "also create a sample Margherita for the user")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		l := logger.Init(logger.Options{Service: "seed"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	store := mongostore.NewStore(mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	defer func() { _ = store.Close(context.Background()) }()

	if _, err := store.Database(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	userRepo := mongostore.NewUserRepository(store)
	pizzaRepo := mongostore.NewPizzaRepository(store)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := pizzaRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure pizza indexes")
	}

	user, err := userRepo.Upsert(ctx, &domain.User{Email: *email, Name: *name})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed user")
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s\n", user.ID, user.Email, user.Name)

	if *sample {
		pizzas := service.NewPizzaService(service.NewUserDirectory(userRepo), pizzaRepo, nil, log)
		p, err := pizzas.CreatePizza(ctx, ports.CreatePizzaInput{
			CallerEmail: user.Email,
			Name:        "Margherita",
			Ingredients: []ports.IngredientInput{
				{Name: "pizza dough", Quantity: 250, Unit: string(domain.UnitGram)},
				{Name: "tomato sauce", Quantity: 80, Unit: string(domain.UnitMilliliter)},
				{Name: "mozzarella", Quantity: 125, Unit: string(domain.UnitGram)},
				{Name: "basil", Quantity: 4, Unit: string(domain.UnitPiece)},
			},
		})
		switch {
		case errors.Is(err, domain.ErrPizzaExists):
			fmt.Println("sample pizza already present")
		case err != nil:
			log.Fatal().Err(err).Msg("failed to seed sample pizza")
		default:
			fmt.Printf("seeded pizza: id=%s name=%s\n", p.ID, p.Name)
		}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(*ttl).Unix(),
	}).SignedString([]byte(cfg.Session.Secret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign session token")
	}
	fmt.Printf("session token (Authorization: Bearer ... or cookie %q):\n%s\n", cfg.Session.Cookie, token)
}
