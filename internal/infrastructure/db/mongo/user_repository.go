package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the "users" collection
// maintained by the identity provider integration.
type UserRepository struct {
	db Provider
}

func NewUserRepository(db Provider) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type userDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Email string             `bson:"email"`
	Name  string             `bson:"name,omitempty"`
	Image string             `bson:"image,omitempty"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{ID: d.ID.Hex(), Email: d.Email, Name: d.Name, Image: d.Image}
}

// FindByEmail returns the user registered under email or domain.ErrUserNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := collection(ctx, r.db, collectionUsers)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Upsert creates the user keyed by e-mail, or refreshes its profile fields
// when it already exists. Empty profile fields leave stored values intact.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	email := strings.TrimSpace(u.Email)
	if email == "" {
		return nil, errors.New("upsert user: email is required")
	}

	set := bson.M{}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.Image != "" {
		set["image"] = u.Image
	}
	update := bson.M{"$setOnInsert": bson.M{"email": email}}
	if len(set) > 0 {
		update["$set"] = set
	}

	col, err := collection(ctx, r.db, collectionUsers)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDoc
	if err := col.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes makes e-mail lookups indexed and unique.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	col, err := collection(ctx, r.db, collectionUsers)
	if err != nil {
		return err
	}

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}
