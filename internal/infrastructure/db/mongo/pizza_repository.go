package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

const collectionPizzas = "pizzas"

// PizzaRepository implements ports.PizzaRepository on the "pizzas" collection.
// Field names follow the documents written by the original web app.
type PizzaRepository struct {
	db Provider
}

func NewPizzaRepository(db Provider) *PizzaRepository {
	return &PizzaRepository{db: db}
}

var _ ports.PizzaRepository = (*PizzaRepository)(nil)

type ingredientDoc struct {
	Name     string  `bson:"name"`
	Quantity float64 `bson:"quantity"`
	Unit     string  `bson:"unit"`
}

type pizzaDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Ingredients []ingredientDoc    `bson:"ingredients"`
	Show        bool               `bson:"show"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"`
}

// Create inserts a new pizza document. A violation of the unique
// (createdBy, name) index is reported as domain.ErrPizzaExists.
func (r *PizzaRepository) Create(ctx context.Context, p *domain.Pizza) (*domain.Pizza, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return nil, err
	}

	owner, err := ownerID(p.CreatedBy)
	if err != nil {
		return nil, err
	}

	doc := pizzaDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Ingredients: toIngredientDocs(p.Ingredients),
		Show:        p.Show,
		CreatedBy:   owner,
		CreatedAt:   p.CreatedAt.UTC(),
	}

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPizzaExists
		}
		return nil, fmt.Errorf("insert pizza: %w", err)
	}
	return doc.toDomain(), nil
}

// ExistsByNameAndOwner reports whether owner already has a pizza called name,
// visible or not.
func (r *PizzaRepository) ExistsByNameAndOwner(ctx context.Context, name, owner string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return false, err
	}

	oid, err := ownerID(owner)
	if err != nil {
		return false, err
	}

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err = col.FindOne(ctx, bson.M{"name": name, "createdBy": oid}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find pizza by name: %w", err)
	}
	return true, nil
}

// ListByOwner returns one page of the owner's visible pizzas ordered by _id,
// so consecutive pages do not overlap while documents are only appended.
func (r *PizzaRepository) ListByOwner(ctx context.Context, f ports.ListPizzasFilter) ([]*domain.Pizza, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	if page-1 > math.MaxInt/limit {
		// No owner can have this many pizzas; the skip would overflow.
		return []*domain.Pizza{}, nil
	}

	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return nil, err
	}

	oid, err := ownerID(f.OwnerID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := col.Find(ctx, bson.M{"createdBy": oid, "show": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}
	defer cur.Close(ctx)

	var docs []pizzaDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pizzas: %w", err)
	}

	out := make([]*domain.Pizza, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// FindByID retrieves a pizza regardless of visibility. Malformed IDs are
// reported as not found.
func (r *PizzaRepository) FindByID(ctx context.Context, id string) (*domain.Pizza, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPizzaNotFound
	}
	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return nil, err
	}

	var doc pizzaDoc
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPizzaNotFound
		}
		return nil, fmt.Errorf("find pizza: %w", err)
	}
	return doc.toDomain(), nil
}

// SetVisibility persists the show flag of a single pizza.
func (r *PizzaRepository) SetVisibility(ctx context.Context, id string, show bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPizzaNotFound
	}
	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"show": show}})
	if err != nil {
		return fmt.Errorf("update pizza visibility: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPizzaNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the pizza queries rely on, including the
// unique (createdBy, name) constraint.
func (r *PizzaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	col, err := collection(ctx, r.db, collectionPizzas)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("createdBy_name_unique"),
		},
		{
			Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "show", Value: 1}, {Key: "_id", Value: 1}},
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	return err
}

func ownerID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid owner id %q: %w", hex, err)
	}
	return oid, nil
}

func toIngredientDocs(in []domain.Ingredient) []ingredientDoc {
	out := make([]ingredientDoc, 0, len(in))
	for _, i := range in {
		out = append(out, ingredientDoc{Name: i.Name, Quantity: i.Quantity, Unit: string(i.Unit)})
	}
	return out
}

func (d *pizzaDoc) toDomain() *domain.Pizza {
	ingredients := make([]domain.Ingredient, 0, len(d.Ingredients))
	for _, i := range d.Ingredients {
		ingredients = append(ingredients, domain.Ingredient{
			Name:     i.Name,
			Quantity: i.Quantity,
			Unit:     domain.QuantityType(i.Unit),
		})
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		// Documents written before createdAt existed still carry their
		// insertion time in the ObjectID.
		createdAt = d.ID.Timestamp()
	}

	return &domain.Pizza{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Ingredients: ingredients,
		Show:        d.Show,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   createdAt.UTC(),
	}
}
