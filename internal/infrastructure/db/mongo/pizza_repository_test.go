package mongo

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

const pizzasNS = "test.pizzas"

func pizzaBSON(id, owner primitive.ObjectID, name string, show bool, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "ingredients", Value: bson.A{
			bson.D{{Key: "name", Value: "mozzarella"}, {Key: "quantity", Value: 125.0}, {Key: "unit", Value: "g"}},
		}},
		{Key: "show", Value: show},
		{Key: "createdBy", Value: owner},
		{Key: "createdAt", Value: createdAt},
	}
}

func TestPizzaRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	owner := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("inserts and returns stored pizza", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewPizzaRepository(Fixed(mt.DB))

		got, err := repo.Create(context.Background(), &domain.Pizza{
			Name:        "Margherita",
			Ingredients: []domain.Ingredient{{Name: "basil", Quantity: 3, Unit: domain.UnitPiece}},
			Show:        true,
			CreatedBy:   owner.Hex(),
			CreatedAt:   created,
		})
		require.NoError(mt, err)
		assert.NotEmpty(mt, got.ID)
		assert.Equal(mt, "Margherita", got.Name)
		assert.Equal(mt, owner.Hex(), got.CreatedBy)
		assert.True(mt, got.Show)
		assert.Equal(mt, created, got.CreatedAt)
		require.Len(mt, got.Ingredients, 1)
		assert.Equal(mt, domain.UnitPiece, got.Ingredients[0].Unit)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
	})

	mt.Run("duplicate key maps to ErrPizzaExists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		repo := NewPizzaRepository(Fixed(mt.DB))

		_, err := repo.Create(context.Background(), &domain.Pizza{
			Name: "Margherita", Show: true, CreatedBy: owner.Hex(), CreatedAt: created,
		})
		assert.ErrorIs(mt, err, domain.ErrPizzaExists)
	})

	mt.Run("rejects malformed owner id", func(mt *mtest.T) {
		repo := NewPizzaRepository(Fixed(mt.DB))
		_, err := repo.Create(context.Background(), &domain.Pizza{Name: "x", CreatedBy: "nope"})
		assert.Error(mt, err)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestPizzaRepository_ExistsByNameAndOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	owner := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}}))
		repo := NewPizzaRepository(Fixed(mt.DB))

		ok, err := repo.ExistsByNameAndOwner(context.Background(), "Margherita", owner.Hex())
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch))
		repo := NewPizzaRepository(Fixed(mt.DB))

		ok, err := repo.ExistsByNameAndOwner(context.Background(), "Margherita", owner.Hex())
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestPizzaRepository_ListByOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	owner := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("decodes page and applies skip and limit", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch,
			pizzaBSON(first, owner, "Margherita", true, created),
			pizzaBSON(second, owner, "Diavola", true, created),
		))
		repo := NewPizzaRepository(Fixed(mt.DB))

		got, err := repo.ListByOwner(context.Background(), ports.ListPizzasFilter{
			OwnerID: owner.Hex(), Page: 3, Limit: 20,
		})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, first.Hex(), got[0].ID)
		assert.Equal(mt, "Diavola", got[1].Name)
		assert.Equal(mt, 125.0, got[0].Ingredients[0].Quantity)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.EqualValues(mt, 40, evt.Command.Lookup("skip").AsInt64())
		assert.EqualValues(mt, 20, evt.Command.Lookup("limit").AsInt64())

		filter := evt.Command.Lookup("filter").Document()
		assert.True(mt, filter.Lookup("show").Boolean())
		assert.Equal(mt, owner, filter.Lookup("createdBy").ObjectID())
	})

	mt.Run("empty page yields empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch))
		repo := NewPizzaRepository(Fixed(mt.DB))

		got, err := repo.ListByOwner(context.Background(), ports.ListPizzasFilter{OwnerID: owner.Hex(), Page: 9})
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("page beyond any skip is empty without a query", func(mt *mtest.T) {
		repo := NewPizzaRepository(Fixed(mt.DB))

		for _, page := range []int{461168601842738792, math.MaxInt/20 + 2, math.MaxInt} {
			got, err := repo.ListByOwner(context.Background(), ports.ListPizzasFilter{
				OwnerID: owner.Hex(), Page: page, Limit: 20,
			})
			require.NoError(mt, err)
			assert.NotNil(mt, got)
			assert.Empty(mt, got)
		}
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("largest page that fits is still queried", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch))
		repo := NewPizzaRepository(Fixed(mt.DB))

		page := math.MaxInt/20 + 1
		_, err := repo.ListByOwner(context.Background(), ports.ListPizzasFilter{
			OwnerID: owner.Hex(), Page: page, Limit: 20,
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.EqualValues(mt, int64(page-1)*20, evt.Command.Lookup("skip").AsInt64())
	})
}

func TestPizzaRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	owner := primitive.NewObjectID()

	mt.Run("hidden pizzas are still returned", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch,
			pizzaBSON(id, owner, "Margherita", false, time.Now().UTC())))
		repo := NewPizzaRepository(Fixed(mt.DB))

		got, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.False(mt, got.Show)
	})

	mt.Run("missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch))
		repo := NewPizzaRepository(Fixed(mt.DB))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrPizzaNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		repo := NewPizzaRepository(Fixed(mt.DB))

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, domain.ErrPizzaNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("falls back to ObjectID timestamp", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pizzasNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Legacy"},
			{Key: "show", Value: true},
			{Key: "createdBy", Value: owner},
		}))
		repo := NewPizzaRepository(Fixed(mt.DB))

		got, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Timestamp().UTC(), got.CreatedAt)
		assert.Empty(mt, got.Ingredients)
	})
}

func TestPizzaRepository_SetVisibility(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updates matched document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := NewPizzaRepository(Fixed(mt.DB))

		err := repo.SetVisibility(context.Background(), primitive.NewObjectID().Hex(), false)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
	})

	mt.Run("no match is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := NewPizzaRepository(Fixed(mt.DB))

		err := repo.SetVisibility(context.Background(), primitive.NewObjectID().Hex(), false)
		assert.ErrorIs(mt, err, domain.ErrPizzaNotFound)
	})
}

func TestPizzaRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates both indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewPizzaRepository(Fixed(mt.DB))

		require.NoError(mt, repo.EnsureIndexes(context.Background()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		indexes, err := evt.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, indexes, 2)
	})
}
