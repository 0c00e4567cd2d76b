package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/pizzabook/pizza-api/internal/core/domain"
)

func TestEventRepository_InsertEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("writes to pizza_events", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewEventRepository(Fixed(mt.DB))

		err := repo.InsertEvent(context.Background(), &domain.ActivityEvent{
			PizzaID:    "p1",
			OwnerID:    "u1",
			Name:       "Margherita",
			Action:     domain.ActionHidden,
			OccurredAt: time.Now(),
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, collectionEvents, evt.Command.Lookup("insert").StringValue())

		docs, err := evt.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Equal(mt, "hidden", docs[0].Document().Lookup("action").StringValue())
	})

	mt.Run("surfaces server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))
		repo := NewEventRepository(Fixed(mt.DB))

		err := repo.InsertEvent(context.Background(), &domain.ActivityEvent{PizzaID: "p1", Action: domain.ActionCreated})
		assert.Error(mt, err)
	})
}
