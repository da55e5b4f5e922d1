package repositories

import (
	"context"
	"testing"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert duplicate email is a conflict", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: shop.users index: email_1",
		}))

		err := repo.Insert(ctx, &models.User{Name: "A", Email: "A@Example.com "})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	mt.Run("insert normalises email and stamps id", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Name: "A", Email: " A@Example.com"}
		require.NoError(t, repo.Insert(ctx, user))
		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "a@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "shop.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ana"},
			{Key: "email", Value: "ana@example.com"},
			{Key: "role", Value: "user"},
		}))

		user, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.users", mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("delete of missing user is not found", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 0}})

		err := repo.Delete(ctx, primitive.NewObjectID())
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := &UserRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestCategoryRepositoryUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("returns updated document", func(mt *mtest.T) {
		repo := &CategoryRepository{collection: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: id}, {Key: "name", Value: "Books"}}},
		})

		name := "Books"
		c, err := repo.Update(ctx, id, models.UpdateCategoryRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Books", c.Name)
	})

	mt.Run("missing category", func(mt *mtest.T) {
		repo := &CategoryRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Update(ctx, primitive.NewObjectID(), models.UpdateCategoryRequest{})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCartRepositorySave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		repo := &CartRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		cart := &models.Cart{ID: primitive.NewObjectID(), Version: 4}
		err := repo.Save(ctx, cart)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, int64(4), cart.Version)
	})

	mt.Run("bumps version", func(mt *mtest.T) {
		repo := &CartRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		cart := &models.Cart{ID: primitive.NewObjectID(), Version: 4}
		require.NoError(t, repo.Save(ctx, cart))
		assert.Equal(t, int64(5), cart.Version)
		assert.NotNil(t, cart.Items)
	})
}

func TestCartRepositoryFindOrCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserted cart has empty items", func(mt *mtest.T) {
		repo := &CartRepository{collection: mt.Coll}
		userID := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "user", Value: userID},
				{Key: "totalAmount", Value: 0.0},
				{Key: "version", Value: int64(0)},
			}},
		})

		cart, err := repo.FindOrCreate(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, cart.UserID)
		assert.NotNil(t, cart.Items)
		assert.Empty(t, cart.Items)
	})
}

func TestExpenseRepositoryDeleteScopedToOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("other user's expense is not found", func(mt *mtest.T) {
		repo := &ExpenseRepository{collection: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := repo.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.True(t, apperrors.IsNotFound(err))
	})
}
