package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(UsersCollection),
	}
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Email %s is already registered", user.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, notFoundOr(err, "User", id.Hex())
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperrors.NotFound("User with email %s not found", email)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.User](ctx, r.collection, bson.M{})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.User](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperrors.Conflict("Email %s is already registered", set["email"])
		}
		return models.User{}, notFoundOr(err, "User", id.Hex())
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return deleteByFilter(ctx, r.collection, bson.M{"_id": id}, "User", id.Hex())
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
