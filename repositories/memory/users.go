// Package memory holds process-local stores used by tests and by the
// memory store driver. They honour the same uniqueness and not-found rules
// as the Mongo repositories.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	order []primitive.ObjectID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if r.emailTaken(user.Email, primitive.NilObjectID) {
		return apperrors.Conflict("Email %s is already registered", user.Email)
	}
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("User with ID %s not found", id.Hex())
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperrors.NotFound("User with email %s not found", email)
}

func (r *UserRepository) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, id := range r.order {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("User with ID %s not found", id.Hex())
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if r.emailTaken(email, id) {
			return models.User{}, apperrors.Conflict("Email %s is already registered", email)
		}
		user.Email = email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		user.Password = *patch.Password
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return user, nil
}

func (r *UserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("User with ID %s not found", id.Hex())
	}
	delete(r.users, id)
	r.order = without(r.order, id)
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
