package services

import (
	"context"
	"strings"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users    UserStore
	log      logrus.FieldLogger
	hashCost int
}

func NewUserService(users UserStore, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, log: log, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return models.User{}, apperrors.Conflict("Email %s is already registered", strings.ToLower(strings.TrimSpace(req.Email)))
	} else if !apperrors.IsNotFound(err) {
		return models.User{}, err
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return models.User{}, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Name:     utils.SanitizeInput(req.Name),
		Email:    req.Email,
		Password: hashed,
		Role:     role,
		IsActive: true,
		Address:  utils.SanitizeInput(req.Address),
		Phone:    utils.SanitizeInput(req.Phone),
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("User created")
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) FindOne(ctx context.Context, id string) (models.User, error) {
	oid, err := ParseID("User", id)
	if err != nil {
		return models.User{}, err
	}
	return s.users.FindByID(ctx, oid)
}

func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error) {
	oid, err := ParseID("User", id)
	if err != nil {
		return models.User{}, err
	}

	patch := models.UserPatch{
		Name:    utils.SanitizeOptional(req.Name),
		Email:   req.Email,
		Address: utils.SanitizeOptional(req.Address),
		Phone:   utils.SanitizeOptional(req.Phone),
	}
	if req.Password != nil {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return models.User{}, err
		}
		patch.Password = &hashed
	}
	return s.users.Update(ctx, oid, patch)
}

func (s *UserService) UpdateStatus(ctx context.Context, id string, isActive bool) (models.User, error) {
	oid, err := ParseID("User", id)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.Update(ctx, oid, models.UserPatch{IsActive: &isActive})
	if err != nil {
		return models.User{}, err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "is_active": isActive}).Info("User status changed")
	return user, nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	oid, err := ParseID("User", id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, oid); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("User deleted")
	return nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// IsActive reports whether the user still exists and is active.
func (s *UserService) IsActive(ctx context.Context, id string) bool {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.log.WithError(err).WithField("user_id", id).Warn("Active check failed")
		}
		return false
	}
	return user.IsActive
}

// Authenticate checks credentials. Unknown email and wrong password give
// the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if apperrors.IsNotFound(err) {
		return models.User{}, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, apperrors.Unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return models.User{}, apperrors.Unauthorized("User account is inactive")
	}
	return user, nil
}

// EnsureAdmin creates the admin account on first start. An existing account
// with the same email is left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			s.log.WithField("email", existing.Email).Warn("Seed admin email belongs to a non-admin account")
		}
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return models.User{}, err
	}

	user, err := s.Create(ctx, models.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if apperrors.IsConflict(err) {
		// another instance seeded it first
		return s.users.FindByEmail(ctx, email)
	}
	return user, err
}
