package services

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateJWT(userID, email string, role models.Role) (string, time.Time, error)
}

type AuthService struct {
	users  *UserService
	tokens TokenIssuer
	log    logrus.FieldLogger
}

func NewAuthService(users *UserService, tokens TokenIssuer, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates a regular user and signs them in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	user, err := s.users.Create(ctx, models.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleUser,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.log.WithField("email", req.Email).Info("Failed login attempt")
		return models.AuthResponse{}, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user models.User) (models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{Token: token, ExpiresAt: expiresAt.Unix(), User: user}, nil
}
