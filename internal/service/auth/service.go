package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/watchroom/server/internal/domain"
)

type iUserRepo interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserById(ctx context.Context, userId string) (domain.User, error)
}

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type service struct {
	userRepo iUserRepo
	secret   string
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(userRepo iUserRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		userRepo: userRepo,
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
		logger:   logger,
	}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s service) Register(ctx context.Context, params *RegisterParams) (User, error) {
	salt, err := generateSalt()
	if err != nil {
		return User{}, err
	}

	user := domain.User{
		Id:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hashPassword(params.Password, salt),
		PasswordSalt: salt,
		Status:       domain.UserActive,
	}

	if err := s.userRepo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return User{}, domain.ErrEmailTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return User{Id: user.Id, Name: user.Name, Email: user.Email}, nil
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResponse struct {
	AccessToken string
	User        User
}

func (s service) Login(ctx context.Context, params *LoginParams) (LoginResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResponse{}, domain.ErrInvalidCredentials
		}
		return LoginResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !verifyPassword(params.Password, user.PasswordSalt, user.PasswordHash) {
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateJWT(user.Id)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginResponse{
		AccessToken: token,
		User:        User{Id: user.Id, Name: user.Name, Email: user.Email},
	}, nil
}

// UserFromToken resolves an access token to the authenticated user. Used by
// the controller's auth middleware.
func (s service) UserFromToken(ctx context.Context, token string) (User, error) {
	userId, err := s.parseJWT(token)
	if err != nil {
		return User{}, err
	}

	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return User{}, domain.ErrInvalidToken
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return User{Id: user.Id, Name: user.Name, Email: user.Email}, nil
}
