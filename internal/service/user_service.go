package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/pkg/jwt"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// Credentials 注册与登录共用
type Credentials struct {
	Username string `json:"username" validate:"required,max=150"`
	// bcrypt 只使用前 72 字节
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserService 注册、登录与用户查询
type UserService interface {
	Register(ctx context.Context, in Credentials) (*model.User, string, error)
	Login(ctx context.Context, in Credentials) (*model.User, string, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
	jwt   config.JWTConfig
	cost  int
}

func NewUserService(users repository.UserRepository, jwtCfg config.JWTConfig) UserService {
	return &userService{users: users, jwt: jwtCfg, cost: bcrypt.DefaultCost}
}

func (s *userService) Register(ctx context.Context, in Credentials) (*model.User, string, error) {
	in.Username = sanitize(in.Username)
	if err := validateInput(in); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: in.Username, Password: string(hash)}
	err = s.users.Create(ctx, u)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, "", ErrUsernameTaken
	}
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	logger.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return s.withToken(u)
}

func (s *userService) Login(ctx context.Context, in Credentials) (*model.User, string, error) {
	u, err := s.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	return s.withToken(u)
}

func (s *userService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *userService) withToken(u *model.User) (*model.User, string, error) {
	token, err := jwt.GenerateToken(u.ID, u.Username, s.jwt.Secret, s.jwt.Expire)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}
