// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service реализует регистрацию и вход пользователей.
type Service struct {
	repo  UserRepository
	maker jwt.Maker
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register регистрирует нового пользователя и возвращает его UID.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	passwordHash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         "user",
	}

	uid, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("registered new user", slog.String("username", user.Username))
	return uid, nil
}

// Login проверяет пару логин/пароль и возвращает JWT токен.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		s.log.Warn("login rejected", slog.String("username", req.Username), sl.Err(err))
		return "", ErrInvalidCredentials
	}

	return s.maker.GenerateToken(user.Username, user.Role)
}
