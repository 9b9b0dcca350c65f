package service

import (
	"context"
	"errors"
	"file-service/internal/model"
	"file-service/internal/ports"
	"file-service/internal/security"
	"fmt"
	"time"
)

var (
	ErrMissingFields      = errors.New("поля id и password обязательны")
	ErrUserExists         = errors.New("пользователь уже существует")
	ErrInvalidCredentials = errors.New("неверные учетные данные")
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	sessions       ports.SessionService
}

func NewAuthenticationService(userRepository ports.UserRepository, sessions ports.SessionService) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		sessions:       sessions,
	}
}

// Signup : регистрирует пользователя и сразу открывает для него сессию на новом устройстве
func (s *AuthenticationService) Signup(ctx context.Context, login, password string) (*model.TokensPair, error) {
	if login == "" || password == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.userRepository.Exists(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка проверки пользователя: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, &model.User{
		Login:        login,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	return s.sessions.Issue(ctx, user)
}

// Signin : проверяет пароль и открывает новую сессию; каждый вход получает свой идентификатор устройства
func (s *AuthenticationService) Signin(ctx context.Context, login, password string) (*model.TokensPair, error) {
	if login == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepository.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.sessions.Issue(ctx, user)
}
