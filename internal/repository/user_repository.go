package repository

import (
	"context"
	"database/sql"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"file-service/internal/util"
	"fmt"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя, дубликат login -> model.ErrAlreadyExists
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `INSERT INTO users (login, password_hash, created_at) VALUES (?, ?, ?)`

	id, err := insertReturningID(ctx, r.DB, query, user.Login, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("[UserRepo] пользователь %s уже существует: %w", user.Login, model.ErrAlreadyExists)
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

// FindByLogin : ищет пользователя по внешнему идентификатору
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	query := r.Rebind(`SELECT id, login, password_hash, created_at FROM users WHERE login = ?`)

	var user model.User
	if err := r.GetContext(ctx, &user, query, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по login", err)
	}
	return &user, nil
}

// Exists : проверяет, занят ли login
func (r *UserRepository) Exists(ctx context.Context, login string) (bool, error) {
	var exists bool
	query := r.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE login = ?)`)
	if err := r.GetContext(ctx, &exists, query, login); err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования пользователя", err)
	}
	return exists, nil
}
