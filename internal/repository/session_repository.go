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

const sessionColumns = `id, user_id, token, device_id, is_active, expires_at, created_at`

// SessionRepository : таблица refresh_tokens, одна строка на каждый выпуск токена
type SessionRepository struct {
	*config.Database
}

func NewSessionRepository(database *config.Database) *SessionRepository {
	return &SessionRepository{database}
}

// Create : сохраняет новую запись, значение токена уникально
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO refresh_tokens (user_id, token, device_id, is_active, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := insertReturningID(ctx, r.DB, query,
		session.UserID,
		session.Token,
		session.DeviceID,
		session.IsActive,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("[SessionRepo] refresh токен уже сохранён: %w", model.ErrAlreadyExists)
		}
		return util.LogError("[SessionRepo] ошибка вставки данных в БД", err)
	}

	session.ID = id
	return nil
}

// FindByToken : ищет запись по значению refresh токена
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	query := r.Rebind(`SELECT ` + sessionColumns + ` FROM refresh_tokens WHERE token = ?`)

	var session model.Session
	if err := r.GetContext(ctx, &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[SessionRepo] ошибка поиска токена", err)
	}

	return &session, nil
}

// FindLatest : последняя по времени создания запись пары (user, device); при равном времени побеждает больший id
func (r *SessionRepository) FindLatest(ctx context.Context, userID int64, deviceID string) (*model.Session, error) {
	query := r.Rebind(`SELECT ` + sessionColumns + ` FROM refresh_tokens
		WHERE user_id = ? AND device_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)

	var session model.Session
	if err := r.GetContext(ctx, &session, query, userID, deviceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[SessionRepo] ошибка поиска последней сессии", err)
	}

	return &session, nil
}

// DeactivateAll : снимает флаг активности со всех записей пары, повторный вызов ничего не меняет
func (r *SessionRepository) DeactivateAll(ctx context.Context, userID int64, deviceID string) error {
	query := r.Rebind(`UPDATE refresh_tokens SET is_active = FALSE
		WHERE user_id = ? AND device_id = ? AND is_active = TRUE`)

	if _, err := r.ExecContext(ctx, query, userID, deviceID); err != nil {
		return util.LogError("[SessionRepo] не удалось деактивировать сессии", err)
	}

	return nil
}
