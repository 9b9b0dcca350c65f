package ports

import (
	"context"
	"file-service/internal/model"
)

// SessionStore : хранилище записей о refresh токенах.
// Отсутствие записи сообщается через model.ErrNotFound, любая другая ошибка считается сбоем хранилища.
type SessionStore interface {
	// Create добавляет новую запись, заполняя ID и CreatedAt
	Create(ctx context.Context, session *model.Session) error
	// FindByToken ищет запись по значению refresh токена
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// FindLatest возвращает последнюю созданную запись для пары (пользователь, устройство)
	FindLatest(ctx context.Context, userID int64, deviceID string) (*model.Session, error)
	// DeactivateAll снимает флаг активности со всех записей пары, идемпотентно
	DeactivateAll(ctx context.Context, userID int64, deviceID string) error
}

type SessionService interface {
	Issue(ctx context.Context, user *model.User) (*model.TokensPair, error)
	Authenticate(ctx context.Context, rawAccessToken string) (*model.AuthContext, error)
	Refresh(ctx context.Context, rawRefreshToken string) (string, error)
	Revoke(ctx context.Context, authContext *model.AuthContext) error
}

// SessionMetrics : счётчики решений guard, refresh и выпуска/отзыва сессий
type SessionMetrics interface {
	ObserveGuard(result string)
	ObserveRefresh(result string)
	SessionIssued()
	SessionRevoked()
}
