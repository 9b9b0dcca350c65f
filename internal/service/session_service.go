package service

import (
	"context"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"file-service/internal/ports"
	"file-service/internal/security"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// срок записи, если не удалось прочитать exp из только что выпущенного refresh токена
const fallbackRefreshHorizon = 30 * 24 * time.Hour

// SessionService : выпуск токенов, проверка access токена, обновление и отзыв сессии.
// Access токен проверяется без обращения к БД, а живость сессии подтверждается
// последней записью хранилища для пары (пользователь, устройство).
type SessionService struct {
	store         ports.SessionStore
	codec         *security.JWTService
	metrics       ports.SessionMetrics
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type SessionOption func(*SessionService)

// WithClock : источник текущего времени, используется и для проверки срока токенов
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.now = now
	}
}

func WithMetrics(metrics ports.SessionMetrics) SessionOption {
	return func(s *SessionService) {
		s.metrics = metrics
	}
}

func NewSessionService(store ports.SessionStore, cfg *config.JWTConfig, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:         store,
		metrics:       noopMetrics{},
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = security.NewJWTService(s.now)

	return s
}

// Issue : новый идентификатор устройства, пара токенов и запись о refresh токене
func (s *SessionService) Issue(ctx context.Context, user *model.User) (*model.TokensPair, error) {
	deviceID := uuid.New().String()

	accessToken, err := s.codec.Encode(user.ID, user.Login, deviceID, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("[SessionService] ошибка генерации access токена: %w", err)
	}

	refreshToken, err := s.codec.Encode(user.ID, user.Login, deviceID, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("[SessionService] ошибка генерации refresh токена: %w", err)
	}

	now := s.now()
	expiresAt, ok := s.codec.ExpiresAt(refreshToken)
	if !ok {
		expiresAt = now.Add(fallbackRefreshHorizon)
	}

	session := &model.Session{
		UserID:    user.ID,
		Token:     refreshToken,
		DeviceID:  deviceID,
		IsActive:  true,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, storeError("[SessionService] не удалось сохранить refresh токен", err)
	}

	s.metrics.SessionIssued()
	log.Printf("[SessionService] выдана сессия пользователю %d, устройство %s", user.ID, deviceID)

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		DeviceID:     deviceID,
	}, nil
}

// Authenticate : подпись и срок access токена, затем последняя запись пары должна быть активна и не просрочена
func (s *SessionService) Authenticate(ctx context.Context, rawAccessToken string) (*model.AuthContext, error) {
	authContext, err := s.authenticate(ctx, rawAccessToken)
	s.metrics.ObserveGuard(security.Kind(err))
	return authContext, err
}

func (s *SessionService) authenticate(ctx context.Context, rawAccessToken string) (*model.AuthContext, error) {
	if rawAccessToken == "" {
		return nil, security.ErrMissingCredential
	}

	claims, err := s.codec.Decode(rawAccessToken, s.accessSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.store.FindLatest(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, security.ErrSessionNotFound
		}
		return nil, storeError("[SessionService] не удалось получить сессию", err)
	}

	if err := s.checkLive(session); err != nil {
		return nil, err
	}

	return &model.AuthContext{
		UserID:   claims.UserID,
		Login:    claims.Login,
		DeviceID: claims.DeviceID,
	}, nil
}

// Refresh : новый access токен по действующему refresh токену, сам refresh токен не меняется
func (s *SessionService) Refresh(ctx context.Context, rawRefreshToken string) (string, error) {
	accessToken, err := s.refresh(ctx, rawRefreshToken)
	s.metrics.ObserveRefresh(security.Kind(err))
	return accessToken, err
}

func (s *SessionService) refresh(ctx context.Context, rawRefreshToken string) (string, error) {
	if rawRefreshToken == "" {
		return "", security.ErrMissingCredential
	}

	claims, err := s.codec.Decode(rawRefreshToken, s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", security.ErrInvalidRefreshCredential, err)
	}

	session, err := s.store.FindByToken(ctx, rawRefreshToken)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", security.ErrTokenNotFound
		}
		return "", storeError("[SessionService] не удалось найти refresh токен", err)
	}

	if err := s.checkLive(session); err != nil {
		return "", err
	}

	accessToken, err := s.codec.Encode(claims.UserID, claims.Login, claims.DeviceID, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("[SessionService] ошибка генерации access токена: %w", err)
	}
	return accessToken, nil
}

// Revoke : деактивирует все записи пары из уже проверенного контекста; повторный вызов безопасен
func (s *SessionService) Revoke(ctx context.Context, authContext *model.AuthContext) error {
	if authContext == nil {
		return security.ErrMissingCredential
	}

	if err := s.store.DeactivateAll(ctx, authContext.UserID, authContext.DeviceID); err != nil {
		return storeError("[SessionService] не удалось деактивировать сессию", err)
	}

	s.metrics.SessionRevoked()
	log.Printf("[SessionService] сессия пользователя %d на устройстве %s завершена", authContext.UserID, authContext.DeviceID)
	return nil
}

func (s *SessionService) checkLive(session *model.Session) error {
	if !session.IsActive {
		return security.ErrSessionRevoked
	}
	if s.now().After(session.ExpiresAt) {
		return security.ErrSessionExpired
	}
	return nil
}

func storeError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w: %w", message, security.ErrStoreUnavailable, err)
}

type noopMetrics struct{}

func (noopMetrics) ObserveGuard(string)   {}
func (noopMetrics) ObserveRefresh(string) {}
func (noopMetrics) SessionIssued()        {}
func (noopMetrics) SessionRevoked()       {}
