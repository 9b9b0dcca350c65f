package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "file-service"

// Claims : содержимое access и refresh токенов
type Claims struct {
	UserID   int64  `json:"id"`
	Login    string `json:"login"`
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// JWTService кодирует и декодирует подписанные токены.
// Секрет передаётся в каждый вызов: access и refresh подписываются разными ключами.
type JWTService struct {
	now func() time.Time
}

func NewJWTService(now func() time.Time) *JWTService {
	if now == nil {
		now = time.Now
	}
	return &JWTService{now: now}
}

// Encode : подписывает токен для (userID, login, deviceID), истекающий через ttl.
// jti делает значение уникальным даже для двух токенов, выпущенных в одну секунду.
func (s *JWTService) Encode(userID int64, login, deviceID string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   userID,
		Login:    login,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return token, nil
}

// Decode : проверяет подпись и срок действия.
// Возвращает ErrMalformedCredential, ErrInvalidCredential или ErrCredentialExpired.
func (s *JWTService) Decode(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrCredentialExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
	}

	return claims, nil
}

// ExpiresAt : срок действия из токена без проверки подписи
func (s *JWTService) ExpiresAt(tokenStr string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
