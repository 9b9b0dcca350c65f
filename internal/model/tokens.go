package model

import "time"

// Session : запись о refresh токене для пары (пользователь, устройство).
// После создания меняется только IsActive и только в сторону false.
type Session struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuthContext : данные, которые guard кладёт в контекст запроса после успешной проверки
type AuthContext struct {
	UserID   int64
	Login    string
	DeviceID string
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения нового access токена)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`

	DeviceID string `json:"-"`
}
