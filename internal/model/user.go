package model

import "time"

// User : ID внутренний идентификатор, Login внешний (email или телефон), уникален
type User struct {
	ID           int64     `db:"id" json:"-"`
	Login        string    `db:"login" json:"id"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
