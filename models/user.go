package models

import "time"

// User представляет зарегистрированного пользователя платформы.
// PasswordHash не сериализуется в JSON, чтобы хеш не утекал в ответы API.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
