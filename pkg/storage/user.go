package storage

import (
	"database/sql"
	"errors"

	"smp_go/models"
)

func (db *DB) CreateUser(user models.User) (*models.User, error) {
	query := `
               INSERT INTO users (username, email, password_hash)
               VALUES ($1, $2, $3)
               RETURNING id, created_at
       `
	err := db.Conn.QueryRow(query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `
               SELECT id, username, email, password_hash, created_at
               FROM users
               WHERE username = $1
       `
	err := db.Conn.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) GetUserByID(id int) (*models.User, error) {
	var user models.User
	query := `
               SELECT id, username, email, password_hash, created_at
               FROM users
               WHERE id = $1
       `
	err := db.Conn.QueryRow(query, id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
